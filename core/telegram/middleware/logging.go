package middleware

import (
	"log/slog"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// UpdateLog attaches the request context to c and logs a sampled debug line
// per received update.
func UpdateLog(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := helpers.RequestContext(c)
		if logger.ShouldSampleDebug() {
			attrs := []slog.Attr{slog.String("op", UpdateKind(c))}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
			}
			if u := c.Sender(); u != nil {
				attrs = append(attrs,
					slog.String("username", logger.SanitizeLimit(u.Username, 64)),
					slog.String("lang", u.LanguageCode),
				)
			}
			if c.Message() != nil {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(c.Text(), 256)))
			}
			logger.Debug(ctx, "tg", "update.received", attrs...)
		}
		return next(c)
	}
}
