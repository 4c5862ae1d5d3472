package middleware

import (
	"log/slog"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions configures AdminOnly. A zero AdminID denies everyone.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnly lets only the configured admin through.
func AdminOnly(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if s := c.Sender(); s != nil && opts.AdminID != 0 && s.ID == opts.AdminID {
				return next(c)
			}
			logger.Warn(helpers.RequestContext(c), "tg", "access.denied", slog.String("status", "denied"))
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
	}
}
