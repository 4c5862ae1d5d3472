// Package router turns a command registry and conversation handlers into
// telebot routes that log one summary line per handled update.
package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// summarize names the handler in the request context and logs its outcome.
func summarize(name string, h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		ctx := helpers.WithHandler(c, name)
		err := h(c)

		replies, kb := helpers.Replies(c)
		attrs := []slog.Attr{
			slog.String("status", logger.Status(err)),
			slog.Int("replies", replies),
			slog.Bool("kb", kb),
			slog.Duration("duration", logger.Took(start)),
		}
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
			attrs = append(attrs,
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
				slog.String("err_code", errorCode(err)),
			)
		}
		logger.LogEvent(ctx, logger.TG, level, "handler.handled", attrs...)
		return err
	}
}

// skipped logs an update nobody handles.
func skipped(c tele.Context, name string) {
	logger.Debug(helpers.WithHandler(c, name), "tg", "handler.handled", slog.String("status", "skip"))
}

// errorCode is the Code() of err when it has one, else its type name.
func errorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(code)
		}
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "UNKNOWN"
	}
	return t.Name()
}
