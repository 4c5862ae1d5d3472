// Package middleware holds the telebot middlewares shared by bots.
package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Recover turns a handler panic into an error so the update loop survives.
func Recover(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err = fmt.Errorf("handler panic: %v", r)
			logger.Error(helpers.RequestContext(c), "tg", "tg.panic",
				slog.Any("err", err),
				slog.String("stack", string(debug.Stack())),
			)
		}()
		return next(c)
	}
}
