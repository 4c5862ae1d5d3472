package middleware

import (
	"github.com/m3rciful/bankbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// CountReplies starts counting the replies SendText sends for this update,
// see helpers.Replies.
func CountReplies(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		helpers.TrackReplies(c)
		return next(c)
	}
}
