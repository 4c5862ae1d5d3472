package helpers

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const repliesKey = "replies"

type replyStats struct {
	count    atomic.Int32
	keyboard atomic.Bool
}

// TrackReplies starts counting replies sent for the update of c.
func TrackReplies(c tele.Context) {
	c.Set(repliesKey, &replyStats{})
}

// Replies reports how many replies were sent or queued for the update of c
// and whether any of them carried a keyboard.
func Replies(c tele.Context) (count int, keyboard bool) {
	s, ok := c.Get(repliesKey).(*replyStats)
	if !ok {
		return 0, false
	}
	return int(s.count.Load()), s.keyboard.Load()
}

func countReply(c tele.Context, opts *tele.SendOptions) {
	s, ok := c.Get(repliesKey).(*replyStats)
	if !ok {
		return
	}
	s.count.Add(1)
	if opts != nil && opts.ReplyMarkup != nil && !opts.ReplyMarkup.RemoveKeyboard {
		s.keyboard.Store(true)
	}
}
