package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var dispatcher atomic.Pointer[sender.Dispatcher]

// UseDispatcher routes SendText through d. nil restores inline sending.
func UseDispatcher(d *sender.Dispatcher) {
	dispatcher.Store(d)
}

// SendText sends plain text to the chat of c. With a dispatcher installed it
// returns once the message is queued; if the queue is full or closed the
// message is sent inline instead.
func SendText(c tele.Context, text string, opts *tele.SendOptions) error {
	send := func() error {
		if opts == nil {
			return c.Send(text)
		}
		return c.Send(text, opts)
	}

	err := enqueue(c, send)
	if err == nil {
		countReply(c, opts)
	}
	return err
}

func enqueue(c tele.Context, send func() error) error {
	d := dispatcher.Load()
	if d == nil {
		return send()
	}
	ctx := RequestContext(c)
	err := d.Enqueue(ctx, "sendMessage", send)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.bypass", slog.String("err", err.Error()))
		return send()
	}
	return err
}
