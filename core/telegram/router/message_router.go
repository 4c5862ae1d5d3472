package router

import (
	tg "github.com/m3rciful/bankbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// FSM dispatches updates of chats that are in the middle of a conversation.
type FSM interface {
	InProgress(chatID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextOptions holds the handlers for chats without an active conversation.
// A nil handler leaves such updates unanswered.
type TextOptions struct {
	Text     tele.HandlerFunc
	Document tele.HandlerFunc
}

// TextRoutes routes texts and documents. Texts of chats with an active
// conversation go to the FSM; documents never do.
func TextRoutes(fsm FSM, opts TextOptions) []tg.Route {
	inFSM := summarize("fsm", fsm.ManagerHandler)
	onText := orSkip("text", opts.Text)
	text := func(c tele.Context) error {
		if chat := c.Chat(); chat != nil && fsm.InProgress(chat.ID) {
			return inFSM(c)
		}
		return onText(c)
	}
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: text},
		{Endpoint: tele.OnDocument, Handler: orSkip("document", opts.Document)},
	}
}

func orSkip(name string, h tele.HandlerFunc) tele.HandlerFunc {
	if h == nil {
		return func(c tele.Context) error {
			skipped(c, name)
			return nil
		}
	}
	return summarize(name, h)
}
