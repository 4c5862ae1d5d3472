// Package helpers bridges telebot handler contexts to the request context used
// by services and logs, and sends replies through the outbound dispatcher.
package helpers

import (
	"context"

	"github.com/m3rciful/bankbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

const requestCtxKey = "request_ctx"

// RequestContext returns the context of the update being handled: its rid,
// update, chat and user ids and the Telegram logger. It is derived on first
// use and cached on c.
func RequestContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(requestCtxKey).(context.Context); ok {
		return ctx
	}
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if sender := c.Sender(); sender != nil {
		userID = sender.ID
	}
	updateID := c.Update().ID

	ctx := logger.WithRID(context.Background(), logger.BuildRID(updateID, chatID, userID))
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.TG)
	c.Set(requestCtxKey, ctx)
	return ctx
}

// WithHandler names the handler serving c in its request context.
func WithHandler(c tele.Context, name string) context.Context {
	ctx := logger.WithHandler(RequestContext(c), name)
	c.Set(requestCtxKey, ctx)
	return ctx
}
