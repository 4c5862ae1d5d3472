// Package telegram runs a bot on telebot: it builds the poller and HTTP
// client from configuration, installs middlewares and routes, publishes the
// command menu and drives the lifecycle hooks around the update loop.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/bankbot/core/config"
	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/core/telegram/helpers"
	"github.com/m3rciful/bankbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

const stopTimeout = 10 * time.Second

// Middleware is a global middleware. Name is only used in logs.
type Middleware struct {
	Name string
	Use  tele.MiddlewareFunc
}

// Route binds a handler to a telebot endpoint such as "/start" or tele.OnText.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// Runtime is handed to the lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *sender.Dispatcher
	Registry   *Registry
}

// RunOptions describes a bot for RunTelegram. Middlewares run in order, the
// first one outermost.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry
	Sender   sender.Options

	Middlewares []Middleware
	Routes      []Route

	// OnStart runs before updates are received; an error aborts the start.
	OnStart func(ctx context.Context, rt Runtime) error
	// OnStop runs after the update loop stopped, with a fresh deadline.
	OnStop func(ctx context.Context, rt Runtime) error
}

// RunTelegram serves updates until ctx is done. Cancellation is a clean stop
// and returns nil.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		return errors.New("telegram: nil config")
	}
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	start := time.Now()
	poller := BuildPoller(cfg)
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
		Client: NewHTTPClient(),
		OnError: func(err error, c tele.Context) {
			rctx := context.Background()
			if c != nil {
				rctx = helpers.RequestContext(c)
			}
			logger.Error(rctx, "tg", "bot.error", slog.String("err", sender.Redact(err)))
		},
	})
	if err != nil {
		return fmt.Errorf("telegram: init bot: %s", sender.Redact(err))
	}
	logPoller(ctx, poller, logger.Took(start))

	if cfg.Telegram.RunMode == coreconfig.RunModeLongpoll {
		// A webhook left over from an earlier deployment blocks getUpdates.
		if err := bot.RemoveWebhook(); err != nil {
			logger.Warn(ctx, "tg", "webhook.remove", slog.String("status", "fail"), slog.String("err", sender.Redact(err)))
		}
	}

	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, r := range opts.Routes {
		if r.Endpoint != nil && r.Handler != nil {
			bot.Handle(r.Endpoint, r.Handler)
		}
	}
	menu := reg.Menu()
	if err := bot.SetCommands(menu); err != nil {
		logger.Warn(ctx, "tg.wire", "commands.publish", slog.String("status", "fail"), slog.String("err", sender.Redact(err)))
	} else {
		logger.Info(ctx, "tg.wire", "commands.publish", slog.Int("count", len(menu)))
	}

	dispatcher := sender.NewDispatcher(opts.Sender)
	helpers.UseDispatcher(dispatcher)
	defer func() {
		dispatcher.Close()
		helpers.UseDispatcher(nil)
	}()

	rt := Runtime{Bot: bot, Dispatcher: dispatcher, Registry: reg}
	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		bot.Start()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
	case <-done:
		runErr = errors.New("telegram: update loop exited")
	}

	if opts.OnStop != nil {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
		defer cancel()
		runErr = errors.Join(runErr, opts.OnStop(stopCtx, rt))
	}
	return runErr
}

func logPoller(ctx context.Context, p tele.Poller, took time.Duration) {
	switch p := p.(type) {
	case *tele.Webhook:
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
			slog.Duration("duration", took),
		)
	case *tele.LongPoller:
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Duration("timeout", p.Timeout),
			slog.Duration("duration", took),
		)
	}
}
