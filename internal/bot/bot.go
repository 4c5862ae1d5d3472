// Package bot connects the conversation service to Telegram.
package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m3rciful/bankbot/core/logger"
	coretelegram "github.com/m3rciful/bankbot/core/telegram"
	"github.com/m3rciful/bankbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/bankbot/core/telegram/helpers"
	"github.com/m3rciful/bankbot/core/telegram/keyboard"
	"github.com/m3rciful/bankbot/core/telegram/router"
	"github.com/m3rciful/bankbot/core/telegram/state"
	"github.com/m3rciful/bankbot/internal/config"
	"github.com/m3rciful/bankbot/internal/conversation"
	"github.com/m3rciful/bankbot/internal/user"

	tele "gopkg.in/telebot.v4"
)

// Conversation handles one inbound text.
type Conversation interface {
	Handle(ctx context.Context, chatID int64, text string, role user.Role) (conversation.Reply, error)
	Reset(chatID int64)
}

// Roles resolves the role of a Telegram user.
type Roles interface {
	RoleOf(ctx context.Context, tgID int64) user.Role
}

// Lifecycle is a component started and stopped with the bot, such as the REST server.
type Lifecycle interface {
	Start(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// App is the Telegram application of the bank bot.
type App struct {
	cfg      *config.Config
	conv     Conversation
	roles    Roles
	sessions state.Manager
	extras   []Lifecycle
}

// New builds the app. sessions must be the manager the conversation uses.
func New(cfg *config.Config, conv Conversation, roles Roles, sessions state.Manager, extras ...Lifecycle) *App {
	return &App{cfg: cfg, conv: conv, roles: roles, sessions: sessions, extras: extras}
}

// TelegramRunOptions wires commands, routes and middlewares for the runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()

	reg := coretelegram.NewRegistry()
	err := errors.Join(
		reg.Register(conversation.CommandStart, commands.Command{
			Handler:     a.handleStart,
			Description: "Open the main menu",
		}),
		reg.Register(commandHelp, commands.Command{
			Handler:     a.handleHelp,
			Description: "How to use the bot",
		}),
		reg.Register(commandReview, commands.Command{
			Handler:     a.handleReview,
			Description: "Review new agreements",
			AdminOnly:   true,
		}),
	)
	if err != nil {
		return coretelegram.RunOptions{}, err
	}

	for _, st := range []state.State{
		conversation.ActionProducts,
		conversation.ActionCurrencyRates,
		conversation.ActionNewAgreements,
	} {
		a.sessions.RegisterHandler(st, a.handleText)
	}

	mws := coretelegram.DefaultMiddlewares(core, a.onRateLimited)
	mws = append(mws, coretelegram.Middleware{Name: "session", Use: state.WithSession(a.sessions)})

	routes := router.CommandRoutes(reg, router.CommandOptions{
		AdminID:  core.Telegram.AdminID,
		OnDenied: a.rejectAdmin,
	})
	routes = append(routes, router.TextRoutes(a.sessions, router.TextOptions{
		Text:     a.handleText,
		Document: a.unknownDocument,
	})...)

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: mws,
		Routes:      routes,
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			for _, x := range a.extras {
				x.Start(ctx)
			}
			return nil
		},
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			for _, x := range a.extras {
				if err := x.Shutdown(ctx); err != nil {
					logger.Warn(ctx, "tg", "extra.shutdown",
						slog.String("status", "fail"),
						slog.String("err", err.Error()),
					)
				}
			}
			return nil
		},
	}, nil
}

// handleText feeds the message into the conversation.
func (a *App) handleText(c tele.Context) error {
	return a.converse(c, c.Text())
}

// handleStart opens the main menu. telebot routes "/start <payload>" and
// "/start@bot" here too, so the raw text is not passed on.
func (a *App) handleStart(c tele.Context) error {
	return a.converse(c, conversation.CommandStart)
}

func (a *App) handleHelp(c tele.Context) error {
	ctx := tghelpers.RequestContext(c)
	return send(c, conversation.Reply{
		Text:    msgHelp,
		Buttons: conversation.MainMenu(a.roleOf(ctx, c)),
	})
}

// handleReview jumps straight into the review of new agreements.
func (a *App) handleReview(c tele.Context) error {
	if chat := c.Chat(); chat != nil {
		a.conv.Reset(chat.ID)
	}
	return a.converse(c, conversation.ButtonNewAgreements)
}

// converse runs one conversation turn and renders the reply. On failure the
// user gets a retry prompt and the error is returned for the handler summary.
func (a *App) converse(c tele.Context, text string) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	ctx := tghelpers.RequestContext(c)
	role := a.roleOf(ctx, c)

	if sess, ok := state.SessionFrom(c); ok {
		logger.Debug(ctx, "tg", "conversation.enter",
			slog.String("state", string(sess.State)),
			slog.String("role", string(role)),
		)
	}

	reply, err := a.conv.Handle(ctx, chat.ID, text, role)
	if err != nil {
		if sendErr := send(c, conversation.FailureReply()); sendErr != nil {
			logger.Warn(ctx, "tg", "send.failure_reply",
				slog.String("status", "fail"),
				slog.String("err", sendErr.Error()),
			)
		}
		return err
	}
	return send(c, reply)
}

func (a *App) rejectAdmin(c tele.Context) error {
	ctx := tghelpers.RequestContext(c)
	return send(c, conversation.Reply{
		Text:    msgAdminOnly,
		Buttons: conversation.MainMenu(a.roleOf(ctx, c)),
	})
}

func (a *App) onRateLimited(c tele.Context) error {
	return tghelpers.SendText(c, msgRateLimited, nil)
}

func (a *App) unknownDocument(c tele.Context) error {
	return tghelpers.SendText(c, msgTextOnly, nil)
}

func (a *App) roleOf(ctx context.Context, c tele.Context) user.Role {
	sender := c.Sender()
	if sender == nil || a.roles == nil {
		return user.RoleUser
	}
	return a.roles.RoleOf(ctx, sender.ID)
}

// send renders reply as plain text with a one-time keyboard of RowWidth columns.
func send(c tele.Context, reply conversation.Reply) error {
	return tghelpers.SendText(c, reply.Text, &tele.SendOptions{
		ReplyMarkup: keyboard.ForRows(reply.Rows()),
	})
}
