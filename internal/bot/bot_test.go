package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/m3rciful/bankbot/core/telegram/state"
	"github.com/m3rciful/bankbot/internal/config"
	"github.com/m3rciful/bankbot/internal/conversation"
	"github.com/m3rciful/bankbot/internal/user"

	tele "gopkg.in/telebot.v4"
)

type sentMessage struct {
	text   string
	markup *tele.ReplyMarkup
}

// fakeContext implements the parts of tele.Context the handlers touch.
type fakeContext struct {
	tele.Context
	chat   *tele.Chat
	sender *tele.User
	text   string
	store  map[string]any
	sent   []sentMessage
	// sendErr fails every send after recording it.
	sendErr error
}

func newFakeContext(chatID int64, text string) *fakeContext {
	return &fakeContext{
		chat:   &tele.Chat{ID: chatID, Type: tele.ChatPrivate},
		sender: &tele.User{ID: chatID},
		text:   text,
		store:  make(map[string]any),
	}
}

func (f *fakeContext) Chat() *tele.Chat      { return f.chat }
func (f *fakeContext) Sender() *tele.User    { return f.sender }
func (f *fakeContext) Text() string          { return f.text }
func (f *fakeContext) Update() tele.Update   { return tele.Update{ID: 1} }
func (f *fakeContext) Get(key string) any    { return f.store[key] }
func (f *fakeContext) Set(key string, v any) { f.store[key] = v }

func (f *fakeContext) Send(what any, opts ...any) error {
	msg := sentMessage{text: what.(string)}
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok && so != nil {
			msg.markup = so.ReplyMarkup
		}
	}
	f.sent = append(f.sent, msg)
	return f.sendErr
}

type scriptedConversation struct {
	reply  conversation.Reply
	err    error
	got    []string
	roles  []user.Role
	resets []int64
}

func (s *scriptedConversation) Handle(_ context.Context, _ int64, text string, role user.Role) (conversation.Reply, error) {
	s.got = append(s.got, text)
	s.roles = append(s.roles, role)
	return s.reply, s.err
}

func (s *scriptedConversation) Reset(chatID int64) { s.resets = append(s.resets, chatID) }

type fixedRole user.Role

func (r fixedRole) RoleOf(context.Context, int64) user.Role { return user.Role(r) }

func TestHandleTextRendersRows(t *testing.T) {
	t.Parallel()

	conv := &scriptedConversation{reply: conversation.Reply{
		Text:    "Select currency:",
		Buttons: []string{"PLN", "EUR", "USD", "GBP", "CHF", "Back"},
	}}
	app := New(nil, conv, fixedRole(user.RoleManager), state.NewMemoryManager())
	c := newFakeContext(5, "Deposit")

	if err := app.handleText(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv.got) != 1 || conv.got[0] != "Deposit" || conv.roles[0] != user.RoleManager {
		t.Fatalf("unexpected conversation input %v %v", conv.got, conv.roles)
	}
	if len(c.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(c.sent))
	}
	kb := c.sent[0].markup
	if kb == nil || !kb.OneTimeKeyboard || len(kb.ReplyKeyboard) != 2 {
		t.Fatalf("expected a two-row one-time keyboard, got %+v", kb)
	}
	if len(kb.ReplyKeyboard[0]) != conversation.RowWidth || len(kb.ReplyKeyboard[1]) != 2 {
		t.Fatalf("unexpected row sizes %d/%d", len(kb.ReplyKeyboard[0]), len(kb.ReplyKeyboard[1]))
	}
}

func TestHandleTextFailureSendsRetryPrompt(t *testing.T) {
	t.Parallel()

	boom := errors.New("rate provider down")
	conv := &scriptedConversation{err: boom}
	app := New(nil, conv, fixedRole(user.RoleUser), state.NewMemoryManager())
	c := newFakeContext(6, "12")

	if err := app.handleText(c); !errors.Is(err, boom) {
		t.Fatalf("expected the conversation error, got %v", err)
	}
	want := conversation.FailureReply()
	if len(c.sent) != 1 || c.sent[0].text != want.Text {
		t.Fatalf("expected failure reply, got %+v", c.sent)
	}
}

func TestHandleReviewResetsFirst(t *testing.T) {
	t.Parallel()

	conv := &scriptedConversation{reply: conversation.Reply{Text: "list"}}
	app := New(nil, conv, fixedRole(user.RoleManager), state.NewMemoryManager())
	c := newFakeContext(7, "/agreements")

	if err := app.handleReview(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv.resets) != 1 || conv.resets[0] != 7 {
		t.Fatalf("expected reset of chat 7, got %v", conv.resets)
	}
	if len(conv.got) != 1 || conv.got[0] != conversation.ButtonNewAgreements {
		t.Fatalf("unexpected conversation input %v", conv.got)
	}
	if kb := c.sent[0].markup; kb == nil || !kb.RemoveKeyboard {
		t.Fatalf("reply without buttons must remove the keyboard, got %+v", kb)
	}
}

func TestTelegramRunOptionsRoutes(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Telegram.AdminID = 42
	cfg.RateLimit.IntervalMS = 500
	app := New(cfg, &scriptedConversation{}, fixedRole(user.RoleUser), state.NewMemoryManager())

	opts, err := app.TelegramRunOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, want := range []any{"/start", "/help", "/agreements", tele.OnText, tele.OnDocument} {
		if !endpoints[want] {
			t.Fatalf("missing route %v", want)
		}
	}
	names := map[string]bool{}
	for _, mw := range opts.Middlewares {
		names[mw.Name] = true
	}
	if !names["rate_limit"] || !names["session"] {
		t.Fatalf("unexpected middlewares %v", names)
	}
	for _, cmd := range opts.Registry.Menu() {
		if cmd.Text == "agreements" {
			t.Fatal("admin command must stay out of the menu")
		}
	}
}

func TestAdminCommandRejectsOtherUsers(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Telegram.AdminID = 42
	conv := &scriptedConversation{reply: conversation.Reply{Text: "list"}}
	app := New(cfg, conv, fixedRole(user.RoleUser), state.NewMemoryManager())
	opts, err := app.TelegramRunOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var review tele.HandlerFunc
	for _, r := range opts.Routes {
		if r.Endpoint == "/agreements" {
			review = r.Handler
		}
	}
	c := newFakeContext(7, "/agreements")
	if err := review(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv.got) != 0 {
		t.Fatalf("non-admin reached the review: %v", conv.got)
	}
	if len(c.sent) != 1 || c.sent[0].text != msgAdminOnly {
		t.Fatalf("expected the admin-only notice, got %+v", c.sent)
	}
}

func TestStartIgnoresPayloadAndBotMention(t *testing.T) {
	t.Parallel()

	conv := &scriptedConversation{reply: conversation.Reply{Text: "welcome"}}
	app := New(&config.Config{}, conv, fixedRole(user.RoleUser), state.NewMemoryManager())
	opts, err := app.TelegramRunOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var start tele.HandlerFunc
	for _, r := range opts.Routes {
		if r.Endpoint == conversation.CommandStart {
			start = r.Handler
		}
	}
	if start == nil {
		t.Fatal("no /start route")
	}

	for _, text := range []string{"/start ref42", "/start@bank_bot", "/start"} {
		if err := start(newFakeContext(3, text)); err != nil {
			t.Fatalf("%q: unexpected error: %v", text, err)
		}
	}
	for i, got := range conv.got {
		if got != conversation.CommandStart {
			t.Fatalf("turn %d: conversation got %q, want %q", i, got, conversation.CommandStart)
		}
	}
	if len(conv.got) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(conv.got))
	}
}

func TestHandleReviewFailureSendsRetryPrompt(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	conv := &scriptedConversation{err: boom}
	app := New(nil, conv, fixedRole(user.RoleManager), state.NewMemoryManager())
	c := newFakeContext(8, "/agreements")
	c.sendErr = errors.New("telegram unreachable")

	if err := app.handleReview(c); !errors.Is(err, boom) {
		t.Fatalf("expected the conversation error, got %v", err)
	}
	if len(c.sent) != 1 || c.sent[0].text != conversation.FailureReply().Text {
		t.Fatalf("expected one failure reply attempt, got %+v", c.sent)
	}
}
