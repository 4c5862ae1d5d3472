package helpers

import (
	"sync"
	"testing"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	mu    sync.Mutex
	store map[string]any
	sent  []string
}

func (f *fakeContext) Chat() *tele.Chat    { return &tele.Chat{ID: 20} }
func (f *fakeContext) Sender() *tele.User  { return &tele.User{ID: 30} }
func (f *fakeContext) Update() tele.Update { return tele.Update{ID: 10} }

func (f *fakeContext) Get(key string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store[key]
}

func (f *fakeContext) Set(key string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[key] = v
}

func (f *fakeContext) Send(what any, _ ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, what.(string))
	return nil
}

func TestRequestContextCarriesUpdateMeta(t *testing.T) {
	t.Parallel()

	c := &fakeContext{store: map[string]any{}}
	ctx := RequestContext(c)
	if logger.UpdateIDFrom(ctx) != 10 || logger.ChatIDFrom(ctx) != 20 || logger.UserIDFrom(ctx) != 30 {
		t.Fatal("update metadata missing from the request context")
	}
	if logger.RIDFrom(ctx) != "10:20:30" {
		t.Fatalf("unexpected rid %q", logger.RIDFrom(ctx))
	}
	ctx = WithHandler(c, "start")
	if logger.HandlerFrom(RequestContext(c)) != "start" || logger.HandlerFrom(ctx) != "start" {
		t.Fatal("handler name must be cached on the context")
	}
}

// Not parallel: the dispatcher is process wide.
func TestSendTextThroughDispatcher(t *testing.T) {
	d := sender.NewDispatcher(sender.Options{Workers: 1, QueueSize: 4})
	UseDispatcher(d)
	defer UseDispatcher(nil)

	c := &fakeContext{store: map[string]any{}}
	TrackReplies(c)
	if err := SendText(c, "hello", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kb := &tele.ReplyMarkup{ReplyKeyboard: [][]tele.ReplyButton{{{Text: "Back"}}}}
	if err := SendText(c, "menu", &tele.SendOptions{ReplyMarkup: kb}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Close()

	if len(c.sent) != 2 || c.sent[0] != "hello" || c.sent[1] != "menu" {
		t.Fatalf("unexpected sends %v", c.sent)
	}
	if n, withKB := Replies(c); n != 2 || !withKB {
		t.Fatalf("expected 2 replies with a keyboard, got %d %v", n, withKB)
	}

	// A closed queue falls back to sending inline.
	if err := SendText(c, "late", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.sent) != 3 {
		t.Fatalf("expected an inline send, got %v", c.sent)
	}
}
