package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer, asJSON bool) *slog.Logger {
	return slog.New(newLineHandler(buf, slog.LevelDebug, asJSON))
}

func TestLineHandlerKVLeadingOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithRID(context.Background(), BuildRID(42, 9, 7))
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := newTestLogger(&buf, false).With("component", "service.agreements")
	LogEvent(ctx, log, slog.LevelInfo, "agreement.create",
		slog.String("zz_extra", "x"),
		slog.String("status", "OK"),
		slog.Int64("agreement_id", 5),
	)

	tokens := strings.Fields(strings.TrimSpace(buf.String()))
	want := []string{
		"ts=", "level=INFO", "component=service.agreements", "event=agreement.create", "status=ok",
		"rid=" + CompactRID("42:9:7"), "update_id=42", "user_id=7", "chat_id=9", "agreement_id=5", "zz_extra=x",
	}
	if len(tokens) != len(want) {
		t.Fatalf("unexpected tokens %q", tokens)
	}
	for i, prefix := range want {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %q, want prefix %q", i, tokens[i], prefix)
		}
	}
}

func TestLineHandlerJSONNormalizesValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newTestLogger(&buf, true)
	LogEvent(context.Background(), log, slog.LevelWarn, "rate.lookup",
		slog.Duration("duration", 1500*time.Microsecond),
		slog.Any("err", errString("upstream down")),
		slog.String("empty", "  "),
		slog.Group("req", slog.String("path", "/api/rates/USD")),
	)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["component"] != "app" || got["event"] != "rate.lookup" || got["level"] != "WARN" {
		t.Fatalf("unexpected header fields %v", got)
	}
	if got["duration_ms"] != float64(2) {
		t.Fatalf("expected duration_ms=2, got %v", got["duration_ms"])
	}
	if got["err"] != "upstream down" || got["req.path"] != "/api/rates/USD" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := got["empty"]; ok {
		t.Fatal("blank strings must be dropped")
	}
	if !strings.HasPrefix(buf.String(), `{"ts":`) {
		t.Fatalf("ts must lead, got %s", buf.String())
	}
}

func TestLineHandlerQuotesKVValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newTestLogger(&buf, false).Info("", slog.String("event", "conversation.turn"), slog.String("payload", "Cash loan"))
	if !strings.Contains(buf.String(), `payload="Cash loan"`) {
		t.Fatalf("expected quoted payload, got %s", buf.String())
	}
}

func TestCompactRID(t *testing.T) {
	t.Parallel()

	if got := CompactRID("35:36:10"); got != "z.10.a" {
		t.Fatalf("unexpected compact rid %q", got)
	}
	if got := CompactRID("not-a-rid"); got != "not-a-rid" {
		t.Fatalf("foreign rid must pass through, got %q", got)
	}
}

func TestParseSample(t *testing.T) {
	t.Parallel()

	cases := map[string][2]int64{
		"":      {1, 50},
		"1/10":  {1, 10},
		"20":    {1, 20},
		"5/3":   {3, 3},
		"0":     {0, 0},
		"bogus": {0, 0},
	}
	for in, want := range cases {
		keep, every := parseSample(in)
		if keep != want[0] || every != want[1] {
			t.Fatalf("parseSample(%q) = %d/%d, want %d/%d", in, keep, every, want[0], want[1])
		}
	}
}

func TestSanitizeLimit(t *testing.T) {
	t.Parallel()

	if got := SanitizeLimit("a\x00b\tcdef", 4); got != "ab\tc" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
