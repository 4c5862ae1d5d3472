package logger

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
)

const tsLayout = "2006-01-02T15:04:05.000Z07:00"

// leadingKeys are printed first, in this order. Remaining keys follow sorted.
var leadingKeys = []string{
	"ts", "level", "component", "event", "status",
	"rid", "update_id", "user_id", "chat_id", "handler",
	"state", "role", "product_type", "product_id", "agreement_id",
	"currency", "amount", "period_months",
	"method", "path", "http_code",
	"duration_ms", "count", "err", "err_code",
}

var leadingRank = func() map[string]int {
	m := make(map[string]int, len(leadingKeys))
	for i, k := range leadingKeys {
		m[k] = i
	}
	return m
}()

// lineHandler renders records as single kv or JSON lines.
type lineHandler struct {
	out    io.Writer
	level  slog.Leveler
	json   bool
	attrs  []slog.Attr
	groups string
}

func newLineHandler(out io.Writer, level slog.Leveler, asJSON bool) *lineHandler {
	return &lineHandler{out: out, level: level, json: asJSON}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = slices.Concat(h.attrs, h.qualify(attrs))
	return &clone
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = h.groups + name + "."
	return &clone
}

func (h *lineHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.groups == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.groups + a.Key, Value: a.Value}
	}
	return out
}

func (h *lineHandler) Handle(ctx context.Context, r slog.Record) error {
	fields := map[string]any{
		"ts":    r.Time.UTC().Format(tsLayout),
		"level": r.Level.String(),
	}
	for _, a := range h.attrs {
		addAttr(fields, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(fields, h.groups, a)
		return true
	})
	addContext(ctx, fields)

	if _, ok := fields["event"]; !ok {
		fields["event"] = cmp.Or(r.Message, "unknown")
	}
	if _, ok := fields["component"]; !ok {
		fields["component"] = "app"
	}
	if s, ok := fields["status"].(string); ok {
		fields["status"] = strings.ToLower(s)
	}
	if rid, ok := fields["rid"].(string); ok {
		fields["rid"] = CompactRID(rid)
	}

	line, err := h.render(fields)
	if err != nil {
		return err
	}
	_, err = h.out.Write(append(line, '\n'))
	return err
}

func (h *lineHandler) render(fields map[string]any) ([]byte, error) {
	keys := orderKeys(fields)
	sep, open, closing := " ", "", ""
	if h.json {
		sep, open, closing = ",", "{", "}"
	}
	var b strings.Builder
	b.WriteString(open)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(sep)
		}
		if h.json {
			v, err := json.Marshal(fields[k])
			if err != nil {
				return nil, fmt.Errorf("logger: encode %s: %w", k, err)
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			b.Write(v)
			continue
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(kvValue(fields[k]))
	}
	b.WriteString(closing)
	return []byte(b.String()), nil
}

func orderKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ra, oka := leadingRank[a]
		rb, okb := leadingRank[b]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys
}

// addAttr flattens groups into dotted keys and normalizes values. Empty
// strings and nil values are dropped.
func addAttr(fields map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	key := prefix + a.Key
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			key += "."
		}
		for _, child := range v.Group() {
			addAttr(fields, key, child)
		}
		return
	}
	if a.Key == "" {
		return
	}
	switch v.Kind() {
	case slog.KindString:
		if s := strings.TrimSpace(v.String()); s != "" {
			fields[key] = s
		}
	case slog.KindDuration:
		fields[msKey(key)] = RoundMS(v.Duration()).Milliseconds()
	case slog.KindTime:
		fields[key] = v.Time().UTC().Format(time.RFC3339Nano)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case nil:
		case error:
			fields[key] = x.Error()
		case fmt.Stringer:
			fields[key] = x.String()
		default:
			fields[key] = x
		}
	default:
		fields[key] = v.Any()
	}
}

func msKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case strings.HasSuffix(key, "_ms"):
		return key
	}
	return key + "_ms"
}

func addContext(ctx context.Context, fields map[string]any) {
	setDefault := func(k string, v any, present bool) {
		if _, ok := fields[k]; !ok && present {
			fields[k] = v
		}
	}
	rid := RIDFrom(ctx)
	setDefault("rid", rid, rid != "")
	m := metaFrom(ctx)
	setDefault("update_id", m.updateID, m.updateID != 0)
	setDefault("user_id", m.userID, m.userID != 0)
	setDefault("chat_id", m.chatID, m.chatID != 0)
	hd := HandlerFrom(ctx)
	setDefault("handler", hd, hd != "")
}

func kvValue(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
