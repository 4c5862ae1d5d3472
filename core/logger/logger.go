// Package logger is the structured logging layer shared by the bot binaries.
//
// Records go through a slog handler that prints one kv or JSON line per
// event with a fixed leading key order. Every line carries a component and an
// event name; request metadata (rid, update, chat, user, handler) is taken
// from the context.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/bankbot/core/buildinfo"
	coreconfig "github.com/m3rciful/bankbot/core/config"
)

var (
	initOnce sync.Once
	levelVar slog.LevelVar
	sinks    *sinkSet

	sampleEvery atomic.Int64
	sampleKeep  atomic.Int64
	sampleSeq   atomic.Int64

	// L is the root logger. It discards everything until InitLogger runs.
	L *slog.Logger

	// DB logs connection pool events.
	DB *slog.Logger
	// MIG logs schema migrations.
	MIG *slog.Logger
	// TG logs the Telegram transport.
	TG *slog.Logger
)

func init() {
	setRoot(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setRoot(root *slog.Logger) {
	L = root
	DB = root.With("component", "db")
	MIG = root.With("component", "db.migrate")
	TG = root.With("component", "tg")
}

// InitLogger installs the structured handler as the slog default. Only the
// first call has an effect.
func InitLogger(cfg *coreconfig.Config) error {
	var err error
	initOnce.Do(func() {
		var lc coreconfig.LoggingConfig
		if cfg != nil {
			lc = cfg.Logging
		}
		levelVar.Set(parseLevel(lc.Level))
		keep, every := parseSample(lc.DebugSample)
		sampleKeep.Store(keep)
		sampleEvery.Store(every)

		sinks, err = openSinks(lc.Dir, lc.File)
		if err != nil {
			return
		}
		root := slog.New(newLineHandler(sinks, &levelVar, useJSON(lc)))
		slog.SetDefault(root)
		setRoot(root)

		root.LogAttrs(context.Background(), slog.LevelInfo, "startup",
			slog.String("component", "app"),
			slog.String("go_version", runtime.Version()),
			slog.String("version", buildinfo.Version),
			slog.String("build_commit", buildinfo.Commit),
			slog.String("build_time", buildinfo.Date),
			slog.String("cfg_profile", profile(lc)),
		)
	})
	return err
}

// Shutdown closes the optional log file. Later records go to stdout only.
func Shutdown() error {
	if sinks == nil {
		return nil
	}
	return sinks.Close()
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func useJSON(lc coreconfig.LoggingConfig) bool {
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "json":
		return true
	case "kv", "text":
		return false
	}
	return profile(lc) == "prod"
}

func profile(lc coreconfig.LoggingConfig) string {
	if p := strings.ToLower(strings.TrimSpace(lc.Profile)); p != "" {
		return p
	}
	return "prod"
}

// parseSample reads "N/M" or "M" (meaning 1/M). Zero or garbage disables sampling.
func parseSample(raw string) (keep, every int64) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, 50
	}
	num, den, found := strings.Cut(raw, "/")
	if !found {
		num, den = "1", raw
	}
	k, err1 := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	e, err2 := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
	if err1 != nil || err2 != nil || k <= 0 || e <= 0 {
		return 0, 0
	}
	return min(k, e), e
}

// ShouldSampleDebug reports whether a high-volume debug event should be logged.
func ShouldSampleDebug() bool {
	every := sampleEvery.Load()
	if every <= 0 {
		return true
	}
	n := sampleSeq.Add(1) - 1
	return n%every < sampleKeep.Load()
}

// sinkSet writes each line to stdout and the optional log file under one lock
// so lines from concurrent handlers never interleave.
type sinkSet struct {
	mu   sync.Mutex
	out  []io.Writer
	file *os.File
}

func openSinks(dir, name string) (*sinkSet, error) {
	s := &sinkSet{out: []io.Writer{os.Stdout}}
	dir, name = strings.TrimSpace(dir), strings.TrimSpace(name)
	if dir == "" || name == "" {
		return s, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	s.file = f
	s.out = append(s.out, f)
	return s, nil
}

func (s *sinkSet) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, w := range s.out {
		if _, err := w.Write(p); err != nil {
			errs = append(errs, err)
		}
	}
	return len(p), errors.Join(errs...)
}

func (s *sinkSet) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.out, s.file = s.out[:1], nil
	return err
}

// LogEvent writes event with attrs through logg, or the context logger when logg is nil.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, level, "", attrs...)
}

// Component returns the root logger scoped to name.
func Component(name string) *slog.Logger {
	name = strings.TrimSpace(name)
	if name == "" {
		return L
	}
	return L.With("component", name)
}

// Debug logs a debug event of component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelDebug, event, attrs...)
}

// Info logs an info event of component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelInfo, event, attrs...)
}

// Warn logs a warning event of component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelWarn, event, attrs...)
}

// Error logs an error event of component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelError, event, attrs...)
}

// Status maps err to the status value used in summaries.
func Status(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}

// Took is the time since start rounded to milliseconds.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to milliseconds; negative durations become zero.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// Preview joins at most limit values and reports whether some were left out.
func Preview(values []string, limit int) (string, bool) {
	if len(values) <= limit {
		return strings.Join(values, ", "), false
	}
	return strings.Join(values[:max(limit, 0)], ", "), true
}
