package middleware

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	coreconfig "github.com/m3rciful/bankbot/core/config"
	"github.com/m3rciful/bankbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures RateLimitMiddleware.
type RateLimitOptions struct {
	Interval time.Duration
	// Exclude lists update kinds (see core/config) that are never throttled.
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

type userLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	lastSeen map[int64]time.Time
}

// allow records an update of userID at now and reports whether it passes.
// Rejected updates do not move the window.
func (l *userLimiter) allow(userID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.lastSeen[userID]; ok && now.Sub(last) < l.interval {
		return false
	}
	l.lastSeen[userID] = now
	return true
}

// RateLimitMiddleware lets one update per user through every Interval.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	limiter := &userLimiter{interval: opts.Interval, lastSeen: make(map[int64]time.Time)}

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || opts.Interval <= 0 {
				return next(c)
			}
			kind := UpdateKind(c)
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}
			if limiter.allow(sender.ID, now()) {
				return next(c)
			}

			attrs := []slog.Attr{
				slog.String("status", "rate_limited"),
				slog.String("op", kind),
				slog.Int64("user_id", sender.ID),
			}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.Int64("chat_id", chat.ID))
			}
			logger.LogEvent(context.Background(), logger.TG, slog.LevelWarn, "tg.rate_limit", attrs...)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}

// UpdateKind classifies an update for rate limit exclusions.
func UpdateKind(c tele.Context) string {
	msg := c.Message()
	switch {
	case msg == nil:
		return ""
	case msg.Document != nil:
		return coreconfig.UpdateDocument
	case strings.HasPrefix(msg.Text, "/"):
		return coreconfig.UpdateCommand
	default:
		return coreconfig.UpdateText
	}
}
