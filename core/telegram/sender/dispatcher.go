// Package sender delivers outbound Telegram calls from a bounded queue served
// by a fixed pool of workers. Transient failures are retried; flood control
// replies are retried after the delay Telegram asks for.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/core/telegram/netutil"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrQueueClosed is returned by Enqueue after Close.
	ErrQueueClosed = errors.New("sender: queue closed")
	// ErrQueueFull is returned when the job did not fit into the queue.
	ErrQueueFull = errors.New("sender: queue full")

	botToken = regexp.MustCompile(`bot\d+:[\w-]+`)
)

// Options tunes a Dispatcher. Zero values select the defaults.
type Options struct {
	QueueSize  int           // default 256
	Workers    int           // default 4
	MaxRetries int           // retries after the first attempt, default 2, negative for none
	Backoff    time.Duration // multiplied by the attempt number, default 2s
	// MaxDuration bounds one job including its retries, default 15s.
	MaxDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = 2
	}
	if o.Backoff <= 0 {
		o.Backoff = 2 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 15 * time.Second
	}
	return o
}

type job struct {
	ctx    context.Context
	action string
	run    func() error
}

// Dispatcher runs queued sends on its workers until Close.
type Dispatcher struct {
	opts Options
	jobs chan job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	failed atomic.Uint64
}

// NewDispatcher starts the workers.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{opts: opts, jobs: make(chan job, opts.QueueSize)}
	d.wg.Add(opts.Workers)
	for range opts.Workers {
		go func() {
			defer d.wg.Done()
			for j := range d.jobs {
				d.deliver(j)
			}
		}()
	}
	return d
}

// Enqueue schedules run without blocking. run may be called more than once.
func (d *Dispatcher) Enqueue(ctx context.Context, action string, run func() error) error {
	if run == nil {
		return errors.New("sender: nil job")
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.jobs <- job{ctx: ctx, action: action, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Failed counts jobs that were given up on.
func (d *Dispatcher) Failed() uint64 {
	return d.failed.Load()
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) deliver(j job) {
	parent := j.ctx
	if parent == nil {
		parent = context.Background()
	}
	// The update handler may be long gone; only its values are kept.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	for attempt := 1; ; attempt++ {
		err := j.run()
		if err == nil {
			logger.Debug(ctx, "tg.sender", "send.ok",
				slog.String("op", j.action),
				slog.Int("attempts", attempt),
				slog.Duration("duration", logger.Took(start)),
			)
			return
		}

		wait, retry := retryDelay(err, attempt, d.opts.Backoff)
		if retry && attempt <= d.opts.MaxRetries {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
				continue
			case <-ctx.Done():
				timer.Stop()
				err = errors.Join(err, ctx.Err())
			}
		}

		d.failed.Add(1)
		logger.Error(ctx, "tg.sender", "send.fail",
			slog.String("status", "fail"),
			slog.String("op", j.action),
			slog.Int("attempts", attempt),
			slog.String("err", Redact(err)),
			slog.Duration("duration", logger.Took(start)),
		)
		return
	}
}

// retryDelay decides whether a failed send is retried and after how long.
func retryDelay(err error, attempt int, backoff time.Duration) (time.Duration, bool) {
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return time.Duration(flood.RetryAfter) * time.Second, true
	}
	if netutil.ShouldRetry(err) {
		return backoff * time.Duration(attempt), true
	}
	return 0, false
}

// Redact renders err with bot tokens masked; telebot includes the API URL in
// transport errors.
func Redact(err error) string {
	if err == nil {
		return ""
	}
	return botToken.ReplaceAllString(err.Error(), "bot<redacted>")
}
