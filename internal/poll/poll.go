// Package poll waits for something to appear on chain.
//
// A Poller runs two tickers. The request ticker issues the existence query in its own
// goroutine, at most one in flight; the render ticker only reports progress and never
// waits on a query. A failed query counts as "not found yet".
//
//	Idle -> Polling -> Found | Aborted | TimedOut
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/AlexZinkM/devnet-accounts/internal/client"
	"github.com/AlexZinkM/devnet-accounts/internal/common"
)

// State of a Poller
type State int32

const (
	Idle State = iota
	Polling
	Found
	Aborted
	TimedOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Polling:
		return "polling"
	case Found:
		return "found"
	case Aborted:
		return "aborted"
	case TimedOut:
		return "timed out"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

var (
	// ErrAborted is returned when the context is cancelled before the result appears
	ErrAborted = errors.New("wait aborted")
	// ErrTimedOut is returned when MaxWait elapses before the result appears
	ErrTimedOut = errors.New("wait timed out")
)

// Query reports whether the awaited result exists yet
type Query[T any] func(ctx context.Context) (T, bool, error)

// Progress is handed to OnProgress on every render tick and on the final transition
type Progress struct {
	State    State
	Elapsed  time.Duration
	Attempts int
	Estimate string // "mm:ss (slot)" until the next slot, empty without a baseline
	LastErr  error
}

// Options configures a Poller
type Options struct {
	RequestInterval time.Duration
	RenderInterval  time.Duration
	MaxWait         time.Duration // 0 waits until found or cancelled
	SlotDuration    time.Duration

	// Baseline fetches the latest block once on entry, for the slot estimate only
	Baseline   func(ctx context.Context) (*client.Block, error)
	OnProgress func(Progress)
	Logger     *slog.Logger
	Now        func() time.Time
}

// Poller is a single-use confirmation wait
type Poller[T any] struct {
	opts  Options
	state atomic.Int32
}

// New creates a Poller in the Idle state
func New[T any](opts Options) *Poller[T] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Poller[T]{opts: opts}
}

// State returns the current state
func (p *Poller[T]) State() State {
	return State(p.state.Load())
}

func (p *Poller[T]) setState(s State) {
	p.state.Store(int32(s))
}

type outcome[T any] struct {
	value T
	found bool
	err   error
}

// Wait polls query until it reports a result, ctx is cancelled or MaxWait elapses.
func (p *Poller[T]) Wait(ctx context.Context, query Query[T]) (T, error) {
	var zero T
	if p.opts.RequestInterval <= 0 || p.opts.RenderInterval <= 0 {
		return zero, errors.New("poll intervals must be positive")
	}

	start := p.opts.Now()
	p.setState(Polling)

	var baseline *client.Block
	if p.opts.Baseline != nil {
		block, err := p.opts.Baseline(ctx)
		if err != nil {
			p.opts.Logger.Debug("no baseline block, slot estimate disabled", "error", err)
		} else {
			baseline = block
		}
	}

	var deadline <-chan time.Time
	if p.opts.MaxWait > 0 {
		timer := time.NewTimer(p.opts.MaxWait)
		defer timer.Stop()
		deadline = timer.C
	}

	queryCtx, cancelQuery := context.WithCancel(ctx)
	defer cancelQuery()

	results := make(chan outcome[T], 1)
	inFlight := false
	attempts := 0
	var lastErr error

	fire := func() {
		inFlight = true
		attempts++
		go func() {
			v, found, err := query(queryCtx)
			results <- outcome[T]{value: v, found: found, err: err}
		}()
	}

	report := func() {
		if p.opts.OnProgress == nil {
			return
		}
		now := p.opts.Now()
		p.opts.OnProgress(Progress{
			State:    p.State(),
			Elapsed:  now.Sub(start),
			Attempts: attempts,
			Estimate: EstimateNextSlot(baseline, p.opts.SlotDuration, now),
			LastErr:  lastErr,
		})
	}

	requestTicker := time.NewTicker(p.opts.RequestInterval)
	defer requestTicker.Stop()
	renderTicker := time.NewTicker(p.opts.RenderInterval)
	defer renderTicker.Stop()

	fire()
	report()

	for {
		select {
		case <-ctx.Done():
			p.setState(Aborted)
			report()
			return zero, fmt.Errorf("%w: %w", ErrAborted, ctx.Err())

		case <-deadline:
			p.setState(TimedOut)
			report()
			return zero, fmt.Errorf("%w after %s", ErrTimedOut, p.opts.MaxWait)

		case r := <-results:
			inFlight = false
			if r.err != nil {
				lastErr = r.err
				p.opts.Logger.Debug("query failed, retrying", "attempt", attempts, "error", r.err)
				continue
			}
			if r.found {
				p.setState(Found)
				report()
				return r.value, nil
			}

		case <-requestTicker.C:
			if !inFlight {
				fire()
			}

		case <-renderTicker.C:
			report()
		}
	}
}

// EstimateNextSlot renders the time until the next slot after block as "mm:ss (slot)".
// It returns "" without a block or slot duration.
func EstimateNextSlot(block *client.Block, slot time.Duration, now time.Time) string {
	if block == nil || slot <= 0 || block.Time.IsZero() {
		return ""
	}

	elapsed := now.Sub(block.Time)
	if elapsed < 0 {
		elapsed = 0
	}

	offset := uint64(elapsed/slot) + 1
	remaining := (slot - elapsed%slot).Round(time.Second)
	next := block.Slot + offset + 1

	return fmt.Sprintf("%s (%d)", common.FormatCountdown(int64(remaining/time.Second)), next)
}
