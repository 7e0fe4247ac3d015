package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/devnet-accounts/internal/client"
)

func fastOptions() Options {
	return Options{
		RequestInterval: 5 * time.Millisecond,
		RenderInterval:  2 * time.Millisecond,
		SlotDuration:    3 * time.Minute,
	}
}

func TestWaitFound(t *testing.T) {
	var calls atomic.Int32
	p := New[string](fastOptions())
	assert.Equal(t, Idle, p.State())

	got, err := p.Wait(context.Background(), func(ctx context.Context) (string, bool, error) {
		if calls.Add(1) < 3 {
			return "", false, nil
		}
		return "5Jtx", true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "5Jtx", got)
	assert.Equal(t, Found, p.State())
	assert.Equal(t, int32(3), calls.Load())
}

func TestWaitTreatsErrorsAsNotFoundYet(t *testing.T) {
	var calls atomic.Int32
	var lastProgress atomic.Value

	opts := fastOptions()
	opts.OnProgress = func(pr Progress) { lastProgress.Store(pr) }
	p := New[int](opts)

	got, err := p.Wait(context.Background(), func(ctx context.Context) (int, bool, error) {
		if calls.Add(1) <= 2 {
			return 0, false, errors.New("connection refused")
		}
		return 7, true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, got)

	final := lastProgress.Load().(Progress)
	assert.Equal(t, Found, final.State)
	assert.Equal(t, 3, final.Attempts)
	assert.EqualError(t, final.LastErr, "connection refused")
}

func TestWaitTimesOut(t *testing.T) {
	opts := fastOptions()
	opts.MaxWait = 40 * time.Millisecond
	p := New[string](opts)

	_, err := p.Wait(context.Background(), func(ctx context.Context) (string, bool, error) {
		return "", false, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimedOut)
	assert.Equal(t, TimedOut, p.State())
}

func TestWaitAbortsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New[string](fastOptions())

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := p.Wait(ctx, func(ctx context.Context) (string, bool, error) {
		return "", false, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAborted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Aborted, p.State())
}

func TestRenderTicksWhileQueryBlocks(t *testing.T) {
	release := make(chan struct{})
	var renders atomic.Int32
	var calls atomic.Int32

	opts := fastOptions()
	opts.OnProgress = func(Progress) { renders.Add(1) }
	p := New[string](opts)

	go func() {
		time.Sleep(60 * time.Millisecond)
		close(release)
	}()

	got, err := p.Wait(context.Background(), func(ctx context.Context) (string, bool, error) {
		calls.Add(1)
		<-release
		return "done", true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", got)
	// one query in flight at a time, so no extra request was fired while blocked
	assert.Equal(t, int32(1), calls.Load())
	assert.GreaterOrEqual(t, renders.Load(), int32(5))
}

func TestWaitFetchesBaselineOnce(t *testing.T) {
	var baselines atomic.Int32
	var estimate atomic.Value

	opts := fastOptions()
	opts.Baseline = func(ctx context.Context) (*client.Block, error) {
		baselines.Add(1)
		return &client.Block{Slot: 4000, Time: time.Now().Add(-time.Minute)}, nil
	}
	opts.OnProgress = func(pr Progress) { estimate.Store(pr.Estimate) }

	var calls atomic.Int32
	p := New[bool](opts)
	_, err := p.Wait(context.Background(), func(ctx context.Context) (bool, bool, error) {
		return true, calls.Add(1) >= 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), baselines.Load())
	assert.Contains(t, estimate.Load().(string), "(4002)")
}

func TestWaitWithoutBaseline(t *testing.T) {
	opts := fastOptions()
	opts.Baseline = func(ctx context.Context) (*client.Block, error) {
		return nil, errors.New("down")
	}
	var estimate atomic.Value
	opts.OnProgress = func(pr Progress) { estimate.Store(pr.Estimate) }

	_, err := New[bool](opts).Wait(context.Background(), func(ctx context.Context) (bool, bool, error) {
		return true, true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "", estimate.Load().(string))
}

func TestWaitRejectsZeroIntervals(t *testing.T) {
	_, err := New[bool](Options{}).Wait(context.Background(), func(ctx context.Context) (bool, bool, error) {
		return true, true, nil
	})
	assert.Error(t, err)
}

func TestEstimateNextSlot(t *testing.T) {
	base := time.Date(2023, 11, 14, 22, 0, 0, 0, time.UTC)
	block := &client.Block{Slot: 100, Time: base}
	slot := 3 * time.Minute

	cases := []struct {
		now  time.Time
		want string
	}{
		{base, "03:00 (102)"},
		{base.Add(30 * time.Second), "02:30 (102)"},
		{base.Add(4 * time.Minute), "02:00 (103)"},
		{base.Add(-time.Minute), "03:00 (102)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, EstimateNextSlot(block, slot, c.now))
	}

	assert.Equal(t, "", EstimateNextSlot(nil, slot, base))
	assert.Equal(t, "", EstimateNextSlot(block, 0, base))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "timed out", TimedOut.String())
	assert.Equal(t, "found", Found.String())
}
