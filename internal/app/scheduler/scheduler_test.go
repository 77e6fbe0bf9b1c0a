package scheduler_test

import (
	"context"
	"errors"
	"searchbot/internal/app/scheduler"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullLogger struct{}

func (nullLogger) Println(v ...any)               {}
func (nullLogger) Printf(format string, v ...any) {}

type recorder struct {
	mu    sync.Mutex
	ticks []scheduler.Job
	fired chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 10)}
}

func (r *recorder) run(ctx context.Context, job scheduler.Job) error {
	r.mu.Lock()
	r.ticks = append(r.ticks, job)
	r.mu.Unlock()

	select {
	case r.fired <- struct{}{}:
	default:
	}

	return nil
}

func (r *recorder) terms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var terms []string
	for _, job := range r.ticks {
		terms = append(terms, job.SearchTerm)
	}

	return terms
}

func newTestScheduler(runner scheduler.Runner) *scheduler.Scheduler {
	s := scheduler.NewScheduler(runner, scheduler.Options{InitialDelay: 20 * time.Millisecond}, nullLogger{})
	s.Start()

	return s
}

func waitTick(t *testing.T, r *recorder) {
	t.Helper()

	select {
	case <-r.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled job did not fire")
	}
}

func TestScheduler_TickRunsJob(t *testing.T) {
	r := newRecorder()
	s := newTestScheduler(r.run)
	defer s.Stop()

	maxPrice := 200.0
	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: time.Hour, SearchTerm: "bike", MaxPrice: &maxPrice}))

	waitTick(t, r)

	require.Equal(t, []string{"bike"}, r.terms())
	assert.Equal(t, 200.0, *r.ticks[0].MaxPrice)
}

func TestScheduler_RepeatsEveryInterval(t *testing.T) {
	r := newRecorder()
	s := newTestScheduler(r.run)
	defer s.Stop()

	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: 30 * time.Millisecond, SearchTerm: "bike"}))

	waitTick(t, r)
	waitTick(t, r)

	assert.GreaterOrEqual(t, len(r.terms()), 2)
}

func TestScheduler_ScheduleTwiceKeepsOneJob(t *testing.T) {
	r := newRecorder()
	s := newTestScheduler(r.run)
	defer s.Stop()

	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: time.Hour, SearchTerm: "lamp"}))
	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: time.Hour, SearchTerm: "bike"}))

	assert.Equal(t, 1, s.Count())

	job, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "bike", job.SearchTerm)

	waitTick(t, r)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, []string{"bike"}, r.terms())
}

func TestScheduler_ChatsAreIndependent(t *testing.T) {
	r := newRecorder()
	s := newTestScheduler(r.run)
	defer s.Stop()

	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: time.Hour, SearchTerm: "lamp"}))
	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 2, Interval: time.Hour, SearchTerm: "bike"}))

	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Cancel(1))
	assert.Equal(t, 1, s.Count())

	_, ok := s.Get(2)
	assert.True(t, ok)
}

func TestScheduler_Cancel(t *testing.T) {
	r := newRecorder()
	s := newTestScheduler(r.run)
	defer s.Stop()

	assert.False(t, s.Cancel(1))

	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: time.Hour, SearchTerm: "bike"}))

	assert.True(t, s.Cancel(1))
	assert.False(t, s.Cancel(1))
	assert.Equal(t, 0, s.Count())

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, r.terms())
}

func TestScheduler_InvalidInterval(t *testing.T) {
	s := newTestScheduler(newRecorder().run)
	defer s.Stop()

	assert.ErrorIs(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: 0, SearchTerm: "bike"}), scheduler.ErrInvalidInterval)
	assert.Equal(t, 0, s.Count())
}

func TestScheduler_FailedTickKeepsJob(t *testing.T) {
	fired := make(chan struct{}, 10)
	s := newTestScheduler(func(ctx context.Context, job scheduler.Job) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return errors.New("fetch retries exhausted")
	})
	defer s.Stop()

	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: 30 * time.Millisecond, SearchTerm: "bike"}))

	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduled job did not fire after failure")
		}
	}

	assert.Equal(t, 1, s.Count())
}

func TestScheduler_PanickingTickKeepsJob(t *testing.T) {
	fired := make(chan struct{}, 10)
	s := newTestScheduler(func(ctx context.Context, job scheduler.Job) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		panic("unexpected markup")
	})
	defer s.Stop()

	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: 30 * time.Millisecond, SearchTerm: "bike"}))

	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduled job did not fire after panic")
		}
	}

	assert.Equal(t, 1, s.Count())
}

func TestScheduler_SlowTickDoesNotBlockOtherChats(t *testing.T) {
	var mu sync.Mutex
	var events []string

	record := func(event string) {
		mu.Lock()
		events = append(events, event)
		mu.Unlock()
	}

	recorded := func() []string {
		mu.Lock()
		defer mu.Unlock()

		return append([]string(nil), events...)
	}

	started := make(chan struct{}, 1)
	fired := make(chan string, 10)
	release := make(chan struct{})
	releaseTick := sync.OnceFunc(func() { close(release) })

	s := newTestScheduler(func(ctx context.Context, job scheduler.Job) error {
		if job.SearchTerm == "lamp" {
			started <- struct{}{}
			// ignores cancellation, like a journal write outliving the tick
			<-release
			record("lamp done")
			return nil
		}

		record(job.SearchTerm)
		fired <- job.SearchTerm

		return nil
	})
	defer s.Stop()
	defer releaseTick()

	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: time.Hour, SearchTerm: "lamp"}))

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled job did not fire")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		_ = s.Schedule(scheduler.Job{ChatId: 1, Interval: time.Hour, SearchTerm: "bike"})
		_ = s.Schedule(scheduler.Job{ChatId: 2, Interval: time.Hour, SearchTerm: "desk"})
		s.Get(2)
		s.Count()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler is blocked by a running tick of another job")
	}

	select {
	case term := <-fired:
		assert.Equal(t, "desk", term)
	case <-time.After(2 * time.Second):
		t.Fatal("job of another chat did not fire")
	}

	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, recorded(), "bike")

	releaseTick()

	select {
	case term := <-fired:
		assert.Equal(t, "bike", term)
	case <-time.After(2 * time.Second):
		t.Fatal("replacing job did not fire")
	}

	assert.Equal(t, []string{"desk", "lamp done", "bike"}, recorded())
}

func TestScheduler_ReplacingTwiceWaitsForFirstTick(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	releaseTick := sync.OnceFunc(func() { close(release) })

	var mu sync.Mutex
	var events []string
	fired := make(chan struct{}, 10)

	s := newTestScheduler(func(ctx context.Context, job scheduler.Job) error {
		if job.SearchTerm == "lamp" {
			started <- struct{}{}
			<-release
		}

		mu.Lock()
		events = append(events, job.SearchTerm)
		mu.Unlock()

		fired <- struct{}{}

		return nil
	})
	defer s.Stop()
	defer releaseTick()

	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: time.Hour, SearchTerm: "lamp"}))

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled job did not fire")
	}

	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: time.Hour, SearchTerm: "desk"}))
	require.NoError(t, s.Schedule(scheduler.Job{ChatId: 1, Interval: time.Hour, SearchTerm: "bike"}))

	time.Sleep(100 * time.Millisecond)
	releaseTick()

	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduled job did not fire")
		}
	}

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []string{"lamp", "bike"}, events)
}
