// Package scheduler keeps at most one recurring search job per chat on top of robfig/cron.
package scheduler

import (
	"context"
	"errors"
	"searchbot/internal/app/logger"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrInvalidInterval = errors.New("schedule interval must be positive")

const DefaultInitialDelay = 10 * time.Second

// Job is a recurring search payload.
type Job struct {
	ChatId     int
	Interval   time.Duration
	SearchTerm string
	MaxPrice   *float64
}

// Runner executes a single tick of the job.
type Runner func(ctx context.Context, job Job) error

type Options struct {
	InitialDelay time.Duration
	Location     *time.Location
}

type scheduledJob struct {
	entryId cron.EntryID
	job     Job
	ctx     context.Context
	cancel  context.CancelFunc
	// held for the whole tick, so a replaced job is never running alongside its successor
	mu sync.Mutex
	// replaced job, its tick has to finish before this job ticks
	previous *scheduledJob
}

type Scheduler struct {
	cron         *cron.Cron
	runner       Runner
	logger       logger.LoggerInterface
	initialDelay time.Duration
	locker       sync.Mutex
	jobs         map[int]*scheduledJob
}

func NewScheduler(runner Runner, options Options, logger logger.LoggerInterface) *Scheduler {
	cronOptions := []cron.Option{
		cron.WithLogger(cron.PrintfLogger(logger)),
	}

	if options.Location != nil {
		cronOptions = append(cronOptions, cron.WithLocation(options.Location))
	}

	if options.InitialDelay < 0 {
		options.InitialDelay = DefaultInitialDelay
	}

	return &Scheduler{
		cron:         cron.New(cronOptions...),
		runner:       runner,
		logger:       logger,
		initialDelay: options.InitialDelay,
		jobs:         make(map[int]*scheduledJob),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop scheduler, cancel all jobs and wait for running ticks.
func (s *Scheduler) Stop() {
	s.locker.Lock()
	for chatId, job := range s.jobs {
		job.cancel()
		delete(s.jobs, chatId)
	}
	s.locker.Unlock()

	<-s.cron.Stop().Done()
}

// Schedule recurring job for the chat, replacing the previous one.
func (s *Scheduler) Schedule(job Job) error {
	if job.Interval <= 0 {
		return ErrInvalidInterval
	}

	s.locker.Lock()
	defer s.locker.Unlock()

	previous := s.detachLocked(job.ChatId)
	if previous != nil {
		s.logger.Println("Replacing scheduled job for chat", job.ChatId)
	}

	ctx, cancel := context.WithCancel(context.Background())

	scheduled := &scheduledJob{
		job:      job,
		ctx:      ctx,
		cancel:   cancel,
		previous: previous,
	}

	wrapped := cron.NewChain(
		cron.Recover(cron.PrintfLogger(s.logger)),
		cron.SkipIfStillRunning(cron.PrintfLogger(s.logger)),
	).Then(cron.FuncJob(func() {
		s.tick(scheduled)
	}))

	scheduled.entryId = s.cron.Schedule(newDelayedSchedule(time.Now().Add(s.initialDelay), job.Interval), wrapped)
	s.jobs[job.ChatId] = scheduled

	s.logger.Println("Scheduled job for chat", job.ChatId, "every", job.Interval, "-", job.SearchTerm)

	return nil
}

// Cancel chat's job and wait for its running tick. Returns false if there was no job.
func (s *Scheduler) Cancel(chatId int) bool {
	s.locker.Lock()
	scheduled := s.detachLocked(chatId)
	s.locker.Unlock()

	if scheduled == nil {
		return false
	}

	scheduled.wait()

	s.logger.Println("Cancelled scheduled job for chat", chatId)

	return true
}

// Get chat's job payload.
func (s *Scheduler) Get(chatId int) (Job, bool) {
	s.locker.Lock()
	defer s.locker.Unlock()

	scheduled, ok := s.jobs[chatId]
	if !ok {
		return Job{}, false
	}

	return scheduled.job, true
}

// Get count of active jobs.
func (s *Scheduler) Count() int {
	s.locker.Lock()
	defer s.locker.Unlock()

	return len(s.jobs)
}

// Remove chat's job from cron and cancel it. Its running tick may still be finishing.
func (s *Scheduler) detachLocked(chatId int) *scheduledJob {
	scheduled, ok := s.jobs[chatId]
	if !ok {
		return nil
	}

	s.cron.Remove(scheduled.entryId)
	scheduled.cancel()
	delete(s.jobs, chatId)

	return scheduled
}

// Wait for the running tick of the job and of the jobs it replaced.
func (j *scheduledJob) wait() {
	j.mu.Lock()
	previous := j.previous
	j.mu.Unlock()

	if previous != nil {
		previous.wait()
	}
}

func (s *Scheduler) tick(scheduled *scheduledJob) {
	scheduled.mu.Lock()
	defer scheduled.mu.Unlock()

	if scheduled.previous != nil {
		scheduled.previous.wait()
		scheduled.previous = nil
	}

	if scheduled.ctx.Err() != nil {
		return
	}

	job := scheduled.job
	start := time.Now()

	s.logger.Println("Running scheduled search for chat", job.ChatId, "-", job.SearchTerm)

	if err := s.runner(scheduled.ctx, job); err != nil {
		s.logger.Println(logger.PrefixError, "Scheduled search failed for chat", job.ChatId, "-", err)
		return
	}

	s.logger.Println("Scheduled search complete for chat", job.ChatId, "in", time.Since(start).Round(time.Millisecond))
}

// delayedSchedule fires once at first, then every interval after the previous run.
type delayedSchedule struct {
	first    time.Time
	interval time.Duration
}

func newDelayedSchedule(first time.Time, interval time.Duration) delayedSchedule {
	return delayedSchedule{
		first:    first,
		interval: interval,
	}
}

func (s delayedSchedule) Next(t time.Time) time.Time {
	if t.Before(s.first) {
		return s.first
	}

	return t.Add(s.interval)
}
