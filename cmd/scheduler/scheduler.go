package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/infinito/platform/internal/tasks"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	digestMaxRetry  = 3
	digestUniqueTTL = time.Hour
)

// Enqueuer is the part of the asynq client the scheduler uses
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler enqueues the bottleneck digest on a cron schedule
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	location *time.Location
	enqueuer Enqueuer
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler parses a standard five-field cron expression evaluated in loc
func NewScheduler(spec string, loc *time.Location, enqueuer Enqueuer, logger *zap.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		location: loc,
		enqueuer: enqueuer,
		logger:   logger,
		now:      time.Now,
	}
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.enqueueDigest(context.Background())
	}))
	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Time("next_run", s.schedule.Next(s.now().In(s.location))))
}

// Stop stops the scheduler and waits for a running job
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// enqueueDigest pushes the digest task for the current hour.
// A second run within the same hour is rejected by asynq as a duplicate.
func (s *Scheduler) enqueueDigest(ctx context.Context) {
	task, err := tasks.NewDigestTask(s.now())
	if err != nil {
		s.logger.Error("Failed to create digest task", zap.Error(err))
		return
	}

	info, err := s.enqueuer.EnqueueContext(ctx, task,
		asynq.Queue(tasks.DigestQueue),
		asynq.MaxRetry(digestMaxRetry),
		asynq.Unique(digestUniqueTTL),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		s.logger.Info("Digest already enqueued for this hour")
		return
	}
	if err != nil {
		s.logger.Error("Failed to enqueue digest task", zap.Error(err))
		return
	}

	s.logger.Info("Enqueued digest task", zap.String("task_id", info.ID), zap.String("queue", info.Queue))
}
