package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/infinito/platform/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockEnqueuer records enqueued tasks
type mockEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	// uniqueness is keyed on queue, type and payload
	for _, queued := range m.tasks {
		if queued.Type() == task.Type() && bytes.Equal(queued.Payload(), task.Payload()) {
			return nil, asynq.ErrDuplicateTask
		}
	}
	m.tasks = append(m.tasks, task)
	m.opts = append(m.opts, opts)
	return &asynq.TaskInfo{ID: "task-1", Queue: tasks.DigestQueue}, nil
}

func TestNewScheduler(t *testing.T) {
	tests := []struct {
		name          string
		spec          string
		expectedError bool
	}{
		{name: "daily at eight", spec: "0 8 * * *"},
		{name: "descriptor", spec: "@hourly"},
		{name: "six fields rejected", spec: "0 0 8 * * *", expectedError: true},
		{name: "garbage", spec: "every morning", expectedError: true},
		{name: "empty", spec: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler(tt.spec, time.UTC, &mockEnqueuer{}, zap.NewNop())

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, s)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, s)
			}
		})
	}
}

func TestScheduler_NextRunUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	s, err := NewScheduler("0 8 * * *", loc, &mockEnqueuer{}, zap.NewNop())
	require.NoError(t, err)

	from := time.Date(2024, 12, 2, 12, 0, 0, 0, time.UTC) // 09:00 in Sao Paulo
	next := s.schedule.Next(from.In(loc))

	assert.Equal(t, 8, next.In(loc).Hour())
	assert.Equal(t, 3, next.In(loc).Day())
}

func TestScheduler_EnqueueDigest(t *testing.T) {
	fixed := time.Date(2024, 12, 2, 8, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		enqueuer := &mockEnqueuer{}
		s, err := NewScheduler("0 8 * * *", time.UTC, enqueuer, zap.NewNop())
		require.NoError(t, err)
		s.now = func() time.Time { return fixed }

		s.enqueueDigest(context.Background())

		require.Len(t, enqueuer.tasks, 1)
		assert.Equal(t, tasks.TypeBottleneckDigest, enqueuer.tasks[0].Type())
		assert.Len(t, enqueuer.opts[0], 3)

		payload, err := tasks.ParseDigestPayload(enqueuer.tasks[0])
		require.NoError(t, err)
		assert.True(t, fixed.Equal(payload.ScheduledAt))
	})

	t.Run("enqueue error is logged", func(t *testing.T) {
		enqueuer := &mockEnqueuer{err: errors.New("redis down")}
		s, err := NewScheduler("0 8 * * *", time.UTC, enqueuer, zap.NewNop())
		require.NoError(t, err)

		assert.NotPanics(t, func() { s.enqueueDigest(context.Background()) })
		assert.Empty(t, enqueuer.tasks)
	})
}

func TestScheduler_EnqueueDigestOncePerHour(t *testing.T) {
	enqueuer := &mockEnqueuer{}
	s, err := NewScheduler("0 8 * * *", time.UTC, enqueuer, zap.NewNop())
	require.NoError(t, err)

	runs := []time.Time{
		time.Date(2024, 12, 2, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 2, 8, 1, 0, 0, time.UTC),
		time.Date(2024, 12, 2, 8, 59, 30, 0, time.UTC),
	}
	for _, at := range runs {
		s.now = func() time.Time { return at }
		s.enqueueDigest(context.Background())
	}

	require.Len(t, enqueuer.tasks, 1)
	payload, err := tasks.ParseDigestPayload(enqueuer.tasks[0])
	require.NoError(t, err)
	assert.True(t, runs[0].Equal(payload.ScheduledAt))

	s.now = func() time.Time { return time.Date(2024, 12, 2, 9, 0, 0, 0, time.UTC) }
	s.enqueueDigest(context.Background())
	assert.Len(t, enqueuer.tasks, 2)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler("0 8 * * *", nil, &mockEnqueuer{}, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	s.Stop()
}
