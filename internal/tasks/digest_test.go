package tasks

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/infinito/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestTask(t *testing.T) {
	at := time.Date(2024, 12, 2, 8, 0, 0, 0, time.UTC)

	task, err := NewDigestTask(at)
	require.NoError(t, err)
	assert.Equal(t, TypeBottleneckDigest, task.Type())

	p, err := ParseDigestPayload(task)
	require.NoError(t, err)
	assert.True(t, at.Equal(p.ScheduledAt))

	_, err = ParseDigestPayload(asynq.NewTask(TypeBottleneckDigest, []byte("nope")))
	assert.Error(t, err)
}

func TestDigestTask_SameHourSharesPayload(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	tests := []struct {
		name  string
		a, b  time.Time
		equal bool
	}{
		{
			name:  "minutes apart",
			a:     time.Date(2024, 12, 2, 8, 0, 0, 0, time.UTC),
			b:     time.Date(2024, 12, 2, 8, 1, 0, 0, time.UTC),
			equal: true,
		},
		{
			name:  "start and end of the hour",
			a:     time.Date(2024, 12, 2, 8, 0, 5, 0, time.UTC),
			b:     time.Date(2024, 12, 2, 8, 59, 59, 999, time.UTC),
			equal: true,
		},
		{
			name:  "same instant in another zone",
			a:     time.Date(2024, 12, 2, 8, 15, 0, 0, time.UTC),
			b:     time.Date(2024, 12, 2, 5, 45, 0, 0, sp),
			equal: true,
		},
		{
			name: "next hour",
			a:    time.Date(2024, 12, 2, 8, 59, 0, 0, time.UTC),
			b:    time.Date(2024, 12, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := NewDigestTask(tt.a)
			require.NoError(t, err)
			second, err := NewDigestTask(tt.b)
			require.NoError(t, err)

			if tt.equal {
				assert.Equal(t, first.Payload(), second.Payload())
			} else {
				assert.NotEqual(t, first.Payload(), second.Payload())
			}
		})
	}
}

func TestRenderDigest(t *testing.T) {
	tests := []struct {
		name            string
		snapshot        *models.DashboardSnapshot
		expectedSubject string
		contains        []string
		notContains     []string
	}{
		{
			name: "all bottlenecks",
			snapshot: &models.DashboardSnapshot{
				CoursesWithoutLessons: 2,
				UnansweredMessages:    5,
				Bottlenecks:           models.Bottlenecks{CoursesWithoutLessons: true, UnansweredMessages: true, NoActiveOffers: true},
			},
			expectedSubject: "Infinito: 3 item(s) need attention",
			contains:        []string{"2 course(s) without lessons", "5 unanswered support message(s)", "no active sidebar offers"},
		},
		{
			name: "only unanswered messages",
			snapshot: &models.DashboardSnapshot{
				UnansweredMessages: 1,
				ActiveOffers:       2,
				Bottlenecks:        models.Bottlenecks{UnansweredMessages: true},
			},
			expectedSubject: "Infinito: 1 item(s) need attention",
			contains:        []string{"1 unanswered support message(s)"},
			notContains:     []string{"without lessons", "no active sidebar offers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := RenderDigest(tt.snapshot)

			assert.Equal(t, tt.expectedSubject, subject)
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, body, s)
			}
		})
	}
}
