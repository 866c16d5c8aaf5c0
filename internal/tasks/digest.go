// Package tasks defines the background jobs shared by the scheduler and the worker
package tasks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/infinito/platform/internal/models"
)

// TypeBottleneckDigest is the asynq task type of the daily bottleneck e-mail
const TypeBottleneckDigest = "digest:bottleneck"

// DigestQueue is the asynq queue digest tasks are enqueued on
const DigestQueue = "default"

// DigestPayload identifies one scheduled run of the digest.
// ScheduledAt is truncated to the hour.
type DigestPayload struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

// NewDigestTask builds the digest task for the hour containing "at".
// Tasks built within the same hour have identical payloads, so asynq.Unique
// rejects all but the first of them.
func NewDigestTask(at time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(DigestPayload{ScheduledAt: at.UTC().Truncate(time.Hour)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal digest payload: %w", err)
	}
	return asynq.NewTask(TypeBottleneckDigest, payload), nil
}

// ParseDigestPayload decodes the payload of a digest task
func ParseDigestPayload(t *asynq.Task) (DigestPayload, error) {
	var p DigestPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid digest payload: %w", err)
	}
	return p, nil
}

// RenderDigest formats the e-mail sent when the dashboard flags a bottleneck
func RenderDigest(s *models.DashboardSnapshot) (subject, body string) {
	var items []string
	if s.Bottlenecks.CoursesWithoutLessons {
		items = append(items, fmt.Sprintf("%d course(s) without lessons", s.CoursesWithoutLessons))
	}
	if s.Bottlenecks.UnansweredMessages {
		items = append(items, fmt.Sprintf("%d unanswered support message(s)", s.UnansweredMessages))
	}
	if s.Bottlenecks.NoActiveOffers {
		items = append(items, "no active sidebar offers")
	}

	subject = fmt.Sprintf("Infinito: %d item(s) need attention", len(items))

	var b strings.Builder
	b.WriteString("<h2>Platform bottlenecks</h2><ul>")
	for _, item := range items {
		b.WriteString("<li>" + item + "</li>")
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Users: %d (growth %.1f%%) &middot; Active courses: %d/%d &middot; Completion: %d%% &middot; Engagement: %d%%</p>",
		s.TotalUsers, s.UserGrowthRate, s.ActiveCourses, s.TotalCourses, s.CompletionRate, s.EngagementRate)
	fmt.Fprintf(&b, "<p>Generated at %s</p>", s.GeneratedAt.UTC().Format(time.RFC3339))
	return subject, b.String()
}
