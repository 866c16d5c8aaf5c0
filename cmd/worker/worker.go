package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/infinito/platform/internal/models"
	"github.com/infinito/platform/internal/tasks"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// SnapshotProvider computes the dashboard metrics
type SnapshotProvider interface {
	// Snapshot returns the current dashboard metrics.
	//
	// A snapshot with Stale set comes from an earlier run because a read failed.
	Snapshot(ctx context.Context) (*models.DashboardSnapshot, error)
}

// Mailer delivers an HTML e-mail
type Mailer interface {
	Send(to []string, subject, body string) error
}

// Worker handles task processing
type Worker struct {
	logger     *zap.Logger
	dashboard  SnapshotProvider
	mailer     Mailer
	recipients []string
}

// NewWorker creates a new worker instance
func NewWorker(logger *zap.Logger, dashboard SnapshotProvider, mailer Mailer, recipients []string) *Worker {
	return &Worker{
		logger:     logger,
		dashboard:  dashboard,
		mailer:     mailer,
		recipients: recipients,
	}
}

// HandleBottleneckDigest computes a dashboard snapshot and e-mails the recipients when it flags a bottleneck.
// A stale snapshot is retried instead of reported.
func (w *Worker) HandleBottleneckDigest(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseDigestPayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if len(w.recipients) == 0 {
		w.logger.Info("No digest recipients configured, skipping digest")
		return nil
	}

	snapshot, err := w.dashboard.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to build dashboard snapshot: %w", err)
	}
	if snapshot.Stale {
		return errors.New("dashboard snapshot is stale")
	}

	if !snapshot.Bottlenecks.Any() {
		w.logger.Info("No bottlenecks, digest not sent", zap.Time("scheduled_at", payload.ScheduledAt))
		return nil
	}

	subject, body := tasks.RenderDigest(snapshot)
	if err := w.mailer.Send(w.recipients, subject, body); err != nil {
		w.logger.Error("Failed to send digest", zap.Error(err))
		return err
	}

	w.logger.Info("Digest sent",
		zap.Time("scheduled_at", payload.ScheduledAt),
		zap.Int("recipients", len(w.recipients)),
		zap.Bool("courses_without_lessons", snapshot.Bottlenecks.CoursesWithoutLessons),
		zap.Bool("unanswered_messages", snapshot.Bottlenecks.UnansweredMessages),
		zap.Bool("no_active_offers", snapshot.Bottlenecks.NoActiveOffers),
	)
	return nil
}

// SMTPMailer sends e-mail using gopkg.in/mail.v2
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer for the given SMTP server
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send sends one message addressed to every recipient
func (m *SMTPMailer) Send(to []string, subject, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := mail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
