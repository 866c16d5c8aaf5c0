package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardRepository is the interface that wraps the aggregate counts behind the dashboard
type DashboardRepository interface {
	CountUsers(ctx context.Context) (int, error)
	// Method CountUsersCreatedBetween count profiles created in the half-open range ["from", "to").
	CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	CountCourses(ctx context.Context) (int, error)
	CountModules(ctx context.Context) (int, error)
	CountLessons(ctx context.Context) (int, error)
	// Method CountProgress count progress rows and how many of them are completed.
	CountProgress(ctx context.Context) (total, completed int, err error)
	CountPosts(ctx context.Context) (int, error)
	CountComments(ctx context.Context) (int, error)
	SumLikes(ctx context.Context) (int, error)
	CountActiveOffers(ctx context.Context) (int, error)
}

// HierarchyReader returns the flat course/module/lesson-count projection
type HierarchyReader interface {
	Hierarchy(ctx context.Context) ([]models.CourseModuleLessonCount, error)
}

// SupportCounter counts support messages by sender
type SupportCounter interface {
	CountBySender(ctx context.Context) (*models.SupportStats, error)
}

type dashboardService struct {
	repo     DashboardRepository
	courses  HierarchyReader
	support  SupportCounter
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time

	mu   sync.RWMutex
	last *models.DashboardSnapshot
}

// NewDashboardService creates a new dashboard service. Calendar months are taken in location.
func NewDashboardService(repo DashboardRepository, courses HierarchyReader, support SupportCounter, location *time.Location, logger *zap.Logger) *dashboardService {
	if location == nil {
		location = time.UTC
	}
	return &dashboardService{
		repo:     repo,
		courses:  courses,
		support:  support,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// Snapshot reads every count concurrently and derives the dashboard metrics.
//
// If any read fails the whole snapshot is discarded: the last good snapshot is returned
// marked as stale, or the error when no snapshot was ever built.
func (s *dashboardService) Snapshot(ctx context.Context) (*models.DashboardSnapshot, error) {
	now := s.now()

	counts, err := s.collect(ctx, now)
	if err != nil {
		s.logger.Error("failed to build dashboard snapshot", zap.Error(err))

		s.mu.RLock()
		last := s.last
		s.mu.RUnlock()
		if last == nil {
			return nil, fmt.Errorf("failed to build dashboard: %w", err)
		}
		stale := *last
		stale.Stale = true
		return &stale, nil
	}

	snap := BuildSnapshot(counts, now)

	s.mu.Lock()
	s.last = &snap
	s.mu.Unlock()

	return &snap, nil
}

// collect fans the reads out and waits for all of them. Each goroutine writes its own fields.
func (s *dashboardService) collect(ctx context.Context, now time.Time) (models.DashboardCounts, error) {
	var c models.DashboardCounts

	local := now.In(s.location)
	thisMonth := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, s.location)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	nextMonth := thisMonth.AddDate(0, 1, 0)

	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&c.TotalUsers, s.repo.CountUsers)
	count(&c.NewUsersThisMonth, func(ctx context.Context) (int, error) {
		return s.repo.CountUsersCreatedBetween(ctx, thisMonth, nextMonth)
	})
	count(&c.NewUsersLastMonth, func(ctx context.Context) (int, error) {
		return s.repo.CountUsersCreatedBetween(ctx, lastMonth, thisMonth)
	})
	count(&c.TotalCourses, s.repo.CountCourses)
	count(&c.TotalModules, s.repo.CountModules)
	count(&c.TotalLessons, s.repo.CountLessons)
	count(&c.TotalPosts, s.repo.CountPosts)
	count(&c.TotalComments, s.repo.CountComments)
	count(&c.TotalLikes, s.repo.SumLikes)
	count(&c.ActiveOffers, s.repo.CountActiveOffers)

	g.Go(func() error {
		total, completed, err := s.repo.CountProgress(ctx)
		if err != nil {
			return err
		}
		c.TotalProgress, c.CompletedProgress = total, completed
		return nil
	})
	g.Go(func() error {
		h, err := s.courses.Hierarchy(ctx)
		if err != nil {
			return err
		}
		c.Hierarchy = h
		return nil
	})
	g.Go(func() error {
		stats, err := s.support.CountBySender(ctx)
		if err != nil {
			return err
		}
		c.StudentMessages, c.AdminMessages, c.BotMessages = stats.Users, stats.Admin, stats.Bot
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.DashboardCounts{}, err
	}
	return c, nil
}

// BuildSnapshot derives the dashboard metrics from raw counts
func BuildSnapshot(c models.DashboardCounts, now time.Time) models.DashboardSnapshot {
	active := ActiveCourses(c.Hierarchy)
	withoutLessons := c.TotalCourses - active
	if withoutLessons < 0 {
		withoutLessons = 0
	}
	unanswered := UnansweredMessages(c.StudentMessages, c.AdminMessages)

	return models.DashboardSnapshot{
		TotalUsers:            c.TotalUsers,
		NewUsersThisMonth:     c.NewUsersThisMonth,
		NewUsersLastMonth:     c.NewUsersLastMonth,
		UserGrowthRate:        GrowthRate(c.NewUsersThisMonth, c.NewUsersLastMonth),
		TotalCourses:          c.TotalCourses,
		ActiveCourses:         active,
		CoursesWithoutLessons: withoutLessons,
		TotalModules:          c.TotalModules,
		TotalLessons:          c.TotalLessons,
		CompletionRate:        percent(c.CompletedProgress, c.TotalProgress),
		TotalSupportMessages:  c.StudentMessages + c.AdminMessages + c.BotMessages,
		UnansweredMessages:    unanswered,
		TotalPosts:            c.TotalPosts,
		TotalComments:         c.TotalComments,
		TotalLikes:            c.TotalLikes,
		EngagementRate:        EngagementRate(c.TotalLikes, c.TotalComments, c.TotalPosts),
		ActiveOffers:          c.ActiveOffers,
		Bottlenecks: models.Bottlenecks{
			CoursesWithoutLessons: withoutLessons > 0,
			UnansweredMessages:    unanswered > 0,
			NoActiveOffers:        c.ActiveOffers == 0,
		},
		GeneratedAt: now.UTC(),
	}
}

// GrowthRate returns the month-over-month change in percent, rounded to one decimal.
// It is 100 when last month had no new users and this month has some, and 0 when both are zero.
func GrowthRate(thisMonth, lastMonth int) float64 {
	if lastMonth == 0 {
		if thisMonth > 0 {
			return 100
		}
		return 0
	}
	rate := float64(thisMonth-lastMonth) / float64(lastMonth) * 100
	return math.Round(rate*10) / 10
}

// ActiveCourses counts courses that have at least one module with at least one lesson
func ActiveCourses(hierarchy []models.CourseModuleLessonCount) int {
	active := make(map[int]struct{})
	for _, row := range hierarchy {
		if row.ModuleID != nil && row.LessonCount > 0 {
			active[row.CourseID] = struct{}{}
		}
	}
	return len(active)
}

// UnansweredMessages approximates the backlog as student messages minus admin messages, floored at zero
func UnansweredMessages(student, admin int) int {
	if student <= admin {
		return 0
	}
	return student - admin
}

// EngagementRate returns the rounded average of likes plus comments per post, or 0 without posts
func EngagementRate(likes, comments, posts int) int {
	if posts == 0 {
		return 0
	}
	return int(math.Round(float64(likes+comments) / float64(posts)))
}
