package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// dashboardRepository runs the aggregate counts behind the admin dashboard
type dashboardRepository struct {
	db *sql.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *sql.DB) *dashboardRepository {
	return &dashboardRepository{
		db: db,
	}
}

// scalar runs a single-value aggregate query
func (r *dashboardRepository) scalar(ctx context.Context, name, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", name, err)
	}
	return n, nil
}

// CountUsers returns the number of profiles
func (r *dashboardRepository) CountUsers(ctx context.Context) (int, error) {
	return r.scalar(ctx, "users", `SELECT COUNT(*) FROM profiles`)
}

// CountUsersCreatedBetween returns the number of profiles created in [from, to)
func (r *dashboardRepository) CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.scalar(ctx, "new users",
		`SELECT COUNT(*) FROM profiles WHERE created_at >= ? AND created_at < ?`, from, to)
}

// CountCourses returns the number of courses
func (r *dashboardRepository) CountCourses(ctx context.Context) (int, error) {
	return r.scalar(ctx, "courses", `SELECT COUNT(*) FROM courses`)
}

// CountModules returns the number of modules
func (r *dashboardRepository) CountModules(ctx context.Context) (int, error) {
	return r.scalar(ctx, "modules", `SELECT COUNT(*) FROM modules`)
}

// CountLessons returns the number of lessons
func (r *dashboardRepository) CountLessons(ctx context.Context) (int, error) {
	return r.scalar(ctx, "lessons", `SELECT COUNT(*) FROM lessons`)
}

// CountProgress returns the number of progress rows and how many are completed
func (r *dashboardRepository) CountProgress(ctx context.Context) (total, completed int, err error) {
	query := `SELECT COUNT(*), COALESCE(SUM(completed = TRUE), 0) FROM user_progress`
	if err := r.db.QueryRowContext(ctx, query).Scan(&total, &completed); err != nil {
		return 0, 0, fmt.Errorf("failed to count progress: %w", err)
	}
	return total, completed, nil
}

// CountPosts returns the number of feed posts
func (r *dashboardRepository) CountPosts(ctx context.Context) (int, error) {
	return r.scalar(ctx, "posts", `SELECT COUNT(*) FROM posts`)
}

// CountComments returns the number of feed comments
func (r *dashboardRepository) CountComments(ctx context.Context) (int, error) {
	return r.scalar(ctx, "comments", `SELECT COUNT(*) FROM comments`)
}

// SumLikes returns the total likes across all posts
func (r *dashboardRepository) SumLikes(ctx context.Context) (int, error) {
	return r.scalar(ctx, "likes", `SELECT COALESCE(SUM(likes_count), 0) FROM posts`)
}

// CountActiveOffers returns the number of active sidebar offers
func (r *dashboardRepository) CountActiveOffers(ctx context.Context) (int, error) {
	return r.scalar(ctx, "active offers", `SELECT COUNT(*) FROM course_sidebar_offers WHERE is_active = TRUE`)
}
