package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/infinito/platform/internal/models"
)

// courseRepository implements access to courses, modules and lessons
type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// ListCourses returns every course, newest first
func (r *courseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	query := `
		SELECT id, title, description, cover_url, created_at
		FROM courses
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CoverURL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return courses, nil
}

// CreateCourse inserts a course and returns its ID
func (r *courseRepository) CreateCourse(ctx context.Context, req *models.CourseRequest) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (title, description, cover_url) VALUES (?, ?, ?)`,
		req.Title, req.Description, req.CoverURL,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create course: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return int(id), nil
}

// UpdateCourse replaces the editable fields of a course
func (r *courseRepository) UpdateCourse(ctx context.Context, id int, req *models.CourseRequest) error {
	return r.execUpdate(ctx, "course",
		`UPDATE courses SET title = ?, description = ?, cover_url = ? WHERE id = ?`,
		req.Title, req.Description, req.CoverURL, id,
	)
}

// DeleteCourse removes a course with its modules and lessons. Deleting a missing course is a no-op.
func (r *courseRepository) DeleteCourse(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

// ListModules returns the modules of a course in display order
func (r *courseRepository) ListModules(ctx context.Context, courseID int) ([]models.Module, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, course_id, title, order_index FROM modules WHERE course_id = ? ORDER BY order_index, id`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	modules := []models.Module{}
	for rows.Next() {
		var m models.Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return modules, nil
}

// CreateModule inserts a module and returns its ID
func (r *courseRepository) CreateModule(ctx context.Context, req *models.ModuleRequest) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO modules (course_id, title, order_index) VALUES (?, ?, ?)`,
		req.CourseID, req.Title, req.OrderIndex,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("course %w", models.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to create module: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return int(id), nil
}

// UpdateModule replaces the editable fields of a module
func (r *courseRepository) UpdateModule(ctx context.Context, id int, req *models.ModuleRequest) error {
	return r.execUpdate(ctx, "module",
		`UPDATE modules SET course_id = ?, title = ?, order_index = ? WHERE id = ?`,
		req.CourseID, req.Title, req.OrderIndex, id,
	)
}

// DeleteModule removes a module with its lessons. Deleting a missing module is a no-op.
func (r *courseRepository) DeleteModule(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}
	return nil
}

// ListLessons returns the lessons of a module in display order
func (r *courseRepository) ListLessons(ctx context.Context, moduleID int) ([]models.Lesson, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, module_id, title, description, video_url, order_index FROM lessons WHERE module_id = ? ORDER BY order_index, id`,
		moduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Description, &l.VideoURL, &l.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return lessons, nil
}

// CreateLesson inserts a lesson and returns its ID
func (r *courseRepository) CreateLesson(ctx context.Context, req *models.LessonRequest) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO lessons (module_id, title, description, video_url, order_index) VALUES (?, ?, ?, ?, ?)`,
		req.ModuleID, req.Title, req.Description, req.VideoURL, req.OrderIndex,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("module %w", models.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to create lesson: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return int(id), nil
}

// UpdateLesson replaces the editable fields of a lesson
func (r *courseRepository) UpdateLesson(ctx context.Context, id int, req *models.LessonRequest) error {
	return r.execUpdate(ctx, "lesson",
		`UPDATE lessons SET module_id = ?, title = ?, description = ?, video_url = ?, order_index = ? WHERE id = ?`,
		req.ModuleID, req.Title, req.Description, req.VideoURL, req.OrderIndex, id,
	)
}

// DeleteLesson removes a lesson. Deleting a missing lesson is a no-op.
func (r *courseRepository) DeleteLesson(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	return nil
}

// Hierarchy returns one row per (course, module) with the module's lesson count.
// Courses without modules appear once with a nil ModuleID.
func (r *courseRepository) Hierarchy(ctx context.Context) ([]models.CourseModuleLessonCount, error) {
	query := `
		SELECT c.id, m.id, COUNT(l.id)
		FROM courses c
		LEFT JOIN modules m ON m.course_id = c.id
		LEFT JOIN lessons l ON l.module_id = m.id
		GROUP BY c.id, m.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query course hierarchy: %w", err)
	}
	defer rows.Close()

	var out []models.CourseModuleLessonCount
	for rows.Next() {
		var item models.CourseModuleLessonCount
		var moduleID sql.NullInt64
		if err := rows.Scan(&item.CourseID, &moduleID, &item.LessonCount); err != nil {
			return nil, fmt.Errorf("failed to scan course hierarchy: %w", err)
		}
		if moduleID.Valid {
			id := int(moduleID.Int64)
			item.ModuleID = &id
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// StudentTree returns the active courses with modules, lessons and the user's progress.
// Inner joins drop modules without lessons, so courses without lessons never appear.
func (r *courseRepository) StudentTree(ctx context.Context, userID int) ([]models.CourseTree, error) {
	query := `
		SELECT
			c.id, c.title, c.description, c.cover_url, c.created_at,
			m.id, m.title, m.order_index,
			l.id, l.title, l.description, l.video_url, l.order_index,
			COALESCE(up.completed, FALSE), up.last_watched_at
		FROM courses c
		JOIN modules m ON m.course_id = c.id
		JOIN lessons l ON l.module_id = m.id
		LEFT JOIN user_progress up ON up.lesson_id = l.id AND up.user_id = ?
		ORDER BY c.created_at DESC, c.id DESC, m.order_index, m.id, l.order_index, l.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course tree: %w", err)
	}
	defer rows.Close()

	var trees []models.CourseTree
	for rows.Next() {
		var c models.Course
		var m models.Module
		var l models.LessonWithProgress
		var watched sql.NullTime
		err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.CoverURL, &c.CreatedAt,
			&m.ID, &m.Title, &m.OrderIndex,
			&l.ID, &l.Title, &l.Description, &l.VideoURL, &l.OrderIndex,
			&l.Completed, &watched,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course tree: %w", err)
		}
		m.CourseID = c.ID
		l.ModuleID = m.ID
		if watched.Valid {
			t := watched.Time
			l.LastWatchedAt = &t
		}

		if len(trees) == 0 || trees[len(trees)-1].ID != c.ID {
			trees = append(trees, models.CourseTree{Course: c})
		}
		tree := &trees[len(trees)-1]
		if len(tree.Modules) == 0 || tree.Modules[len(tree.Modules)-1].ID != m.ID {
			tree.Modules = append(tree.Modules, models.ModuleTree{Module: m})
		}
		mod := &tree.Modules[len(tree.Modules)-1]
		mod.Lessons = append(mod.Lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return trees, nil
}

// UpsertProgress records the user's state on a lesson and refreshes last_watched_at.
// The unique (user_id, lesson_id) key keeps one row per pair.
func (r *courseRepository) UpsertProgress(ctx context.Context, userID, lessonID int, completed bool, watchedAt time.Time) error {
	query := `
		INSERT INTO user_progress (user_id, lesson_id, completed, last_watched_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE completed = VALUES(completed), last_watched_at = VALUES(last_watched_at)
	`

	if _, err := r.db.ExecContext(ctx, query, userID, lessonID, completed, watchedAt); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("lesson %w", models.ErrNotFound)
		}
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

// execUpdate runs an UPDATE and maps zero matched rows to a not found error for entity
func (r *courseRepository) execUpdate(ctx context.Context, entity, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("parent of %s %w", entity, models.ErrNotFound)
		}
		return fmt.Errorf("failed to update %s: %w", entity, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT 1 FROM %ss WHERE id = ?`, entity), args[len(args)-1]).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%s %w", entity, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", entity, err)
		}
	}
	return nil
}
