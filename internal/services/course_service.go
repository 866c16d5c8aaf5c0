package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// CourseRepository is the interface that wraps access to the course hierarchy and user progress
type CourseRepository interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, req *models.CourseRequest) (int, error)
	UpdateCourse(ctx context.Context, id int, req *models.CourseRequest) error
	DeleteCourse(ctx context.Context, id int) error

	ListModules(ctx context.Context, courseID int) ([]models.Module, error)
	CreateModule(ctx context.Context, req *models.ModuleRequest) (int, error)
	UpdateModule(ctx context.Context, id int, req *models.ModuleRequest) error
	DeleteModule(ctx context.Context, id int) error

	ListLessons(ctx context.Context, moduleID int) ([]models.Lesson, error)
	CreateLesson(ctx context.Context, req *models.LessonRequest) (int, error)
	UpdateLesson(ctx context.Context, id int, req *models.LessonRequest) error
	DeleteLesson(ctx context.Context, id int) error

	// Method StudentTree retrieve the active courses with their modules and lessons,
	// annotated with the completion state of "userID".
	//
	// Courses without any lesson are not returned.
	StudentTree(ctx context.Context, userID int) ([]models.CourseTree, error)
	// Method UpsertProgress record the completion state of a lesson for a user.
	//
	// There is at most one progress row per (user, lesson) pair; repeated calls replace it.
	UpsertProgress(ctx context.Context, userID, lessonID int, completed bool, watchedAt time.Time) error
}

type courseService struct {
	repo   CourseRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewCourseService creates a new course service
func NewCourseService(repo CourseRepository, logger *zap.Logger) *courseService {
	return &courseService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// ListCourses returns every course for the admin screen
func (s *courseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		s.logger.Error("failed to list courses", zap.Error(err))
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// CreateCourse creates a course and returns its ID
func (s *courseService) CreateCourse(ctx context.Context, req *models.CourseRequest) (int, error) {
	id, err := s.repo.CreateCourse(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to create course: %w", err)
	}
	return id, nil
}

// UpdateCourse replaces a course
func (s *courseService) UpdateCourse(ctx context.Context, id int, req *models.CourseRequest) error {
	if err := s.repo.UpdateCourse(ctx, id, req); err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

// DeleteCourse removes a course with its modules and lessons once confirmed
func (s *courseService) DeleteCourse(ctx context.Context, id int, confirm bool) error {
	if !confirm {
		return models.ErrConfirmationRequired
	}
	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	s.logger.Info("course deleted", zap.Int("course_id", id))
	return nil
}

// ListModules returns the modules of a course
func (s *courseService) ListModules(ctx context.Context, courseID int) ([]models.Module, error) {
	modules, err := s.repo.ListModules(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	return modules, nil
}

// CreateModule creates a module and returns its ID
func (s *courseService) CreateModule(ctx context.Context, req *models.ModuleRequest) (int, error) {
	id, err := s.repo.CreateModule(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to create module: %w", err)
	}
	return id, nil
}

// UpdateModule replaces a module
func (s *courseService) UpdateModule(ctx context.Context, id int, req *models.ModuleRequest) error {
	if err := s.repo.UpdateModule(ctx, id, req); err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}
	return nil
}

// DeleteModule removes a module with its lessons once confirmed
func (s *courseService) DeleteModule(ctx context.Context, id int, confirm bool) error {
	if !confirm {
		return models.ErrConfirmationRequired
	}
	if err := s.repo.DeleteModule(ctx, id); err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}
	s.logger.Info("module deleted", zap.Int("module_id", id))
	return nil
}

// ListLessons returns the lessons of a module
func (s *courseService) ListLessons(ctx context.Context, moduleID int) ([]models.Lesson, error) {
	lessons, err := s.repo.ListLessons(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

// CreateLesson creates a lesson and returns its ID
func (s *courseService) CreateLesson(ctx context.Context, req *models.LessonRequest) (int, error) {
	id, err := s.repo.CreateLesson(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to create lesson: %w", err)
	}
	return id, nil
}

// UpdateLesson replaces a lesson
func (s *courseService) UpdateLesson(ctx context.Context, id int, req *models.LessonRequest) error {
	if err := s.repo.UpdateLesson(ctx, id, req); err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	return nil
}

// DeleteLesson removes a lesson once confirmed
func (s *courseService) DeleteLesson(ctx context.Context, id int, confirm bool) error {
	if !confirm {
		return models.ErrConfirmationRequired
	}
	if err := s.repo.DeleteLesson(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	s.logger.Info("lesson deleted", zap.Int("lesson_id", id))
	return nil
}

// StudentCourses returns the active courses with the user's progress on each lesson
func (s *courseService) StudentCourses(ctx context.Context, userID int) ([]models.CourseTree, error) {
	trees, err := s.repo.StudentTree(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get course tree", zap.Int("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	if trees == nil {
		return []models.CourseTree{}, nil
	}
	for i := range trees {
		annotateProgress(&trees[i])
	}
	return trees, nil
}

// RecordProgress marks a lesson as watched and stores its completion state
func (s *courseService) RecordProgress(ctx context.Context, userID, lessonID int, completed bool) error {
	if err := s.repo.UpsertProgress(ctx, userID, lessonID, completed, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	return nil
}

// annotateProgress fills the lesson totals and the rounded completion percentage of a course
func annotateProgress(tree *models.CourseTree) {
	total, completed := 0, 0
	for _, m := range tree.Modules {
		for _, l := range m.Lessons {
			total++
			if l.Completed {
				completed++
			}
		}
	}
	tree.TotalLessons = total
	tree.CompletedLessons = completed
	tree.ProgressPercent = percent(completed, total)
}

// percent returns part/total*100 rounded to the nearest integer, or 0 when total is 0
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
