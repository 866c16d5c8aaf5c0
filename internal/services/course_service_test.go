package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/infinito/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockCourseRepository is a mock implementation of CourseRepository
type mockCourseRepository struct {
	courses  []models.Course
	trees    []models.CourseTree
	err      error
	deleted  []int
	progress []models.UserProgress
}

func (m *mockCourseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	return m.courses, m.err
}

func (m *mockCourseRepository) CreateCourse(ctx context.Context, req *models.CourseRequest) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return 1, nil
}

func (m *mockCourseRepository) UpdateCourse(ctx context.Context, id int, req *models.CourseRequest) error {
	return m.err
}

func (m *mockCourseRepository) DeleteCourse(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCourseRepository) ListModules(ctx context.Context, courseID int) ([]models.Module, error) {
	return nil, m.err
}

func (m *mockCourseRepository) CreateModule(ctx context.Context, req *models.ModuleRequest) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return 2, nil
}

func (m *mockCourseRepository) UpdateModule(ctx context.Context, id int, req *models.ModuleRequest) error {
	return m.err
}

func (m *mockCourseRepository) DeleteModule(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCourseRepository) ListLessons(ctx context.Context, moduleID int) ([]models.Lesson, error) {
	return nil, m.err
}

func (m *mockCourseRepository) CreateLesson(ctx context.Context, req *models.LessonRequest) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return 3, nil
}

func (m *mockCourseRepository) UpdateLesson(ctx context.Context, id int, req *models.LessonRequest) error {
	return m.err
}

func (m *mockCourseRepository) DeleteLesson(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCourseRepository) StudentTree(ctx context.Context, userID int) ([]models.CourseTree, error) {
	return m.trees, m.err
}

func (m *mockCourseRepository) UpsertProgress(ctx context.Context, userID, lessonID int, completed bool, watchedAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.progress = append(m.progress, models.UserProgress{UserID: userID, LessonID: lessonID, Completed: completed, LastWatchedAt: watchedAt})
	return nil
}

func lessonsWithProgress(completed ...bool) []models.LessonWithProgress {
	out := make([]models.LessonWithProgress, len(completed))
	for i, c := range completed {
		out[i] = models.LessonWithProgress{Lesson: models.Lesson{ID: i + 1}, Completed: c}
	}
	return out
}

func TestCourseService_StudentCourses(t *testing.T) {
	tests := []struct {
		name             string
		repo             *mockCourseRepository
		expectedPercents []int
		expectedError    bool
	}{
		{
			name: "progress per course",
			repo: &mockCourseRepository{trees: []models.CourseTree{
				{Course: models.Course{ID: 1}, Modules: []models.ModuleTree{
					{Lessons: lessonsWithProgress(true, false)},
					{Lessons: lessonsWithProgress(true)},
				}},
				{Course: models.Course{ID: 2}, Modules: []models.ModuleTree{
					{Lessons: lessonsWithProgress(false, false, false)},
				}},
			}},
			expectedPercents: []int{67, 0},
		},
		{
			name:             "no active courses",
			repo:             &mockCourseRepository{},
			expectedPercents: []int{},
		},
		{
			name:          "repository error",
			repo:          &mockCourseRepository{err: errors.New("db down")},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCourseService(tt.repo, zap.NewNop())

			trees, err := svc.StudentCourses(context.Background(), 42)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, trees)
			percents := []int{}
			for _, tree := range trees {
				percents = append(percents, tree.ProgressPercent)
			}
			assert.Equal(t, tt.expectedPercents, percents)
		})
	}
}

func TestCourseService_RecordProgress(t *testing.T) {
	repo := &mockCourseRepository{}
	svc := NewCourseService(repo, zap.NewNop())
	watched := time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return watched }

	require.NoError(t, svc.RecordProgress(context.Background(), 42, 7, true))
	require.NoError(t, svc.RecordProgress(context.Background(), 42, 7, false))

	require.Len(t, repo.progress, 2)
	assert.Equal(t, models.UserProgress{UserID: 42, LessonID: 7, Completed: false, LastWatchedAt: watched}, repo.progress[1])
}

func TestCourseService_DeleteRequiresConfirmation(t *testing.T) {
	repo := &mockCourseRepository{}
	svc := NewCourseService(repo, zap.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteCourse(ctx, 1, false), models.ErrConfirmationRequired)
	assert.ErrorIs(t, svc.DeleteModule(ctx, 2, false), models.ErrConfirmationRequired)
	assert.ErrorIs(t, svc.DeleteLesson(ctx, 3, false), models.ErrConfirmationRequired)
	assert.Empty(t, repo.deleted)

	assert.NoError(t, svc.DeleteCourse(ctx, 1, true))
	assert.NoError(t, svc.DeleteModule(ctx, 2, true))
	assert.NoError(t, svc.DeleteLesson(ctx, 3, true))
	assert.Equal(t, []int{1, 2, 3}, repo.deleted)
}

func TestCourseService_CreateWrapsNotFound(t *testing.T) {
	repo := &mockCourseRepository{err: models.ErrNotFound}
	svc := NewCourseService(repo, zap.NewNop())

	_, err := svc.CreateModule(context.Background(), &models.ModuleRequest{CourseID: 9, Title: "M"})

	assert.ErrorIs(t, err, models.ErrNotFound)
}
