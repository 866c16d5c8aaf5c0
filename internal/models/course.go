package models

import "time"

// Course is the top level of the content hierarchy
type Course struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverURL    string    `json:"coverUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Module belongs to exactly one course
type Module struct {
	ID         int    `json:"id"`
	CourseID   int    `json:"courseId"`
	Title      string `json:"title"`
	OrderIndex int    `json:"orderIndex"`
}

// Lesson belongs to exactly one module
type Lesson struct {
	ID          int    `json:"id"`
	ModuleID    int    `json:"moduleId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	OrderIndex  int    `json:"orderIndex"`
}

// CourseModuleLessonCount is a flat projection of the hierarchy used for activity checks.
// ModuleID is nil for a course without modules.
type CourseModuleLessonCount struct {
	CourseID    int
	ModuleID    *int
	LessonCount int
}

// CourseTree is a course with its modules and lessons for the student view
type CourseTree struct {
	Course
	Modules          []ModuleTree `json:"modules"`
	TotalLessons     int          `json:"totalLessons"`
	CompletedLessons int          `json:"completedLessons"`
	ProgressPercent  int          `json:"progressPercent"`
}

// ModuleTree is a module with its lessons
type ModuleTree struct {
	Module
	Lessons []LessonWithProgress `json:"lessons"`
}

// LessonWithProgress is a lesson annotated with the caller's completion state
type LessonWithProgress struct {
	Lesson
	Completed     bool       `json:"completed"`
	LastWatchedAt *time.Time `json:"lastWatchedAt,omitempty"`
}

// CourseRequest creates or replaces a course
type CourseRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl" validate:"omitempty,url"`
}

// ModuleRequest creates or replaces a module
type ModuleRequest struct {
	CourseID   int    `json:"courseId" validate:"required,gt=0"`
	Title      string `json:"title" validate:"required,notblank,max=255"`
	OrderIndex int    `json:"orderIndex" validate:"gte=0"`
}

// LessonRequest creates or replaces a lesson
type LessonRequest struct {
	ModuleID    int    `json:"moduleId" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,url"`
	OrderIndex  int    `json:"orderIndex" validate:"gte=0"`
}

// UserProgress is the completion state of one lesson for one user
type UserProgress struct {
	UserID        int       `json:"userId"`
	LessonID      int       `json:"lessonId"`
	Completed     bool      `json:"completed"`
	LastWatchedAt time.Time `json:"lastWatchedAt"`
}

// ProgressRequest records progress on a lesson
type ProgressRequest struct {
	Completed bool `json:"completed"`
}
