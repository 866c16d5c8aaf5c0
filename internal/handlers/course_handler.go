package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	authmw "github.com/infinito/platform/internal/auth/middleware"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for the course hierarchy.
//
// Create methods return the ID of the new row. Module and lesson creation returns an error
// wrapping models.ErrNotFound when the parent does not exist. Delete methods return
// models.ErrConfirmationRequired unless "confirm" is true, and cascade to children.
type CourseService interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, req *models.CourseRequest) (int, error)
	UpdateCourse(ctx context.Context, id int, req *models.CourseRequest) error
	DeleteCourse(ctx context.Context, id int, confirm bool) error

	ListModules(ctx context.Context, courseID int) ([]models.Module, error)
	CreateModule(ctx context.Context, req *models.ModuleRequest) (int, error)
	UpdateModule(ctx context.Context, id int, req *models.ModuleRequest) error
	DeleteModule(ctx context.Context, id int, confirm bool) error

	ListLessons(ctx context.Context, moduleID int) ([]models.Lesson, error)
	CreateLesson(ctx context.Context, req *models.LessonRequest) (int, error)
	UpdateLesson(ctx context.Context, id int, req *models.LessonRequest) error
	DeleteLesson(ctx context.Context, id int, confirm bool) error

	// Method StudentCourses retrieve the active courses with the progress of "userID".
	StudentCourses(ctx context.Context, userID int) ([]models.CourseTree, error)
	// Method RecordProgress store the completion state of a lesson and refresh its last watched time.
	RecordProgress(ctx context.Context, userID, lessonID int, completed bool) error
}

// CourseHandler handles course, module and lesson requests
type CourseHandler struct {
	BaseHandler
	courseService CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService CourseService, validator RequestValidator, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   BaseHandler{Logger: logger, Validator: validator},
		courseService: courseService,
	}
}

// RegisterStudentRoutes registers the student course routes
func (h *CourseHandler) RegisterStudentRoutes(r chi.Router) {
	r.Get("/courses", h.StudentCourses)
	r.Put("/lessons/{id}/progress", h.RecordProgress)
}

// RegisterAdminRoutes registers the admin content management routes
func (h *CourseHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.ListCourses)
		r.Post("/", h.CreateCourse)
		r.Put("/{id}", h.UpdateCourse)
		r.Delete("/{id}", h.DeleteCourse)
		r.Get("/{id}/modules", h.ListModules)
	})
	r.Route("/modules", func(r chi.Router) {
		r.Post("/", h.CreateModule)
		r.Put("/{id}", h.UpdateModule)
		r.Delete("/{id}", h.DeleteModule)
		r.Get("/{id}/lessons", h.ListLessons)
	})
	r.Route("/lessons", func(r chi.Router) {
		r.Post("/", h.CreateLesson)
		r.Put("/{id}", h.UpdateLesson)
		r.Delete("/{id}", h.DeleteLesson)
	})
}

// StudentCourses handles GET /student/courses
// @Summary List my courses
// @Description Active courses (at least one module with a lesson) with per-lesson completion and course progress
// @Tags student
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.CourseTree
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /student/courses [get]
func (h *CourseHandler) StudentCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	trees, err := h.courseService.StudentCourses(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get student courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, trees)
}

// RecordProgress handles PUT /student/lessons/{id}/progress
// @Summary Record lesson progress
// @Tags student
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param request body models.ProgressRequest true "Completion state"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /student/lessons/{id}/progress [put]
func (h *CourseHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	lessonID, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid lesson id")
		return
	}

	var req models.ProgressRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode progress request")
		return
	}

	if err := h.courseService.RecordProgress(r.Context(), userID, lessonID, req.Completed); err != nil {
		h.RespondServiceError(w, err, "failed to record progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "progress saved"})
}

// ListCourses handles GET /admin/courses
// @Summary List courses
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Course
// @Router /admin/courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to list courses")
		return
	}
	h.RespondJSON(w, http.StatusOK, courses)
}

// CreateCourse handles POST /admin/courses
// @Summary Create course
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CourseRequest true "Course"
// @Success 201 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Router /admin/courses [post]
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CourseRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode course request")
		return
	}

	id, err := h.courseService.CreateCourse(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create course")
		return
	}
	h.RespondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateCourse handles PUT /admin/courses/{id}
// @Summary Update course
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param request body models.CourseRequest true "Course"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid course id")
		return
	}
	var req models.CourseRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode course request")
		return
	}

	if err := h.courseService.UpdateCourse(r.Context(), id, &req); err != nil {
		h.RespondServiceError(w, err, "failed to update course")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "course updated"})
}

// DeleteCourse handles DELETE /admin/courses/{id}
// @Summary Delete course
// @Description Removes the course with its modules and lessons. Requires confirm=true.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /admin/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid course id")
		return
	}
	if err := h.courseService.DeleteCourse(r.Context(), id, Confirmed(r)); err != nil {
		h.RespondServiceError(w, err, "failed to delete course")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "course deleted"})
}

// ListModules handles GET /admin/courses/{id}/modules
// @Summary List modules of a course
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {array} models.Module
// @Router /admin/courses/{id}/modules [get]
func (h *CourseHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	courseID, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid course id")
		return
	}
	modules, err := h.courseService.ListModules(r.Context(), courseID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list modules")
		return
	}
	h.RespondJSON(w, http.StatusOK, modules)
}

// CreateModule handles POST /admin/modules
// @Summary Create module
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.ModuleRequest true "Module"
// @Success 201 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "Course not found"
// @Router /admin/modules [post]
func (h *CourseHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req models.ModuleRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode module request")
		return
	}

	id, err := h.courseService.CreateModule(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create module")
		return
	}
	h.RespondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateModule handles PUT /admin/modules/{id}
// @Summary Update module
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Module ID"
// @Param request body models.ModuleRequest true "Module"
// @Success 200 {object} map[string]string
// @Router /admin/modules/{id} [put]
func (h *CourseHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid module id")
		return
	}
	var req models.ModuleRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode module request")
		return
	}

	if err := h.courseService.UpdateModule(r.Context(), id, &req); err != nil {
		h.RespondServiceError(w, err, "failed to update module")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "module updated"})
}

// DeleteModule handles DELETE /admin/modules/{id}
// @Summary Delete module
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Module ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]string
// @Router /admin/modules/{id} [delete]
func (h *CourseHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid module id")
		return
	}
	if err := h.courseService.DeleteModule(r.Context(), id, Confirmed(r)); err != nil {
		h.RespondServiceError(w, err, "failed to delete module")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "module deleted"})
}

// ListLessons handles GET /admin/modules/{id}/lessons
// @Summary List lessons of a module
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Module ID"
// @Success 200 {array} models.Lesson
// @Router /admin/modules/{id}/lessons [get]
func (h *CourseHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	moduleID, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid module id")
		return
	}
	lessons, err := h.courseService.ListLessons(r.Context(), moduleID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list lessons")
		return
	}
	h.RespondJSON(w, http.StatusOK, lessons)
}

// CreateLesson handles POST /admin/lessons
// @Summary Create lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.LessonRequest true "Lesson"
// @Success 201 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "Module not found"
// @Router /admin/lessons [post]
func (h *CourseHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req models.LessonRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode lesson request")
		return
	}

	id, err := h.courseService.CreateLesson(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create lesson")
		return
	}
	h.RespondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateLesson handles PUT /admin/lessons/{id}
// @Summary Update lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param request body models.LessonRequest true "Lesson"
// @Success 200 {object} map[string]string
// @Router /admin/lessons/{id} [put]
func (h *CourseHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid lesson id")
		return
	}
	var req models.LessonRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondServiceError(w, err, "failed to decode lesson request")
		return
	}

	if err := h.courseService.UpdateLesson(r.Context(), id, &req); err != nil {
		h.RespondServiceError(w, err, "failed to update lesson")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "lesson updated"})
}

// DeleteLesson handles DELETE /admin/lessons/{id}
// @Summary Delete lesson
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]string
// @Router /admin/lessons/{id} [delete]
func (h *CourseHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamID(r, "id")
	if err != nil {
		h.RespondServiceError(w, err, "invalid lesson id")
		return
	}
	if err := h.courseService.DeleteLesson(r.Context(), id, Confirmed(r)); err != nil {
		h.RespondServiceError(w, err, "failed to delete lesson")
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "lesson deleted"})
}
