package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/infinito/platform/internal/models"
	"github.com/infinito/platform/internal/validation"
	"go.uber.org/zap"
)

// RequestValidator validates decoded request bodies
type RequestValidator interface {
	Struct(s any) error
}

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger    *zap.Logger
	Validator RequestValidator
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps a service error to a status code and logs it.
// Unknown errors become a generic 500 so internal details do not leak.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, logMsg string) {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		h.RespondJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": fields})
	case errors.Is(err, models.ErrInvalidInput):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrConfirmationRequired):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		h.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrRequestTooLarge):
		h.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		h.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.Logger.Error(logMsg, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// DecodeAndValidate decodes the JSON body into dst and validates it
func (h *BaseHandler) DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", models.ErrRequestTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: invalid request body", models.ErrInvalidInput)
	}
	if h.Validator == nil {
		return nil
	}
	return h.Validator.Struct(dst)
}

// URLParamID parses the {name} route parameter as a positive integer
func URLParamID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", models.ErrInvalidInput, name)
	}
	return id, nil
}

// Pagination reads page and count query parameters with defaults of 1 and 20
func Pagination(r *http.Request) (page, count int) {
	page, count = 1, 20
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if c, err := strconv.Atoi(r.URL.Query().Get("count")); err == nil && c > 0 && c <= 100 {
		count = c
	}
	return page, count
}

// Confirmed reports whether the request carries confirm=true. Destructive operations require it.
func Confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}
