package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/acksell/courses/courses"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UserHeader carries the id of the user creating a course.
const UserHeader = "X-User-ID"

// Handler serves the courses REST endpoints.
type Handler struct {
	store    *courses.Store
	validate *validator.Validate
	log      zerolog.Logger
}

func NewHandler(store *courses.Store, log zerolog.Logger) *Handler {
	return &Handler{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// RegisterRoutes registers all routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("POST /tables/courses", h.createTable)
	mux.HandleFunc("DELETE /tables/courses", h.dropTable)
	mux.HandleFunc("POST /courses", h.createCourse)
	mux.HandleFunc("POST /courses:batchGet", h.batchGetCourses)
	mux.HandleFunc("GET /courses/{courseId}", h.getCourse)
	mux.HandleFunc("DELETE /courses/{courseId}", h.removeCourse)
}

type batchGetRequest struct {
	CourseIDs []string `json:"courseIds" validate:"required,min=1,max=100,dive,required"`
}

type batchGetResponse struct {
	Courses []courses.Course `json:"courses"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if !h.store.Ready() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"ready": h.store.Ready()})
}

func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	if err := h.store.CreateTable(r.Context()); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"table": courses.TableName})
}

func (h *Handler) dropTable(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DropTable(r.Context()); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getCourse(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseId")
	course, err := h.store.GetCourse(r.Context(), courseID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if course == nil {
		writeError(w, http.StatusNotFound, "course not found: "+courseID)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *Handler) batchGetCourses(w http.ResponseWriter, r *http.Request) {
	var req batchGetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	found, err := h.store.BatchGetCourses(r.Context(), req.CourseIDs)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchGetResponse{Courses: found})
}

func (h *Handler) createCourse(w http.ResponseWriter, r *http.Request) {
	var course *courses.Course
	// An empty body is passed on as a nil course and rejected by the store.
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}

	stored, err := h.store.CreateCourse(r.Context(), courses.CreateCourseInput{
		UID:    r.Header.Get(UserHeader),
		Course: course,
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handler) removeCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveCourse(r.Context(), r.PathValue("courseId")); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	var (
		validationErr *courses.ValidationError
		storeErr      *courses.StoreError
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, courses.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, courses.ErrNotImplemented):
		writeError(w, http.StatusNotImplemented, err.Error())
	case errors.As(err, &storeErr):
		h.log.Error().Err(err).Str("op", storeErr.Op).Msg("dynamodb call failed")
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": err.Error(),
			"code":  storeErr.Code(),
		})
	default:
		h.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
