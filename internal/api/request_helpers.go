package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskly-api/internal/api/shared"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/phrazzld/taskly-api/internal/store"
)

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the authentication middleware put it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrRequired)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handleUserID extracts the user ID from the context, writing a 401 when it
// is missing.
func handleUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathUUID extracts both the user ID from context and a UUID
// from the path. It writes an error response if either extraction fails.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid "+paramName, slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}

// parsePage reads page and page_size from the query string.
func parsePage(r *http.Request) (store.Page, error) {
	q := r.URL.Query()
	number, err := queryInt(q.Get("page"), "page", 1)
	if err != nil {
		return store.Page{}, err
	}
	size, err := queryInt(q.Get("page_size"), "page_size", 0)
	if err != nil {
		return store.Page{}, err
	}
	return store.NewPage(number, size)
}

func queryInt(raw, name string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", domain.ErrInvalidFormat)
	}
	return n, nil
}

// parseTaskFilter reads status, priority, label_id, and sort from the query
// string.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	q := r.URL.Query()
	var filter store.TaskFilter

	if raw := q.Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		filter.Status = &status
	}
	if raw := q.Get("priority"); raw != "" {
		priority := domain.TaskPriority(raw)
		filter.Priority = &priority
	}
	if raw := q.Get("label_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return store.TaskFilter{}, domain.NewValidationError("label_id", "has invalid format", domain.ErrInvalidID)
		}
		filter.LabelID = &id
	}

	sort, err := store.ParseTaskSort(q.Get("sort"))
	if err != nil {
		return store.TaskFilter{}, err
	}
	filter.Sort = sort

	if err := filter.Validate(); err != nil {
		return store.TaskFilter{}, err
	}
	return filter, nil
}
