package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskly-api/internal/api/shared"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/phrazzld/taskly-api/internal/service"
)

// LabelHandler handles label-related HTTP requests
type LabelHandler struct {
	labels service.LabelService
	logger *slog.Logger
}

// NewLabelHandler creates a new LabelHandler
func NewLabelHandler(labels service.LabelService, log *slog.Logger) *LabelHandler {
	if labels == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("label service cannot be nil for LabelHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &LabelHandler{
		labels: labels,
		logger: log.With(slog.String("component", "label_handler")),
	}
}

// ListLabels handles GET /labels.
func (h *LabelHandler) ListLabels(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	page, err := parsePage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	labels, total, err := h.labels.ListLabels(r.Context(), userID, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newListResponse(labels, newLabelWithTaskCountResponse, total, page))
}

// CreateLabel handles POST /labels.
func (h *LabelHandler) CreateLabel(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	var req CreateLabelRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	label, err := h.labels.CreateLabel(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, newLabelResponse(label))
}

// GetLabel handles GET /labels/{id}.
func (h *LabelHandler) GetLabel(w http.ResponseWriter, r *http.Request) {
	userID, labelID, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	label, err := h.labels.GetLabel(r.Context(), userID, labelID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newLabelResponse(label))
}

// UpdateLabel handles PUT and PATCH /labels/{id}.
func (h *LabelHandler) UpdateLabel(w http.ResponseWriter, r *http.Request) {
	userID, labelID, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	var req UpdateLabelRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	label, err := h.labels.UpdateLabel(r.Context(), userID, labelID, service.LabelPatch{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newLabelResponse(label))
}

// DeleteLabel handles DELETE /labels/{id}. The label is pulled from the
// owner's tasks; a partial cascade is reported as a warning, not an error.
func (h *LabelHandler) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, labelID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	result, err := h.labels.DeleteLabel(r.Context(), userID, labelID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("label deleted",
		slog.String("label_id", labelID.String()),
		slog.Int64("tasks_updated", result.TasksUpdated))
	shared.RespondWithJSON(w, r, http.StatusOK, DeleteLabelResponse{
		Message:      "Label deleted successfully",
		TasksUpdated: result.TasksUpdated,
		Warning:      result.Warning,
	})
}
