package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/trunkcat/fixtures/schedule"
	"github.com/trunkcat/fixtures/services"
	"github.com/trunkcat/fixtures/storage"
)

// SnapshotPublisher is implemented by *storage.SnapshotPublisher.
type SnapshotPublisher interface {
	Publish(ctx context.Context, stageID string, snapshot any) (*storage.UploadResult, error)
	Unpublish(ctx context.Context, stageID string) error
}

type ScheduleHandler struct {
	api       schedule.API
	publisher SnapshotPublisher
	logger    *slog.Logger
}

// NewScheduleHandler creates the schedule endpoints. publisher may be nil
// when no snapshot storage is configured.
func NewScheduleHandler(api schedule.API, publisher SnapshotPublisher, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{api: api, publisher: publisher, logger: logger}
}

// loadSnapshot renders the schedule of a stage with the filter taken from
// the query string.
func (h *ScheduleHandler) loadSnapshot(r *http.Request, stageID string) (schedule.Snapshot, []services.Notification, error) {
	status, err := schedule.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		return schedule.Snapshot{}, nil, err
	}
	team := strings.TrimSpace(r.URL.Query().Get("team"))

	notifier := &services.RecordingNotifier{}
	view := schedule.NewView(stageID, h.api, notifier, h.logger)
	view.Load(r.Context())
	for _, section := range view.Sections() {
		if team != "" {
			section.ToggleTeamFilter(team)
		}
		section.SetStatusFilter(status)
	}
	return view.Snapshot(), notifier.Notifications(), nil
}

// Schedule godoc
// @Summary Stage schedule
// @Tags schedule
// @Description Rounds of every stage item with matches filtered by team and status. Rounds left without matches are omitted.
// @Produce json
// @Param stageID path string true "Stage ID"
// @Param team query string false "Team ID"
// @Param status query string false "all, incomplete or complete"
// @Success 200 {object} map[string]interface{} "schedule and notifications"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 502 {object} map[string]string "Stage items could not be fetched"
// @Router /stages/{stageID}/schedule [get]
func (h *ScheduleHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	stageID, err := requiredParam(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snap, notifications, err := h.loadSnapshot(r, stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if snap.State == services.StateRejected {
		errorResponse(w, r, http.StatusBadGateway, jsonResponse{"message": snap.Message, "notifications": notifications})
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"schedule": snap, "notifications": notifications}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PublishSnapshot godoc
// @Summary Publish stage schedule
// @Tags schedule
// @Description Renders the schedule with the given filter and uploads it as JSON to object storage.
// @Produce json
// @Param stageID path string true "Stage ID"
// @Param team query string false "Team ID"
// @Param status query string false "all, incomplete or complete"
// @Success 201 {object} map[string]interface{} "Upload result"
// @Failure 502 {object} map[string]string "Stage items could not be fetched"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /stages/{stageID}/snapshot [post]
func (h *ScheduleHandler) PublishSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		unavailableResponse(w, r, "snapshot storage is not configured")
		return
	}
	stageID, err := requiredParam(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snap, notifications, err := h.loadSnapshot(r, stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if snap.State == services.StateRejected {
		errorResponse(w, r, http.StatusBadGateway, jsonResponse{"message": snap.Message, "notifications": notifications})
		return
	}

	result, err := h.publisher.Publish(r.Context(), stageID, snap)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"snapshot": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteSnapshot godoc
// @Summary Remove published schedule
// @Tags schedule
// @Param stageID path string true "Stage ID"
// @Success 204 "Removed"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /stages/{stageID}/snapshot [delete]
func (h *ScheduleHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		unavailableResponse(w, r, "snapshot storage is not configured")
		return
	}
	stageID, err := requiredParam(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.publisher.Unpublish(r.Context(), stageID); err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
