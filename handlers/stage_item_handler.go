package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/trunkcat/fixtures/services"
)

type StageItemHandler struct {
	stageItemService *services.StageItemService
}

func NewStageItemHandler(s *services.StageItemService) *StageItemHandler {
	return &StageItemHandler{stageItemService: s}
}

// Standings godoc
// @Summary League standings
// @Tags stage-items
// @Description Inputs of every stage item in backend order with their points. Only league stages are supported.
// @Produce json
// @Param stageID path string true "Stage ID"
// @Success 200 {object} map[string]interface{} "standings"
// @Failure 400 {object} map[string]string "Unknown stage type"
// @Router /stages/{stageID}/standings [get]
func (h *StageItemHandler) Standings(w http.ResponseWriter, r *http.Request) {
	stageID, err := requiredParam(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.stageItemService.Standings(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func stageIDQuery(r *http.Request) (string, error) {
	stageID := strings.TrimSpace(r.URL.Query().Get("stageId"))
	if stageID == "" {
		return "", errors.New("stageId query parameter is required")
	}
	return stageID, nil
}

// Assignment godoc
// @Summary Team assignment of a stage item
// @Tags stage-items
// @Description Assigned teams followed by the teams still available in the stage.
// @Produce json
// @Param stageItemID path string true "Stage item ID"
// @Param stageId query string true "Stage ID"
// @Success 200 {object} map[string]interface{} "teams"
// @Failure 404 {object} map[string]string "Stage item not found"
// @Failure 409 {object} map[string]string "Rounds already generated or a save is in progress"
// @Router /stage-items/{stageItemID}/assignment [get]
func (h *StageItemHandler) Assignment(w http.ResponseWriter, r *http.Request) {
	stageItemID, err := requiredParam(r, "stageItemID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stageID, err := stageIDQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	a, err := h.stageItemService.Assignment(r.Context(), stageID, stageItemID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stageItem": a.StageItem(), "teams": a.Teams()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type assignTeamsInput struct {
	TeamIDs []string `json:"teamIds"`
}

// AssignTeams godoc
// @Summary Replace the teams of a stage item
// @Tags stage-items
// @Accept json
// @Produce json
// @Param stageItemID path string true "Stage item ID"
// @Param stageId query string true "Stage ID"
// @Param input body assignTeamsInput true "Assigned team IDs"
// @Success 200 {object} map[string]interface{} "Refreshed stage items"
// @Failure 404 {object} map[string]string "Stage item or team not found"
// @Failure 409 {object} map[string]string "Rounds already generated or a save is in progress"
// @Router /stage-items/{stageItemID}/teams [put]
func (h *StageItemHandler) AssignTeams(w http.ResponseWriter, r *http.Request) {
	stageItemID, err := requiredParam(r, "stageItemID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stageID, err := stageIDQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input assignTeamsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	a, err := h.stageItemService.Assignment(r.Context(), stageID, stageItemID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := a.SetAssigned(input.TeamIDs); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	items, err := a.Save(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stageItems": items, "teamIds": a.AssignedIDs()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
