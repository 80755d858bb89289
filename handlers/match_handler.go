package handlers

import (
	"net/http"
	"strings"

	"github.com/trunkcat/fixtures/services"
)

type MatchHandler struct {
	matchService *services.MatchService
}

func NewMatchHandler(ms *services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// UpdateScore godoc
// @Summary Update match scores
// @Tags matches
// @Description Saves the scores without ending the match. With stageId the result is pushed to the stage's websocket room.
// @Accept json
// @Produce json
// @Param matchID path string true "Match ID"
// @Param stageId query string false "Stage ID to notify"
// @Param input body services.MatchScoreForm true "Scores"
// @Success 200 {object} map[string]interface{} "Updated match"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Router /matches/{matchID} [patch]
func (h *MatchHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, false)
}

// EndMatch godoc
// @Summary End a match
// @Tags matches
// @Description Saves the final scores. The match can no longer be edited afterwards.
// @Accept json
// @Produce json
// @Param matchID path string true "Match ID"
// @Param stageId query string false "Stage ID to notify"
// @Param input body services.MatchScoreForm true "Final scores"
// @Success 200 {object} map[string]interface{} "Ended match"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Router /matches/{matchID}/end [post]
func (h *MatchHandler) EndMatch(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, true)
}

func (h *MatchHandler) mutate(w http.ResponseWriter, r *http.Request, end bool) {
	matchID, err := requiredParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stageID := strings.TrimSpace(r.URL.Query().Get("stageId"))

	var input services.MatchScoreForm
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	update := h.matchService.UpdateScore
	if end {
		update = h.matchService.EndMatch
	}
	match, err := update(r.Context(), stageID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match, "message": services.SuccessMessage}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
