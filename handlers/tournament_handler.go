package handlers

import (
	"net/http"

	"github.com/trunkcat/fixtures/services"
)

type TournamentHandler struct {
	tournamentService *services.TournamentService
}

func NewTournamentHandler(ts *services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// CreateHandler godoc
// @Summary Create a tournament
// @Tags tournaments
// @Description Ranking points default to 3/1/0 when omitted.
// @Accept json
// @Produce json
// @Param clubID path string true "Club ID"
// @Param input body services.CreateTournamentForm true "Tournament"
// @Success 201 {object} map[string]interface{} "Created tournament"
// @Failure 409 {object} map[string]string "Another create is in progress"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Router /clubs/{clubID}/tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := requiredParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.NewCreateTournamentForm()
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), clubID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary Tournaments created through this console
// @Tags tournaments
// @Produce json
// @Param clubID path string true "Club ID"
// @Success 200 {object} map[string]interface{} "Tournaments, newest first"
// @Router /clubs/{clubID}/tournaments [get]
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	clubID, err := requiredParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": h.tournamentService.Tournaments(clubID)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
