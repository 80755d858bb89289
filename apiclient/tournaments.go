package apiclient

import (
	"context"
	"net/http"
	"time"

	"github.com/trunkcat/fixtures/models"
)

type CreateTournamentRequest struct {
	Name      string                    `json:"name"`
	ClubID    string                    `json:"clubId"`
	StartTime *time.Time                `json:"startTime,omitempty"`
	EndTime   *time.Time                `json:"endTime,omitempty"`
	Settings  models.TournamentSettings `json:"settings"`
}

type CreateTournamentResponse struct {
	TournamentID string `json:"tournamentId"`
}

func (c *Client) CreateTournament(ctx context.Context, req CreateTournamentRequest) (*CreateTournamentResponse, error) {
	var resp CreateTournamentResponse
	if err := c.do(ctx, http.MethodPost, "tournaments", "tournaments", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
