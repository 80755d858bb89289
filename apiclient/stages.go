package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/trunkcat/fixtures/models"
)

func (c *Client) Stage(ctx context.Context, stageID string) (*models.Stage, error) {
	var stage models.Stage
	if err := c.do(ctx, http.MethodGet, "stages/{id}", "stages/"+url.PathEscape(stageID), nil, &stage); err != nil {
		return nil, err
	}
	return &stage, nil
}

// StageItems lists the stage items of a stage with their team inputs and round counts.
func (c *Client) StageItems(ctx context.Context, stageID string) ([]models.StageItem, error) {
	var items []models.StageItem
	if err := c.do(ctx, http.MethodGet, "stages/{id}/items", "stages/"+url.PathEscape(stageID)+"/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Rounds lists the rounds of a stage with their matches embedded.
func (c *Client) Rounds(ctx context.Context, stageID string) ([]models.Round, error) {
	var rounds []models.Round
	if err := c.do(ctx, http.MethodGet, "stages/{id}/rounds", "stages/"+url.PathEscape(stageID)+"/rounds", nil, &rounds); err != nil {
		return nil, err
	}
	return rounds, nil
}

func (c *Client) StageItemTeams(ctx context.Context, stageItemID string) ([]models.Team, error) {
	var teams []models.Team
	if err := c.do(ctx, http.MethodGet, "stageItem/{id}/teams", "stageItem/"+url.PathEscape(stageItemID)+"/teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// AvailableTeams lists teams that can still be assigned to a stage item of the stage.
func (c *Client) AvailableTeams(ctx context.Context, stageID string) ([]models.Team, error) {
	var teams []models.Team
	if err := c.do(ctx, http.MethodGet, "stages/{id}/available-teams", "stages/"+url.PathEscape(stageID)+"/available-teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

type assignTeamsRequest struct {
	TeamIDs []string `json:"teamIds"`
}

// AssignTeams replaces the set of teams assigned to a stage item.
func (c *Client) AssignTeams(ctx context.Context, stageItemID string, teamIDs []string) error {
	if teamIDs == nil {
		teamIDs = []string{}
	}
	return c.do(ctx, http.MethodPost, "stageItem/{id}", "stageItem/"+url.PathEscape(stageItemID), assignTeamsRequest{TeamIDs: teamIDs}, nil)
}
