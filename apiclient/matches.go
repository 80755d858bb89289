package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/trunkcat/fixtures/models"
)

type scoreRequest struct {
	Score models.ScoreUpdate `json:"score"`
}

// UpdateMatchScore sets the score of a match that has not ended. It may be repeated.
func (c *Client) UpdateMatchScore(ctx context.Context, matchID string, score models.ScoreUpdate) (*models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodPatch, "match/{id}", "match/"+url.PathEscape(matchID), scoreRequest{Score: score}, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// EndMatch finalizes the score and marks the match terminal.
func (c *Client) EndMatch(ctx context.Context, matchID string, score models.ScoreUpdate) (*models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodPost, "match/{id}/end", "match/"+url.PathEscape(matchID)+"/end", scoreRequest{Score: score}, &match); err != nil {
		return nil, err
	}
	return &match, nil
}
