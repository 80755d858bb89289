package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trunkcat/fixtures/models"
)

type MatchAPI interface {
	UpdateMatchScore(ctx context.Context, matchID string, score models.ScoreUpdate) (*models.Match, error)
	EndMatch(ctx context.Context, matchID string, score models.ScoreUpdate) (*models.Match, error)
}

// MatchBroadcaster fans a confirmed match out to the watchers of a stage.
type MatchBroadcaster interface {
	BroadcastMatchUpdate(stageID string, match models.Match)
}

// MatchScoreForm is the body of both score mutations.
type MatchScoreForm struct {
	Team1Score int `json:"team1Score" validate:"min=0"`
	Team2Score int `json:"team2Score" validate:"min=0"`
}

func (f MatchScoreForm) update() models.ScoreUpdate {
	return models.ScoreUpdate{Team1: f.Team1Score, Team2: f.Team2Score}
}

// MatchService runs score mutations for callers that do not hold a schedule
// view, e.g. the console server.
type MatchService struct {
	api         MatchAPI
	broadcaster MatchBroadcaster
	notifier    Notifier
	logger      *slog.Logger
}

func NewMatchService(api MatchAPI, broadcaster MatchBroadcaster, notifier Notifier, logger *slog.Logger) *MatchService {
	return &MatchService{api: api, broadcaster: broadcaster, notifier: notifier, logger: logger}
}

// UpdateScore saves the scores of a match without ending it. When stageID is
// set the confirmed match is broadcast to that stage's watchers.
func (s *MatchService) UpdateScore(ctx context.Context, stageID, matchID string, form MatchScoreForm) (*models.Match, error) {
	return s.mutate(ctx, stageID, matchID, form, false)
}

// EndMatch saves the final scores. An ended match cannot be edited again.
func (s *MatchService) EndMatch(ctx context.Context, stageID, matchID string, form MatchScoreForm) (*models.Match, error) {
	return s.mutate(ctx, stageID, matchID, form, true)
}

func (s *MatchService) mutate(ctx context.Context, stageID, matchID string, form MatchScoreForm, end bool) (*models.Match, error) {
	if err := ValidateStruct(form); err != nil {
		return nil, err
	}

	var (
		match *models.Match
		err   error
	)
	if end {
		match, err = s.api.EndMatch(ctx, matchID, form.update())
	} else {
		match, err = s.api.UpdateMatchScore(ctx, matchID, form.update())
	}
	if err != nil {
		s.logger.Error("match mutation failed", slog.String("match_id", matchID), slog.Bool("end", end), slog.Any("error", err))
		NotifyMutationError(s.notifier, err)
		return nil, fmt.Errorf("match %s: %w", matchID, err)
	}

	if stageID != "" && s.broadcaster != nil {
		s.broadcaster.BroadcastMatchUpdate(stageID, *match)
	}
	s.notifier.Success(SuccessMessage)
	return match, nil
}
