package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/trunkcat/fixtures/models"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeAPI is an in-memory backend. Hooks override individual calls.
type fakeAPI struct {
	mu sync.Mutex

	items  []models.StageItem
	rounds []models.Round
	teams  []models.Team

	stageItemsErr error
	roundsErr     error
	teamsErr      error
	mutationErr   error

	roundsHook func(ctx context.Context) ([]models.Round, error)

	// mutationGate, when set, holds every mutation until it is closed.
	mutationStarted chan struct{}
	mutationGate    chan struct{}

	updates []models.ScoreUpdate
	ended   []string
}

func (f *fakeAPI) StageItems(ctx context.Context, stageID string) ([]models.StageItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stageItemsErr != nil {
		return nil, f.stageItemsErr
	}
	return append([]models.StageItem(nil), f.items...), nil
}

func (f *fakeAPI) Rounds(ctx context.Context, stageID string) ([]models.Round, error) {
	if f.roundsHook != nil {
		return f.roundsHook(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roundsErr != nil {
		return nil, f.roundsErr
	}
	return cloneRounds(f.rounds), nil
}

func (f *fakeAPI) StageItemTeams(ctx context.Context, stageItemID string) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.teamsErr != nil {
		return nil, f.teamsErr
	}
	return append([]models.Team(nil), f.teams...), nil
}

func (f *fakeAPI) UpdateMatchScore(ctx context.Context, matchID string, score models.ScoreUpdate) (*models.Match, error) {
	return f.mutate(matchID, score, false)
}

func (f *fakeAPI) EndMatch(ctx context.Context, matchID string, score models.ScoreUpdate) (*models.Match, error) {
	return f.mutate(matchID, score, true)
}

func (f *fakeAPI) mutate(matchID string, score models.ScoreUpdate, end bool) (*models.Match, error) {
	if f.mutationGate != nil {
		f.mutationStarted <- struct{}{}
		<-f.mutationGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	f.updates = append(f.updates, score)
	for ri := range f.rounds {
		for mi := range f.rounds[ri].Matches {
			m := &f.rounds[ri].Matches[mi]
			if m.ID != matchID {
				continue
			}
			now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
			if m.StartTime == nil {
				m.StartTime = timePtr(now)
			}
			m.Score = models.Score{Team1Score: score.Team1, Team2Score: score.Team2}
			if end {
				m.EndTime = timePtr(now.Add(time.Hour))
				f.ended = append(f.ended, matchID)
			}
			updated := *m
			return &updated, nil
		}
	}
	return nil, errors.New("match not found")
}

func cloneRounds(rounds []models.Round) []models.Round {
	out := make([]models.Round, len(rounds))
	for i, r := range rounds {
		out[i] = r
		out[i].Matches = append([]models.Match(nil), r.Matches...)
	}
	return out
}

// scenarioRounds is a single round with one unplayed match between A and B.
func scenarioRounds() []models.Round {
	return []models.Round{{
		ID:     "r1",
		Number: 1,
		Matches: []models.Match{{
			ID:           "m1",
			RoundID:      "r1",
			Participant1: strPtr("A"),
			Participant2: strPtr("B"),
		}},
	}}
}

func scenarioTeams() []models.Team {
	return []models.Team{{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Bravo"}, {ID: "C", Name: "Charlie"}}
}
