package schedule

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/trunkcat/fixtures/models"
	"github.com/trunkcat/fixtures/services"
)

// API is the part of the backend the schedule needs.
type API interface {
	StageItems(ctx context.Context, stageID string) ([]models.StageItem, error)
	Rounds(ctx context.Context, stageID string) ([]models.Round, error)
	StageItemTeams(ctx context.Context, stageItemID string) ([]models.Team, error)
	UpdateMatchScore(ctx context.Context, matchID string, score models.ScoreUpdate) (*models.Match, error)
	EndMatch(ctx context.Context, matchID string, score models.ScoreUpdate) (*models.Match, error)
}

const (
	msgFetchingStageItems = "Fetching stage items"
	msgStageItemsFailed   = "Failed to fetch stage items"
	msgFetchingRounds     = "Fetching rounds"
	msgRoundsFailed       = "Failed to fetch rounds"
	msgTeamsFailed        = "Failed to fetch teams"
)

// StageItemFetcher loads the stage items of one stage.
type StageItemFetcher struct {
	api      API
	stageID  string
	notifier services.Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	gen   uint64
	state services.Loaded[[]models.StageItem]
}

func NewStageItemFetcher(api API, stageID string, notifier services.Notifier, logger *slog.Logger) *StageItemFetcher {
	return &StageItemFetcher{
		api:      api,
		stageID:  stageID,
		notifier: notifier,
		logger:   logger,
		state:    services.Pending[[]models.StageItem](msgFetchingStageItems),
	}
}

func (f *StageItemFetcher) State() services.Loaded[[]models.StageItem] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fetch resets the state to pending, loads the stage items and returns the
// resulting state. A response superseded by a newer Fetch is discarded.
func (f *StageItemFetcher) Fetch(ctx context.Context) services.Loaded[[]models.StageItem] {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.state = services.Pending[[]models.StageItem](msgFetchingStageItems)
	f.mu.Unlock()

	items, err := f.api.StageItems(ctx, f.stageID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		f.logger.Debug("discarding stale stage items response",
			slog.String("stage_id", f.stageID), slog.Uint64("generation", gen))
		return f.state
	}
	if err != nil {
		f.logger.Error("failed to fetch stage items", slog.String("stage_id", f.stageID), slog.Any("error", err))
		services.NotifyFetchError(f.notifier, err)
		f.state = services.Rejected[[]models.StageItem](msgStageItemsFailed)
		return f.state
	}
	if items == nil {
		items = []models.StageItem{}
	}
	f.state = services.Resolved(items)
	return f.state
}

// RoundsAndTeams is the resolved payload of a RoundsAndTeamsFetcher.
type RoundsAndTeams struct {
	Rounds []models.Round         `json:"rounds"`
	Teams  map[string]models.Team `json:"teams"`
}

// RoundsAndTeamsFetcher loads the rounds and teams of one stage item concurrently.
type RoundsAndTeamsFetcher struct {
	api      API
	item     models.StageItem
	notifier services.Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	gen   uint64
	state services.Loaded[RoundsAndTeams]
}

func NewRoundsAndTeamsFetcher(api API, item models.StageItem, notifier services.Notifier, logger *slog.Logger) *RoundsAndTeamsFetcher {
	return &RoundsAndTeamsFetcher{
		api:      api,
		item:     item,
		notifier: notifier,
		logger:   logger,
		state:    services.Pending[RoundsAndTeams](msgFetchingRounds),
	}
}

func (f *RoundsAndTeamsFetcher) State() services.Loaded[RoundsAndTeams] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fetch issues both retrievals in parallel and resolves once both finish.
// Rounds come from the item's stage; teams from the item itself.
func (f *RoundsAndTeamsFetcher) Fetch(ctx context.Context) services.Loaded[RoundsAndTeams] {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.state = services.Pending[RoundsAndTeams](msgFetchingRounds)
	f.mu.Unlock()

	var (
		rounds             []models.Round
		teams              []models.Team
		roundsErr, teamErr error
	)

	// Both requests run to completion so each failure is reported.
	var g errgroup.Group
	g.Go(func() error {
		rounds, roundsErr = f.api.Rounds(ctx, f.item.StageID)
		return roundsErr
	})
	g.Go(func() error {
		teams, teamErr = f.api.StageItemTeams(ctx, f.item.ID)
		return teamErr
	})
	_ = g.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		f.logger.Debug("discarding stale rounds response",
			slog.String("stage_item_id", f.item.ID), slog.Uint64("generation", gen))
		return f.state
	}

	for _, err := range []error{roundsErr, teamErr} {
		if err != nil {
			services.NotifyFetchError(f.notifier, err)
		}
	}
	switch {
	case roundsErr != nil:
		f.logger.Error("failed to fetch rounds", slog.String("stage_item_id", f.item.ID), slog.Any("error", roundsErr))
		f.state = services.Rejected[RoundsAndTeams](msgRoundsFailed)
	case teamErr != nil:
		f.logger.Error("failed to fetch teams", slog.String("stage_item_id", f.item.ID), slog.Any("error", teamErr))
		f.state = services.Rejected[RoundsAndTeams](msgTeamsFailed)
	default:
		if rounds == nil {
			rounds = []models.Round{}
		}
		f.state = services.Resolved(RoundsAndTeams{Rounds: rounds, Teams: models.TeamsByID(teams)})
	}
	return f.state
}

// Apply splices a confirmed match into the cached rounds. It reports false
// when the rounds are not resolved or the match is not cached.
func (f *RoundsAndTeamsFetcher) Apply(updated models.Match) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.state.IsResolved() {
		return false
	}
	rounds, applied := ApplyMatchUpdate(f.state.Data.Rounds, updated)
	if !applied {
		f.logger.Debug("dropping match update missing from cache",
			slog.String("match_id", updated.ID), slog.String("round_id", updated.RoundID))
		return false
	}
	f.state.Data.Rounds = rounds
	return true
}
