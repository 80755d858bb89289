package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/trunkcat/fixtures/models"
)

type StageItemAPI interface {
	Stage(ctx context.Context, stageID string) (*models.Stage, error)
	StageItems(ctx context.Context, stageID string) ([]models.StageItem, error)
	StageItemTeams(ctx context.Context, stageItemID string) ([]models.Team, error)
	AvailableTeams(ctx context.Context, stageID string) ([]models.Team, error)
	AssignTeams(ctx context.Context, stageItemID string, teamIDs []string) error
}

// StandingRow is one line of a league table.
type StandingRow struct {
	Position int    `json:"position"`
	TeamID   string `json:"teamId"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
}

type StageItemStandings struct {
	StageItemID string        `json:"stageItemId"`
	Rows        []StandingRow `json:"rows"`
}

// StageItemService serves standings and team assignment for stage items.
type StageItemService struct {
	api      StageItemAPI
	notifier Notifier
	logger   *slog.Logger

	mu          sync.Mutex
	assignments map[string]*Assignment
}

func NewStageItemService(api StageItemAPI, notifier Notifier, logger *slog.Logger) *StageItemService {
	return &StageItemService{
		api:         api,
		notifier:    notifier,
		logger:      logger,
		assignments: make(map[string]*Assignment),
	}
}

// Standings lists every stage item's inputs in backend order. Only league
// stages have standings.
func (s *StageItemService) Standings(ctx context.Context, stageID string) ([]StageItemStandings, error) {
	var (
		stage *models.Stage
		items []models.StageItem
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stage, err = s.api.Stage(gCtx, stageID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.api.StageItems(gCtx, stageID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to fetch standings", slog.String("stage_id", stageID), slog.Any("error", err))
		NotifyFetchError(s.notifier, err)
		return nil, err
	}

	if stage.Type != models.StageTypeLeague {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStageType, stage.Type)
	}

	out := make([]StageItemStandings, 0, len(items))
	for _, item := range items {
		rows := make([]StandingRow, 0, len(item.Inputs))
		for i, team := range item.Inputs {
			rows = append(rows, StandingRow{
				Position: i + 1,
				TeamID:   team.ID,
				Name:     team.Name,
				Points:   team.Points(),
			})
		}
		out = append(out, StageItemStandings{StageItemID: item.ID, Rows: rows})
	}
	return out, nil
}

// Assignment returns the team assignment of a stage item, (re)loaded from
// the backend. The same Assignment is handed out until the service is
// discarded so that overlapping saves are detected.
func (s *StageItemService) Assignment(ctx context.Context, stageID, stageItemID string) (*Assignment, error) {
	s.mu.Lock()
	a, ok := s.assignments[stageItemID]
	if !ok || a.stageID != stageID {
		a = newAssignment(stageID, stageItemID, s.api, s.notifier, s.logger)
		s.assignments[stageItemID] = a
	}
	s.mu.Unlock()

	if err := a.Load(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// AssignableTeam is a team in the assignment list.
type AssignableTeam struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Assigned bool   `json:"assigned"`
}

// Assignment is the editable set of teams of one stage item.
type Assignment struct {
	stageID     string
	stageItemID string
	api         StageItemAPI
	notifier    Notifier
	logger      *slog.Logger

	mu     sync.Mutex
	item   models.StageItem
	teams  []AssignableTeam
	loaded bool
	saving bool
}

func newAssignment(stageID, stageItemID string, api StageItemAPI, notifier Notifier, logger *slog.Logger) *Assignment {
	return &Assignment{
		stageID:     stageID,
		stageItemID: stageItemID,
		api:         api,
		notifier:    notifier,
		logger:      logger.With(slog.String("stage_item_id", stageItemID)),
	}
}

// Load fetches the stage item, its assigned teams and the stage's available
// teams concurrently and merges the two lists, assigned first.
func (a *Assignment) Load(ctx context.Context) error {
	a.mu.Lock()
	if a.saving {
		a.mu.Unlock()
		return ErrAlreadySaving
	}
	a.mu.Unlock()

	var items []models.StageItem
	var assigned, available []models.Team
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = a.api.StageItems(gCtx, a.stageID)
		return err
	})
	g.Go(func() error {
		var err error
		assigned, err = a.api.StageItemTeams(gCtx, a.stageItemID)
		return err
	})
	g.Go(func() error {
		var err error
		available, err = a.api.AvailableTeams(gCtx, a.stageID)
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.Error("failed to fetch teams", slog.Any("error", err))
		NotifyFetchError(a.notifier, err)
		return err
	}

	item, err := findStageItem(items, a.stageItemID)
	if err != nil {
		return err
	}
	if !item.TeamsAssignable() {
		return ErrTeamsLocked
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.saving {
		return ErrAlreadySaving
	}
	a.item = item
	a.teams = mergeTeams(assigned, available)
	a.loaded = true
	return nil
}

func findStageItem(items []models.StageItem, id string) (models.StageItem, error) {
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.StageItem{}, fmt.Errorf("%w: %s", ErrStageItemNotFound, id)
}

func mergeTeams(assigned, available []models.Team) []AssignableTeam {
	out := make([]AssignableTeam, 0, len(assigned)+len(available))
	seen := make(map[string]bool, len(assigned))
	for _, team := range assigned {
		seen[team.ID] = true
		out = append(out, AssignableTeam{ID: team.ID, Name: team.Name, Assigned: true})
	}
	for _, team := range available {
		if seen[team.ID] {
			continue
		}
		out = append(out, AssignableTeam{ID: team.ID, Name: team.Name})
	}
	return out
}

func (a *Assignment) StageItem() models.StageItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.item
}

// Teams returns a copy of the merged list.
func (a *Assignment) Teams() []AssignableTeam {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]AssignableTeam{}, a.teams...)
}

// AssignedIDs returns the ids of the assigned teams in list order.
func (a *Assignment) AssignedIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.assignedIDs()
}

func (a *Assignment) assignedIDs() []string {
	ids := make([]string, 0, len(a.teams))
	for _, team := range a.teams {
		if team.Assigned {
			ids = append(ids, team.ID)
		}
	}
	return ids
}

// Toggle flips the assigned flag of one team.
func (a *Assignment) Toggle(teamID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.editable(); err != nil {
		return err
	}
	for i := range a.teams {
		if a.teams[i].ID == teamID {
			a.teams[i].Assigned = !a.teams[i].Assigned
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
}

// SetAssigned marks exactly teamIDs as assigned. Unknown ids are rejected
// before anything changes.
func (a *Assignment) SetAssigned(teamIDs []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.editable(); err != nil {
		return err
	}

	want := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		if !a.hasTeam(id) {
			return fmt.Errorf("%w: %s", ErrTeamNotFound, id)
		}
		want[id] = true
	}
	for i := range a.teams {
		a.teams[i].Assigned = want[a.teams[i].ID]
	}
	return nil
}

func (a *Assignment) hasTeam(id string) bool {
	for _, team := range a.teams {
		if team.ID == id {
			return true
		}
	}
	return false
}

func (a *Assignment) editable() error {
	if !a.loaded {
		return ErrAssignmentNotReady
	}
	if a.saving {
		return ErrAlreadySaving
	}
	return nil
}

// Save posts the assigned ids and re-fetches the stage items, which carry
// the new inputs. A second Save while one is in flight is rejected.
func (a *Assignment) Save(ctx context.Context) ([]models.StageItem, error) {
	a.mu.Lock()
	if err := a.editable(); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	a.saving = true
	ids := a.assignedIDs()
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.saving = false
		a.mu.Unlock()
	}()

	if err := a.api.AssignTeams(ctx, a.stageItemID, ids); err != nil {
		a.logger.Error("failed to assign teams", slog.Any("error", err))
		NotifyMutationError(a.notifier, err)
		return nil, err
	}
	a.notifier.Success(SuccessMessage)

	items, err := a.api.StageItems(ctx, a.stageID)
	if err != nil {
		a.logger.Error("failed to refetch stage items", slog.Any("error", err))
		NotifyFetchError(a.notifier, err)
		return nil, err
	}
	if items == nil {
		items = []models.StageItem{}
	}
	if item, err := findStageItem(items, a.stageItemID); err == nil {
		a.mu.Lock()
		a.item = item
		a.mu.Unlock()
	}
	return items, nil
}
