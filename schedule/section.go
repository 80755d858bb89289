package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/trunkcat/fixtures/models"
	"github.com/trunkcat/fixtures/services"
)

// Section is the schedule of one stage item: its rounds, the filter
// selection and the match edit dialog.
type Section struct {
	item     models.StageItem
	api      API
	notifier services.Notifier
	logger   *slog.Logger
	fetcher  *RoundsAndTeamsFetcher

	mu       sync.Mutex
	filter   MatchFilter
	dialog   MatchDialog
	round    models.Round         // round of the selected match
	inflight map[string]Operation // match id -> mutation awaiting a response
}

func NewSection(item models.StageItem, api API, notifier services.Notifier, logger *slog.Logger) *Section {
	logger = logger.With(slog.String("stage_item_id", item.ID))
	return &Section{
		item:     item,
		api:      api,
		notifier: notifier,
		logger:   logger,
		fetcher:  NewRoundsAndTeamsFetcher(api, item, notifier, logger),
		filter:   MatchFilter{Status: StatusAll},
		inflight: make(map[string]Operation),
	}
}

func (s *Section) StageItem() models.StageItem {
	return s.item
}

// Load (re)fetches rounds and teams.
func (s *Section) Load(ctx context.Context) services.Loaded[RoundsAndTeams] {
	return s.fetcher.Fetch(ctx)
}

func (s *Section) State() services.Loaded[RoundsAndTeams] {
	return s.fetcher.State()
}

func (s *Section) Filter() MatchFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// ToggleTeamFilter filters by teamID, or clears the team filter when teamID
// is already selected.
func (s *Section) ToggleTeamFilter(teamID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter.TeamID == teamID {
		s.filter.TeamID = ""
		return
	}
	s.filter.TeamID = teamID
}

func (s *Section) SetStatusFilter(status StatusFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Status = status
}

// ClearFilters resets the filter. It reports false when there was nothing to clear.
func (s *Section) ClearFilters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter.IsClear() {
		return false
	}
	s.filter = MatchFilter{Status: StatusAll}
	return true
}

// SearchTeams lists the loaded teams matching query.
func (s *Section) SearchTeams(query string) []models.Team {
	state := s.fetcher.State()
	if !state.IsResolved() {
		return nil
	}
	return SearchTeams(state.Data.Teams, query)
}

// VisibleRounds applies the current filter to the loaded rounds.
func (s *Section) VisibleRounds() []VisibleRound {
	state := s.fetcher.State()
	if !state.IsResolved() {
		return nil
	}
	return VisibleRounds(state.Data.Rounds, s.Filter())
}

// SelectMatch opens the dialog for a cached match.
func (s *Section) SelectMatch(matchID string) error {
	state := s.fetcher.State()
	if !state.IsResolved() {
		return ErrRoundsNotLoaded
	}
	match, round, ok := FindMatch(state.Data.Rounds, matchID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dialog.Open(match); err != nil {
		return err
	}
	s.round = round
	return nil
}

// DialogView is a snapshot of the match dialog for rendering.
type DialogView struct {
	State            DialogState `json:"state"`
	Title            string      `json:"title,omitempty"`
	Description      string      `json:"description,omitempty"`
	Match            *MatchRow   `json:"match,omitempty"`
	Form             ScoreForm   `json:"form"`
	CountersDisabled bool        `json:"countersDisabled"`
	Pending          string      `json:"pending,omitempty"`
}

func (s *Section) Dialog() DialogView {
	teams := map[string]models.Team{}
	if state := s.fetcher.State(); state.IsResolved() {
		teams = state.Data.Teams
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	view := DialogView{State: s.dialog.State(), CountersDisabled: s.dialog.CountersDisabled()}
	match, ok := s.dialog.Match()
	if !ok {
		return view
	}
	row := Row(match, teams)
	view.Match = &row
	view.Title = DialogTitle(match, teams)
	view.Description = fmt.Sprintf("Round %d", s.round.Number)
	view.Form = s.dialog.Form()
	if op, ok := s.inflight[match.ID]; ok {
		view.Pending = op.String()
		view.CountersDisabled = true
	}
	return view
}

// AdjustScore moves a score counter (slot 1 or 2) by delta.
func (s *Section) AdjustScore(slot, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog.Adjust(slot, delta)
}

// SetScores replaces both counters.
func (s *Section) SetScores(form ScoreForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog.SetForm(form)
}

// UpdateScores saves the dialog's scores without ending the match.
func (s *Section) UpdateScores(ctx context.Context) (models.Match, error) {
	return s.submit(ctx, OpUpdateScores)
}

// EndMatch saves the dialog's scores and finalizes the match.
func (s *Section) EndMatch(ctx context.Context) (models.Match, error) {
	return s.submit(ctx, OpEndMatch)
}

func (s *Section) submit(ctx context.Context, op Operation) (models.Match, error) {
	s.mu.Lock()
	if match, ok := s.dialog.Match(); ok {
		// The dialog may have been closed and reopened while a response for
		// this match is still outstanding.
		if _, busy := s.inflight[match.ID]; busy {
			s.mu.Unlock()
			return models.Match{}, ErrDialogBusy
		}
	}
	sub, err := s.dialog.Begin(op)
	if err == nil {
		s.inflight[sub.Match.ID] = op
	}
	s.mu.Unlock()
	if err != nil {
		return models.Match{}, err
	}

	var updated *models.Match
	switch op {
	case OpEndMatch:
		updated, err = s.api.EndMatch(ctx, sub.Match.ID, sub.Form.Update())
	default:
		updated, err = s.api.UpdateMatchScore(ctx, sub.Match.ID, sub.Form.Update())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sub.Match.ID)
	if err != nil {
		s.dialog.Fail(sub.Token)
		s.logger.Error("match mutation failed",
			slog.String("match_id", sub.Match.ID), slog.String("operation", op.String()), slog.Any("error", err))
		services.NotifyMutationError(s.notifier, err)
		return models.Match{}, err
	}

	if updated.RoundID == "" {
		updated.RoundID = sub.Match.RoundID
	}
	s.fetcher.Apply(*updated)
	if !s.dialog.Succeed(sub.Token, *updated) {
		s.dialog.Refresh(*updated)
	}
	s.notifier.Success(services.SuccessMessage)
	return *updated, nil
}

// ApplyRemoteUpdate splices a match confirmed elsewhere (e.g. pushed over a
// websocket) into the cache and refreshes an idle dialog showing it.
func (s *Section) ApplyRemoteUpdate(updated models.Match) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fetcher.Apply(updated) {
		return false
	}
	s.dialog.Refresh(updated)
	return true
}

// CloseDialog dismisses the match dialog.
func (s *Section) CloseDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog.Close()
	s.round = models.Round{}
}
