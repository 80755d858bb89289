package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/trunkcat/fixtures/models"
	"github.com/trunkcat/fixtures/services"
)

// EmptyMessage is shown when a stage has no stage items yet.
const EmptyMessage = "No stage items created yet."

// View is the schedule page of a stage: one Section per stage item.
type View struct {
	stageID  string
	api      API
	notifier services.Notifier
	logger   *slog.Logger
	items    *StageItemFetcher

	mu       sync.Mutex
	sections map[string]*Section
	order    []string
}

func NewView(stageID string, api API, notifier services.Notifier, logger *slog.Logger) *View {
	logger = logger.With(slog.String("stage_id", stageID))
	return &View{
		stageID:  stageID,
		api:      api,
		notifier: notifier,
		logger:   logger,
		items:    NewStageItemFetcher(api, stageID, notifier, logger),
		sections: make(map[string]*Section),
	}
}

func (v *View) StageID() string {
	return v.stageID
}

// Load fetches the stage items and then the rounds and teams of every item
// in parallel. Sections of items that are still present are reused.
func (v *View) Load(ctx context.Context) services.Loaded[[]models.StageItem] {
	state := v.items.Fetch(ctx)
	if !state.IsResolved() {
		return state
	}

	v.mu.Lock()
	sections := make(map[string]*Section, len(state.Data))
	order := make([]string, 0, len(state.Data))
	for _, item := range state.Data {
		section, ok := v.sections[item.ID]
		if !ok || section.item.StageID != item.StageID || section.item.RoundsCount != item.RoundsCount {
			section = NewSection(item, v.api, v.notifier, v.logger)
		}
		sections[item.ID] = section
		order = append(order, item.ID)
	}
	v.sections = sections
	v.order = order
	v.mu.Unlock()

	g, gCtx := errgroup.WithContext(ctx)
	for _, id := range order {
		section := sections[id]
		g.Go(func() error {
			section.Load(gCtx)
			return nil
		})
	}
	_ = g.Wait()

	return state
}

func (v *View) State() services.Loaded[[]models.StageItem] {
	return v.items.State()
}

// Sections returns the sections in stage item order.
func (v *View) Sections() []*Section {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]*Section, 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.sections[id])
	}
	return out
}

func (v *View) Section(stageItemID string) (*Section, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	section, ok := v.sections[stageItemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, stageItemID)
	}
	return section, nil
}

// SectionForMatch finds the section whose loaded rounds contain matchID.
func (v *View) SectionForMatch(matchID string) (*Section, error) {
	for _, section := range v.Sections() {
		state := section.State()
		if !state.IsResolved() {
			continue
		}
		if _, _, ok := FindMatch(state.Data.Rounds, matchID); ok {
			return section, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
}

// TotalRounds is the number shown in the schedule header.
func (v *View) TotalRounds() int {
	state := v.items.State()
	if !state.IsResolved() {
		return 0
	}
	return models.TotalRounds(state.Data)
}

// ApplyRemoteUpdate offers a pushed match update to every section.
func (v *View) ApplyRemoteUpdate(updated models.Match) bool {
	applied := false
	for _, section := range v.Sections() {
		if section.ApplyRemoteUpdate(updated) {
			applied = true
		}
	}
	return applied
}

// SectionSnapshot is the rendered state of one stage item.
type SectionSnapshot struct {
	StageItemID string             `json:"stageItemId"`
	State       services.LoadState `json:"state"`
	Message     string             `json:"message,omitempty"`
	Filter      MatchFilter        `json:"filter"`
	Rounds      []RoundView        `json:"rounds"`
}

// Snapshot is the rendered state of the whole schedule page.
type Snapshot struct {
	StageID     string             `json:"stageId"`
	State       services.LoadState `json:"state"`
	Message     string             `json:"message,omitempty"`
	TotalRounds int                `json:"totalRounds"`
	Sections    []SectionSnapshot  `json:"sections"`
}

// Snapshot renders every section with its current filter.
func (v *View) Snapshot() Snapshot {
	state := v.items.State()
	snap := Snapshot{
		StageID:     v.stageID,
		State:       state.State,
		Message:     state.Message,
		TotalRounds: v.TotalRounds(),
		Sections:    []SectionSnapshot{},
	}
	if !state.IsResolved() {
		return snap
	}
	if len(state.Data) == 0 {
		snap.Message = EmptyMessage
		return snap
	}

	for _, section := range v.Sections() {
		snap.Sections = append(snap.Sections, section.Snapshot())
	}
	return snap
}

// Snapshot renders the section with its current filter.
func (s *Section) Snapshot() SectionSnapshot {
	state := s.fetcher.State()
	out := SectionSnapshot{
		StageItemID: s.item.ID,
		State:       state.State,
		Message:     state.Message,
		Filter:      s.Filter(),
		Rounds:      []RoundView{},
	}
	if state.IsResolved() {
		out.Rounds = RenderRounds(VisibleRounds(state.Data.Rounds, out.Filter), state.Data.Teams)
	}
	return out
}
