package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunkcat/fixtures/apiclient"
	"github.com/trunkcat/fixtures/models"
	"github.com/trunkcat/fixtures/schedule"
	"github.com/trunkcat/fixtures/services"
	"github.com/trunkcat/fixtures/storage"
)

// backend answers every API interface the handlers depend on.
type backend struct {
	mu sync.Mutex

	stage    models.Stage
	items    []models.StageItem
	rounds   []models.Round
	teams    map[string][]models.Team // by stage item
	free     []models.Team
	itemsErr error
	matchErr error

	assigned map[string][]string
	created  []apiclient.CreateTournamentRequest
}

func strPtr(s string) *string { return &s }

func newBackend() *backend {
	start := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	return &backend{
		stage: models.Stage{ID: "st1", Name: "League", Type: models.StageTypeLeague},
		items: []models.StageItem{
			{ID: "si1", StageID: "st1", RoundsCount: 1, Inputs: []models.Team{
				{ID: "A", Name: "Alpha", Stats: &models.TeamStats{Points: 3}},
				{ID: "B", Name: "Bravo"},
			}},
			{ID: "si2", StageID: "st1"},
		},
		rounds: []models.Round{{ID: "r1", StageID: "st1", Number: 1, Matches: []models.Match{
			{ID: "m1", RoundID: "r1", Participant1: strPtr("A"), Participant2: strPtr("B"),
				Score: models.Score{Team1Score: 2, Team2Score: 1}, StartTime: &start, EndTime: &end},
			{ID: "m2", RoundID: "r1", Participant1: strPtr("B"), Participant2: strPtr("C")},
		}}},
		teams: map[string][]models.Team{
			"si1": {{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Bravo"}, {ID: "C", Name: "Charlie"}},
			"si2": {{ID: "D", Name: "Delta"}},
		},
		free:     []models.Team{{ID: "E", Name: "Echo"}},
		assigned: map[string][]string{},
	}
}

func (b *backend) Stage(ctx context.Context, stageID string) (*models.Stage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stage := b.stage
	return &stage, nil
}

func (b *backend) StageItems(ctx context.Context, stageID string) ([]models.StageItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.itemsErr != nil {
		return nil, b.itemsErr
	}
	return append([]models.StageItem(nil), b.items...), nil
}

func (b *backend) Rounds(ctx context.Context, stageID string) ([]models.Round, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Round, len(b.rounds))
	for i, r := range b.rounds {
		r.Matches = append([]models.Match(nil), r.Matches...)
		out[i] = r
	}
	return out, nil
}

func (b *backend) StageItemTeams(ctx context.Context, stageItemID string) ([]models.Team, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Team(nil), b.teams[stageItemID]...), nil
}

func (b *backend) AvailableTeams(ctx context.Context, stageID string) ([]models.Team, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Team(nil), b.free...), nil
}

func (b *backend) AssignTeams(ctx context.Context, stageItemID string, teamIDs []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assigned[stageItemID] = append([]string(nil), teamIDs...)
	return nil
}

func (b *backend) UpdateMatchScore(ctx context.Context, matchID string, score models.ScoreUpdate) (*models.Match, error) {
	return b.mutate(matchID, score, false)
}

func (b *backend) EndMatch(ctx context.Context, matchID string, score models.ScoreUpdate) (*models.Match, error) {
	return b.mutate(matchID, score, true)
}

func (b *backend) mutate(matchID string, score models.ScoreUpdate, end bool) (*models.Match, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.matchErr != nil {
		return nil, b.matchErr
	}
	start := time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC)
	m := &models.Match{ID: matchID, RoundID: "r1", StartTime: &start,
		Score: models.Score{Team1Score: score.Team1, Team2Score: score.Team2}}
	if end {
		finish := start.Add(time.Hour)
		m.EndTime = &finish
	}
	return m, nil
}

func (b *backend) CreateTournament(ctx context.Context, req apiclient.CreateTournamentRequest) (*apiclient.CreateTournamentResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, req)
	return &apiclient.CreateTournamentResponse{TournamentID: fmt.Sprintf("t%d", len(b.created))}, nil
}

type sentUpdate struct {
	stageID string
	matchID string
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []sentUpdate
}

func (f *fakeBroadcaster) BroadcastMatchUpdate(stageID string, match models.Match) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentUpdate{stageID: stageID, matchID: match.ID})
}

type fakePublisher struct {
	published map[string]any
	removed   []string
}

func (p *fakePublisher) Publish(ctx context.Context, stageID string, snapshot any) (*storage.UploadResult, error) {
	if p.published == nil {
		p.published = map[string]any{}
	}
	p.published[stageID] = snapshot
	key := storage.SnapshotKey(stageID)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (p *fakePublisher) Unpublish(ctx context.Context, stageID string) error {
	p.removed = append(p.removed, stageID)
	return nil
}

type testServer struct {
	backend     *backend
	broadcaster *fakeBroadcaster
	publisher   *fakePublisher
	router      chi.Router
}

func newTestServer(t *testing.T, withPublisher bool) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &services.RecordingNotifier{}
	ts := &testServer{backend: newBackend(), broadcaster: &fakeBroadcaster{}}

	var publisher SnapshotPublisher
	if withPublisher {
		ts.publisher = &fakePublisher{}
		publisher = ts.publisher
	}

	sh := NewScheduleHandler(ts.backend, publisher, logger)
	sih := NewStageItemHandler(services.NewStageItemService(ts.backend, notifier, logger))
	mh := NewMatchHandler(services.NewMatchService(ts.backend, ts.broadcaster, notifier, logger))
	th := NewTournamentHandler(services.NewTournamentService(ts.backend, notifier, logger))

	r := chi.NewRouter()
	r.Get("/stages/{stageID}/schedule", sh.Schedule)
	r.Get("/stages/{stageID}/standings", sih.Standings)
	r.Post("/stages/{stageID}/snapshot", sh.PublishSnapshot)
	r.Delete("/stages/{stageID}/snapshot", sh.DeleteSnapshot)
	r.Get("/stage-items/{stageItemID}/assignment", sih.Assignment)
	r.Put("/stage-items/{stageItemID}/teams", sih.AssignTeams)
	r.Patch("/matches/{matchID}", mh.UpdateScore)
	r.Post("/matches/{matchID}/end", mh.EndMatch)
	r.Get("/clubs/{clubID}/tournaments", th.ListHandler)
	r.Post("/clubs/{clubID}/tournaments", th.CreateHandler)
	ts.router = r
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&out), rec.Body.String())
	return out
}

type scheduleBody struct {
	Schedule      schedule.Snapshot       `json:"schedule"`
	Notifications []services.Notification `json:"notifications"`
}

func matchIDs(section schedule.SectionSnapshot) []string {
	var ids []string
	for _, round := range section.Rounds {
		for _, row := range round.Rows {
			ids = append(ids, row.MatchID)
		}
	}
	return ids
}

func TestSchedule(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string // match ids of si1
	}{
		{name: "no filter", query: "", want: []string{"m1", "m2"}},
		{name: "team", query: "?team=C", want: []string{"m2"}},
		{name: "complete", query: "?status=complete", want: []string{"m1"}},
		{name: "team and status", query: "?team=A&status=incomplete", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, false)
			rec := ts.do(t, http.MethodGet, "/stages/st1/schedule"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			body := decode[scheduleBody](t, rec)
			assert.Equal(t, services.StateResolved, body.Schedule.State)
			assert.Equal(t, 1, body.Schedule.TotalRounds)
			require.Len(t, body.Schedule.Sections, 2)
			assert.Equal(t, "si1", body.Schedule.Sections[0].StageItemID)
			if diff := cmp.Diff(tt.want, matchIDs(body.Schedule.Sections[0])); diff != "" {
				t.Errorf("visible matches mismatch (-want +got):\n%s", diff)
			}
			assert.Empty(t, body.Notifications)
		})
	}
}

func TestSchedule_RendersRows(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodGet, "/stages/st1/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[scheduleBody](t, rec)
	rounds := body.Schedule.Sections[0].Rounds
	require.Len(t, rounds, 1)
	assert.Equal(t, "Round 1", rounds[0].Title)

	played := rounds[0].Rows[0]
	assert.Equal(t, "Alpha", played.Home.Name)
	assert.Equal(t, "2", played.Home.Score)
	assert.False(t, played.Home.Muted)
	assert.True(t, played.Away.Muted)

	pending := rounds[0].Rows[1]
	assert.Equal(t, models.ScorePlaceholder, pending.Home.Score)
	assert.Equal(t, "Charlie", pending.Away.Name)
}

func TestSchedule_InvalidStatus(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodGet, "/stages/st1/schedule?status=later", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSchedule_StageItemsRejected(t *testing.T) {
	ts := newTestServer(t, false)
	ts.backend.itemsErr = &apiclient.APIError{Status: http.StatusNotFound, Message: "Stage not found"}

	rec := ts.do(t, http.MethodGet, "/stages/st1/schedule", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body struct {
		Error struct {
			Message       string                  `json:"message"`
			Notifications []services.Notification `json:"notifications"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch stage items", body.Error.Message)
	assert.Equal(t, []services.Notification{{Kind: "error", Message: "Stage not found"}}, body.Error.Notifications)
}

func TestSnapshot(t *testing.T) {
	t.Run("without storage", func(t *testing.T) {
		ts := newTestServer(t, false)
		assert.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodPost, "/stages/st1/snapshot", "").Code)
		assert.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodDelete, "/stages/st1/snapshot", "").Code)
	})

	t.Run("publish and delete", func(t *testing.T) {
		ts := newTestServer(t, true)
		rec := ts.do(t, http.MethodPost, "/stages/st1/snapshot?status=complete", "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var body struct {
			Snapshot storage.UploadResult `json:"snapshot"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "stages/st1/schedule.json", body.Snapshot.Key)

		snap, ok := ts.publisher.published["st1"].(schedule.Snapshot)
		require.True(t, ok)
		assert.Equal(t, []string{"m1"}, matchIDs(snap.Sections[0]))

		rec = ts.do(t, http.MethodDelete, "/stages/st1/snapshot", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []string{"st1"}, ts.publisher.removed)
	})
}

func TestStandings(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodGet, "/stages/st1/standings", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Standings []services.StageItemStandings `json:"standings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Standings, 2)
	want := []services.StandingRow{
		{Position: 1, TeamID: "A", Name: "Alpha", Points: 3},
		{Position: 2, TeamID: "B", Name: "Bravo", Points: 0},
	}
	if diff := cmp.Diff(want, body.Standings[0].Rows); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestStandings_UnknownStageType(t *testing.T) {
	ts := newTestServer(t, false)
	ts.backend.stage.Type = "knockout"
	rec := ts.do(t, http.MethodGet, "/stages/st1/standings", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignment(t *testing.T) {
	t.Run("requires stage", func(t *testing.T) {
		ts := newTestServer(t, false)
		rec := ts.do(t, http.MethodGet, "/stage-items/si2/assignment", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("lists assigned first", func(t *testing.T) {
		ts := newTestServer(t, false)
		rec := ts.do(t, http.MethodGet, "/stage-items/si2/assignment?stageId=st1", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body struct {
			Teams []services.AssignableTeam `json:"teams"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, []services.AssignableTeam{
			{ID: "D", Name: "Delta", Assigned: true},
			{ID: "E", Name: "Echo"},
		}, body.Teams)
	})

	t.Run("locked once rounds exist", func(t *testing.T) {
		ts := newTestServer(t, false)
		rec := ts.do(t, http.MethodGet, "/stage-items/si1/assignment?stageId=st1", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		ts := newTestServer(t, false)
		rec := ts.do(t, http.MethodGet, "/stage-items/nope/assignment?stageId=st1", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAssignTeams(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodPut, "/stage-items/si2/teams?stageId=st1", `{"teamIds":["E"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		TeamIDs []string `json:"teamIds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"E"}, body.TeamIDs)
	assert.Equal(t, []string{"E"}, ts.backend.assigned["si2"])

	rec = ts.do(t, http.MethodPut, "/stage-items/si2/teams?stageId=st1", `{"teamIds":["Z"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPut, "/stage-items/si2/teams?stageId=st1", `{"teams":["E"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchMutations(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPatch, "/matches/m2?stageId=st1", `{"team1Score":1,"team2Score":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Match   models.Match `json:"match"`
		Message string       `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Match.Score.Team1Score)
	assert.Nil(t, body.Match.EndTime)
	assert.Equal(t, services.SuccessMessage, body.Message)

	rec = ts.do(t, http.MethodPost, "/matches/m2/end", `{"team1Score":3,"team2Score":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Match.EndTime)

	// only the request that named a stage is pushed to watchers
	assert.Equal(t, []sentUpdate{{stageID: "st1", matchID: "m2"}}, ts.broadcaster.sent)
}

func TestMatchMutations_Errors(t *testing.T) {
	t.Run("negative score", func(t *testing.T) {
		ts := newTestServer(t, false)
		rec := ts.do(t, http.MethodPatch, "/matches/m2", `{"team1Score":-1,"team2Score":0}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body struct {
			Error map[string]string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Error, "team1Score")
	})

	t.Run("backend message is relayed", func(t *testing.T) {
		ts := newTestServer(t, false)
		ts.backend.matchErr = &apiclient.APIError{Status: http.StatusBadRequest, Message: "Match already ended"}
		rec := ts.do(t, http.MethodPost, "/matches/m1/end", `{"team1Score":1,"team2Score":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Match already ended")
		assert.Empty(t, ts.broadcaster.sent)
	})
}

func TestTournaments(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/clubs/c1/tournaments", `{"name":"  Autumn Cup  "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Tournament models.Tournament `json:"tournament"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "t1", created.Tournament.ID)
	assert.Equal(t, "Autumn Cup", created.Tournament.Name)
	assert.Equal(t, models.DefaultRankingConfig(), created.Tournament.Settings.RankingConfig)

	rec = ts.do(t, http.MethodPost, "/clubs/c1/tournaments", `{"name":"ab"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, ts.backend.created, 1)

	rec = ts.do(t, http.MethodGet, "/clubs/c1/tournaments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Tournaments []models.Tournament `json:"tournaments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Tournaments, 1)
	assert.Equal(t, "t1", list.Tournaments[0].ID)
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ValidationErrors{"name": "is required"}, http.StatusUnprocessableEntity},
		{&apiclient.APIError{Status: http.StatusForbidden, Message: "nope"}, http.StatusForbidden},
		{fmt.Errorf("load: %w", services.ErrStageItemNotFound), http.StatusNotFound},
		{schedule.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrAlreadyCreating, http.StatusConflict},
		{services.ErrTeamsLocked, http.StatusConflict},
		{schedule.ErrMatchLocked, http.StatusConflict},
		{schedule.ErrNoMatchSelected, http.StatusConflict},
		{services.ErrUnknownStageType, http.StatusBadRequest},
		{schedule.ErrInvalidStatusFilter, http.StatusBadRequest},
		{apiclient.ErrUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("match m1: %w", apiclient.ErrUnexpectedStatus), http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mapServiceErrorToHTTP(rec, req, tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://admin.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req), "requests without Origin are allowed")

	req.Header.Set("Origin", "https://admin.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
	assert.True(t, originChecker(nil)(req))
}
