package services

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunkcat/fixtures/apiclient"
	"github.com/trunkcat/fixtures/models"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeTournamentAPI struct {
	mu       sync.Mutex
	requests []apiclient.CreateTournamentRequest
	err      error
	started  chan struct{}
	gate     chan struct{}
}

func (f *fakeTournamentAPI) CreateTournament(ctx context.Context, req apiclient.CreateTournamentRequest) (*apiclient.CreateTournamentResponse, error) {
	if f.gate != nil {
		f.started <- struct{}{}
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &apiclient.CreateTournamentResponse{TournamentID: "t-new"}, nil
}

var fixedNow = time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC)

func newTestTournamentService(api TournamentAPI) (*TournamentService, *RecordingNotifier) {
	notifier := &RecordingNotifier{}
	svc := NewTournamentService(api, notifier, testLogger)
	svc.now = func() time.Time { return fixedNow }
	return svc, notifier
}

func TestNewCreateTournamentForm_Defaults(t *testing.T) {
	form := NewCreateTournamentForm()
	assert.Equal(t, RankingConfigForm{WinPoints: 3, DrawPoints: 1, LossPoints: 0, AddScorePoints: false}, form.Settings.RankingConfig)
}

func TestCreateTournamentForm_Validate(t *testing.T) {
	earlierToday := time.Date(2026, 10, 17, 1, 0, 0, 0, time.UTC)
	yesterday := fixedNow.AddDate(0, 0, -1)
	nextWeek := fixedNow.AddDate(0, 0, 7)

	tests := []struct {
		name       string
		mutate     func(f *CreateTournamentForm)
		wantFields []string
	}{
		{"valid minimal", func(f *CreateTournamentForm) { f.Name = "Autumn Cup" }, nil},
		{"name trimmed before length check", func(f *CreateTournamentForm) { f.Name = "  ab  " }, []string{"name"}},
		{"name required", func(f *CreateTournamentForm) { f.Name = "   " }, []string{"name"}},
		{"name too long", func(f *CreateTournamentForm) { f.Name = strings.Repeat("x", 257) }, []string{"name"}},
		{"start earlier today is fine", func(f *CreateTournamentForm) {
			f.Name = "Cup"
			f.DateRange.From = &earlierToday
		}, nil},
		{"start in the past", func(f *CreateTournamentForm) {
			f.Name = "Cup"
			f.DateRange.From = &yesterday
		}, []string{"dateRange.from"}},
		{"end before start", func(f *CreateTournamentForm) {
			f.Name = "Cup"
			f.DateRange.From = &nextWeek
			f.DateRange.To = &earlierToday
		}, []string{"dateRange.to"}},
		{"negative win and draw points", func(f *CreateTournamentForm) {
			f.Name = "Cup"
			f.Settings.RankingConfig.WinPoints = -1
			f.Settings.RankingConfig.DrawPoints = -2
		}, []string{"settings.rankingConfig.drawPoints", "settings.rankingConfig.winPoints"}},
		{"negative loss points allowed", func(f *CreateTournamentForm) {
			f.Name = "Cup"
			f.Settings.RankingConfig.LossPoints = -1
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := NewCreateTournamentForm()
			tt.mutate(&form)

			err := form.Validate(fixedNow)
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidationFailed)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			got := make([]string, 0, len(verrs))
			for field := range verrs {
				got = append(got, field)
			}
			assert.ElementsMatch(t, tt.wantFields, got)
		})
	}
}

func TestTournamentService_CreateTournament(t *testing.T) {
	api := &fakeTournamentAPI{}
	svc, notifier := newTestTournamentService(api)
	svc.setTournaments("club1", []models.Tournament{{ID: "t-old", ClubID: "club1", Name: "Spring Cup"}})

	form := NewCreateTournamentForm()
	form.Name = "  Autumn Cup "
	created, err := svc.CreateTournament(context.Background(), "club1", form)
	require.NoError(t, err)

	assert.Equal(t, "t-new", created.ID)
	assert.Equal(t, "Autumn Cup", created.Name)
	assert.Equal(t, fixedNow, created.CreatedAt)

	require.Len(t, api.requests, 1)
	assert.Equal(t, "club1", api.requests[0].ClubID)
	assert.Equal(t, "Autumn Cup", api.requests[0].Name)
	assert.Equal(t, models.DefaultRankingConfig(), api.requests[0].Settings.RankingConfig)

	list := svc.Tournaments("club1")
	require.Len(t, list, 2)
	assert.Equal(t, "t-new", list[0].ID, "new tournament is prepended")
	assert.Equal(t, "t-old", list[1].ID)
	assert.Equal(t, []Notification{{Kind: "success", Message: SuccessMessage}}, notifier.Notifications())
}

func TestTournamentService_InvalidFormSkipsBackend(t *testing.T) {
	api := &fakeTournamentAPI{}
	svc, notifier := newTestTournamentService(api)

	_, err := svc.CreateTournament(context.Background(), "club1", NewCreateTournamentForm())
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, api.requests)
	assert.Empty(t, notifier.Notifications())
	assert.Empty(t, svc.Tournaments("club1"))
}

func TestTournamentService_BackendError(t *testing.T) {
	api := &fakeTournamentAPI{err: &apiclient.APIError{Status: http.StatusConflict, Message: "Name already taken"}}
	svc, notifier := newTestTournamentService(api)

	form := NewCreateTournamentForm()
	form.Name = "Autumn Cup"
	_, err := svc.CreateTournament(context.Background(), "club1", form)
	require.Error(t, err)
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, []Notification{{Kind: "error", Message: "Name already taken"}}, notifier.Notifications())
	assert.Empty(t, svc.Tournaments("club1"))
}

func TestTournamentService_RejectsConcurrentCreate(t *testing.T) {
	api := &fakeTournamentAPI{started: make(chan struct{}), gate: make(chan struct{})}
	svc, _ := newTestTournamentService(api)
	form := NewCreateTournamentForm()
	form.Name = "Autumn Cup"

	done := make(chan error, 1)
	go func() {
		_, err := svc.CreateTournament(context.Background(), "club1", form)
		done <- err
	}()
	<-api.started

	_, err := svc.CreateTournament(context.Background(), "club1", form)
	assert.ErrorIs(t, err, ErrAlreadyCreating)

	close(api.gate)
	require.NoError(t, <-done)
	assert.Len(t, svc.Tournaments("club1"), 1)
}

// setTournaments seeds the cached list of a club.
func (s *TournamentService) setTournaments(clubID string, list []models.Tournament) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments[clubID] = append([]models.Tournament(nil), list...)
}
