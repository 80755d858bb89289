package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/trunkcat/fixtures/apiclient"
	"github.com/trunkcat/fixtures/models"
)

type TournamentAPI interface {
	CreateTournament(ctx context.Context, req apiclient.CreateTournamentRequest) (*apiclient.CreateTournamentResponse, error)
}

// DateRange is the optional period of a tournament.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

type RankingConfigForm struct {
	WinPoints      int  `json:"winPoints" validate:"min=0"`
	DrawPoints     int  `json:"drawPoints" validate:"min=0"`
	LossPoints     int  `json:"lossPoints"`
	AddScorePoints bool `json:"addScorePoints"`
}

type SettingsForm struct {
	RankingConfig RankingConfigForm `json:"rankingConfig"`
}

// CreateTournamentForm is the input of the "create tournament" dialog.
type CreateTournamentForm struct {
	Name      string       `json:"name" validate:"required,min=3,max=256"`
	DateRange DateRange    `json:"dateRange"`
	Settings  SettingsForm `json:"settings"`
}

// NewCreateTournamentForm returns a form holding the default ranking points.
func NewCreateTournamentForm() CreateTournamentForm {
	def := models.DefaultRankingConfig()
	return CreateTournamentForm{
		Settings: SettingsForm{RankingConfig: RankingConfigForm{
			WinPoints:      def.WinPoints,
			DrawPoints:     def.DrawPoints,
			LossPoints:     def.LossPoints,
			AddScorePoints: def.AddScorePoints,
		}},
	}
}

// Validate trims the name and checks the form. now anchors the "not in the
// past" rule for the start date.
func (f *CreateTournamentForm) Validate(now time.Time) error {
	f.Name = strings.TrimSpace(f.Name)

	errs := ValidationErrors{}
	if err := ValidateStruct(*f); err != nil {
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for field, msg := range verrs {
			errs[field] = msg
		}
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if from := f.DateRange.From; from != nil && from.Before(startOfToday) {
		errs["dateRange.from"] = "must not be in the past"
	}
	if from, to := f.DateRange.From, f.DateRange.To; from != nil && to != nil && to.Before(*from) {
		errs["dateRange.to"] = "must not be before the start date"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f CreateTournamentForm) request(clubID string) apiclient.CreateTournamentRequest {
	rc := f.Settings.RankingConfig
	return apiclient.CreateTournamentRequest{
		Name:      f.Name,
		ClubID:    clubID,
		StartTime: f.DateRange.From,
		EndTime:   f.DateRange.To,
		Settings: models.TournamentSettings{RankingConfig: models.RankingConfig{
			WinPoints:      rc.WinPoints,
			DrawPoints:     rc.DrawPoints,
			LossPoints:     rc.LossPoints,
			AddScorePoints: rc.AddScorePoints,
		}},
	}
}

// TournamentService creates tournaments and keeps each club's tournament list.
type TournamentService struct {
	api      TournamentAPI
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu          sync.Mutex
	creating    map[string]bool
	tournaments map[string][]models.Tournament
}

func NewTournamentService(api TournamentAPI, notifier Notifier, logger *slog.Logger) *TournamentService {
	return &TournamentService{
		api:         api,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
		creating:    make(map[string]bool),
		tournaments: make(map[string][]models.Tournament),
	}
}

// Tournaments returns the cached list of a club, newest first.
func (s *TournamentService) Tournaments(clubID string) []models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Tournament{}, s.tournaments[clubID]...)
}

// CreateTournament validates form and creates the tournament in clubID. An
// invalid form never reaches the backend.
func (s *TournamentService) CreateTournament(ctx context.Context, clubID string, form CreateTournamentForm) (*models.Tournament, error) {
	if err := form.Validate(s.now()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.creating[clubID] {
		s.mu.Unlock()
		return nil, ErrAlreadyCreating
	}
	s.creating[clubID] = true
	s.mu.Unlock()

	resp, err := s.api.CreateTournament(ctx, form.request(clubID))

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creating, clubID)
	if err != nil {
		s.logger.Error("failed to create tournament", slog.String("club_id", clubID), slog.Any("error", err))
		NotifyMutationError(s.notifier, err)
		return nil, err
	}

	req := form.request(clubID)
	t := models.Tournament{
		ID:        resp.TournamentID,
		ClubID:    clubID,
		Name:      req.Name,
		CreatedAt: s.now(),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Settings:  req.Settings,
	}
	s.tournaments[clubID] = append([]models.Tournament{t}, s.tournaments[clubID]...)
	s.logger.Info("tournament created", slog.String("club_id", clubID), slog.String("tournament_id", t.ID))
	s.notifier.Success(SuccessMessage)
	return &t, nil
}
