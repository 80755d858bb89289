package models

import "time"

// RankingConfig задаёт очки за результат матча.
type RankingConfig struct {
	WinPoints      int  `json:"winPoints"`
	DrawPoints     int  `json:"drawPoints"`
	LossPoints     int  `json:"lossPoints"`
	AddScorePoints bool `json:"addScorePoints"`
}

// DefaultRankingConfig mirrors the defaults offered when a tournament is created.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{WinPoints: 3, DrawPoints: 1, LossPoints: 0, AddScorePoints: false}
}

type TournamentSettings struct {
	RankingConfig RankingConfig `json:"rankingConfig"`
}

type Tournament struct {
	ID        string             `json:"_id"`
	ClubID    string             `json:"clubId"`
	Name      string             `json:"name"`
	CreatedAt time.Time          `json:"createdAt"`
	StartTime *time.Time         `json:"startTime,omitempty"`
	EndTime   *time.Time         `json:"endTime,omitempty"`
	Settings  TournamentSettings `json:"settings"`
}
