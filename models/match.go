package models

import (
	"strconv"
	"time"
)

type MatchStatus string

const (
	MatchStatusIncomplete MatchStatus = "incomplete"
	MatchStatusComplete   MatchStatus = "complete"
)

// ScorePlaceholder is shown instead of a score for matches that have not started.
const ScorePlaceholder = "—"

type Score struct {
	Team1Score int `json:"team1Score"`
	Team2Score int `json:"team2Score"`
}

type Match struct {
	ID           string     `json:"_id"`
	RoundID      string     `json:"roundId"`
	Participant1 *string    `json:"participant1,omitempty"`
	Participant2 *string    `json:"participant2,omitempty"`
	Score        Score      `json:"score"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
}

// Status is complete only when both the start and end time are set.
func (m Match) Status() MatchStatus {
	if m.StartTime != nil && m.EndTime != nil {
		return MatchStatusComplete
	}
	return MatchStatusIncomplete
}

// Ended reports whether the match was finalized and its score can no longer change.
func (m Match) Ended() bool {
	return m.EndTime != nil
}

// HasParticipant reports whether teamID plays in either slot.
func (m Match) HasParticipant(teamID string) bool {
	return (m.Participant1 != nil && *m.Participant1 == teamID) ||
		(m.Participant2 != nil && *m.Participant2 == teamID)
}

// ScoreLabel returns the text shown for one side's score.
func (m Match) ScoreLabel(score int) string {
	if m.StartTime == nil {
		return ScorePlaceholder
	}
	return strconv.Itoa(score)
}

// Trailing reports whether the given slot (1 or 2) is not ahead of its
// opponent in a started match. Ties mute both sides. A side is measured
// against team 2 only when it is the known participant 1, so an empty
// first slot (a bye) is always muted.
func (m Match) Trailing(slot int) bool {
	if m.StartTime == nil {
		return false
	}
	own, team := m.Score.Team1Score, m.Participant1
	if slot == 2 {
		own, team = m.Score.Team2Score, m.Participant2
	}
	other := m.Score.Team1Score
	if m.Participant1 != nil && team != nil && *team == *m.Participant1 {
		other = m.Score.Team2Score
	}
	return own <= other
}

// ScoreUpdate is the body of both score mutations.
type ScoreUpdate struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}
