package models

// StageType определяет, как отображается этап.
type StageType string

const (
	StageTypeLeague StageType = "league"
)

type Stage struct {
	ID           string    `json:"_id"`
	TournamentID string    `json:"tournamentId"`
	Name         string    `json:"name"`
	Type         StageType `json:"type"`
}

// StageItem is a schedulable unit within a stage (e.g. one league group).
type StageItem struct {
	ID          string `json:"_id"`
	StageID     string `json:"stageId"`
	Inputs      []Team `json:"inputs"`
	RoundsCount int    `json:"roundsCount"`
}

// TeamsAssignable reports whether teams may still be assigned, which the
// backend only allows before any round has been generated.
func (si StageItem) TeamsAssignable() bool {
	return si.RoundsCount == 0
}

type Round struct {
	ID      string  `json:"_id"`
	StageID string  `json:"stageId,omitempty"`
	Number  int     `json:"number"`
	Matches []Match `json:"matches"`
}

// TotalRounds sums the rounds count across stage items.
func TotalRounds(items []StageItem) int {
	total := 0
	for _, item := range items {
		total += item.RoundsCount
	}
	return total
}
