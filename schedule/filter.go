package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/trunkcat/fixtures/models"
)

// StatusFilter selects matches by completion.
type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusIncomplete StatusFilter = "incomplete"
	StatusComplete   StatusFilter = "complete"
)

// ParseStatusFilter accepts "all", "incomplete" or "complete"; an empty value means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusIncomplete:
		return StatusIncomplete, nil
	case StatusComplete:
		return StatusComplete, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatusFilter, s)
	}
}

// MatchFilter is the filter selection of one stage item's schedule.
// An empty TeamID means no team filter.
type MatchFilter struct {
	TeamID string       `json:"teamId,omitempty"`
	Status StatusFilter `json:"status"`
}

// IsClear reports whether the filter shows everything.
func (f MatchFilter) IsClear() bool {
	return f.TeamID == "" && (f.Status == "" || f.Status == StatusAll)
}

// Filter returns the matches involving teamID (any team when empty) whose
// status satisfies status. Input order is kept; the input is not modified.
func Filter(matches []models.Match, teamID string, status StatusFilter) []models.Match {
	out := make([]models.Match, 0, len(matches))
	for _, match := range matches {
		if teamID != "" && !match.HasParticipant(teamID) {
			continue
		}
		if status != "" && status != StatusAll && string(match.Status()) != string(status) {
			continue
		}
		out = append(out, match)
	}
	return out
}

// VisibleRound is a round together with the matches that survive filtering.
type VisibleRound struct {
	Round   models.Round   `json:"round"`
	Matches []models.Match `json:"matches"`
}

// VisibleRounds applies f to every round and drops rounds left without matches.
func VisibleRounds(rounds []models.Round, f MatchFilter) []VisibleRound {
	visible := make([]VisibleRound, 0, len(rounds))
	for _, round := range rounds {
		matches := Filter(round.Matches, f.TeamID, f.Status)
		if len(matches) == 0 {
			continue
		}
		visible = append(visible, VisibleRound{Round: round, Matches: matches})
	}
	return visible
}

// SearchTeams returns the teams whose name contains query, case-insensitively,
// sorted by name.
func SearchTeams(teams map[string]models.Team, query string) []models.Team {
	needle := strings.ToLower(query)
	out := make([]models.Team, 0, len(teams))
	for _, team := range teams {
		if strings.Contains(strings.ToLower(team.Name), needle) {
			out = append(out, team)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}
