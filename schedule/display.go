package schedule

import (
	"fmt"

	"github.com/trunkcat/fixtures/models"
)

// ByePlaceholder stands in for an absent participant.
const ByePlaceholder = "—"

// Side is one participant line of a rendered match.
type Side struct {
	TeamID string `json:"teamId,omitempty"`
	Name   string `json:"name"`
	Score  string `json:"score"`
	Muted  bool   `json:"muted"`
}

// MatchRow is the display form of a match.
type MatchRow struct {
	MatchID string             `json:"matchId"`
	Status  models.MatchStatus `json:"status"`
	Home    Side               `json:"home"`
	Away    Side               `json:"away"`
}

// RoundView is the display form of a visible round.
type RoundView struct {
	RoundID string     `json:"roundId"`
	Number  int        `json:"number"`
	Title   string     `json:"title"`
	Rows    []MatchRow `json:"rows"`
}

func teamName(teams map[string]models.Team, id *string) (string, string) {
	if id == nil {
		return "", ByePlaceholder
	}
	if team, ok := teams[*id]; ok {
		return *id, team.Name
	}
	return *id, *id
}

// Row renders m using the team lookup.
func Row(m models.Match, teams map[string]models.Team) MatchRow {
	homeID, homeName := teamName(teams, m.Participant1)
	awayID, awayName := teamName(teams, m.Participant2)
	return MatchRow{
		MatchID: m.ID,
		Status:  m.Status(),
		Home: Side{
			TeamID: homeID,
			Name:   homeName,
			Score:  m.ScoreLabel(m.Score.Team1Score),
			Muted:  m.Trailing(1),
		},
		Away: Side{
			TeamID: awayID,
			Name:   awayName,
			Score:  m.ScoreLabel(m.Score.Team2Score),
			Muted:  m.Trailing(2),
		},
	}
}

// RenderRounds turns visible rounds into display rows.
func RenderRounds(visible []VisibleRound, teams map[string]models.Team) []RoundView {
	views := make([]RoundView, 0, len(visible))
	for _, vr := range visible {
		rows := make([]MatchRow, 0, len(vr.Matches))
		for _, m := range vr.Matches {
			rows = append(rows, Row(m, teams))
		}
		views = append(views, RoundView{
			RoundID: vr.Round.ID,
			Number:  vr.Round.Number,
			Title:   fmt.Sprintf("Round %d", vr.Round.Number),
			Rows:    rows,
		})
	}
	return views
}

// DialogTitle is "<home> vs. <away>".
func DialogTitle(m models.Match, teams map[string]models.Team) string {
	_, home := teamName(teams, m.Participant1)
	_, away := teamName(teams, m.Participant2)
	return home + " vs. " + away
}
