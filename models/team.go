package models

// TeamStats holds the ranking figures the backend computes for a stage item input.
type TeamStats struct {
	Points int `json:"points"`
}

type Team struct {
	ID    string     `json:"_id"`
	Name  string     `json:"name"`
	Stats *TeamStats `json:"teamStats,omitempty"`
}

// Points returns the team's ranking points, or 0 when the backend sent none.
func (t Team) Points() int {
	if t.Stats == nil {
		return 0
	}
	return t.Stats.Points
}

// TeamsByID builds an id-keyed lookup from a list of teams.
func TeamsByID(teams []Team) map[string]Team {
	lookup := make(map[string]Team, len(teams))
	for _, team := range teams {
		lookup[team.ID] = team
	}
	return lookup
}
