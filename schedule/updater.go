package schedule

import "github.com/trunkcat/fixtures/models"

// ApplyMatchUpdate replaces the cached copy of updated, found by its round id
// and match id, keeping its position. The input slice is left untouched; when
// the round or match is not cached the original slice is returned with
// applied=false.
func ApplyMatchUpdate(rounds []models.Round, updated models.Match) (out []models.Round, applied bool) {
	roundIdx := -1
	for i := range rounds {
		if rounds[i].ID == updated.RoundID {
			roundIdx = i
			break
		}
	}
	if roundIdx < 0 {
		return rounds, false
	}

	matchIdx := -1
	for i := range rounds[roundIdx].Matches {
		if rounds[roundIdx].Matches[i].ID == updated.ID {
			matchIdx = i
			break
		}
	}
	if matchIdx < 0 {
		return rounds, false
	}

	matches := make([]models.Match, len(rounds[roundIdx].Matches))
	copy(matches, rounds[roundIdx].Matches)
	matches[matchIdx] = updated

	out = make([]models.Round, len(rounds))
	copy(out, rounds)
	out[roundIdx].Matches = matches
	return out, true
}

// FindMatch looks a match up by id across all rounds.
func FindMatch(rounds []models.Round, matchID string) (models.Match, models.Round, bool) {
	for _, round := range rounds {
		for _, match := range round.Matches {
			if match.ID == matchID {
				return match, round, true
			}
		}
	}
	return models.Match{}, models.Round{}, false
}
