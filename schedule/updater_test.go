package schedule

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunkcat/fixtures/models"
)

func twoRounds() []models.Round {
	return []models.Round{
		{ID: "r1", Number: 1, Matches: []models.Match{
			{ID: "m1", RoundID: "r1", Participant1: strPtr("A"), Participant2: strPtr("B")},
			{ID: "m2", RoundID: "r1", Participant1: strPtr("C"), Participant2: strPtr("D")},
		}},
		{ID: "r2", Number: 2, Matches: []models.Match{
			{ID: "m3", RoundID: "r2", Participant1: strPtr("A"), Participant2: strPtr("C")},
		}},
	}
}

func TestApplyMatchUpdate_ReplacesInPlace(t *testing.T) {
	rounds := twoRounds()
	before := twoRounds()

	start := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	updated := models.Match{
		ID: "m2", RoundID: "r1",
		Participant1: strPtr("C"), Participant2: strPtr("D"),
		Score:     models.Score{Team1Score: 2, Team2Score: 1},
		StartTime: &start,
	}

	out, applied := ApplyMatchUpdate(rounds, updated)
	require.True(t, applied)
	require.Len(t, out, len(rounds))
	require.Len(t, out[0].Matches, 2)
	assert.Equal(t, "m1", out[0].Matches[0].ID)
	assert.Equal(t, updated, out[0].Matches[1])
	assert.Equal(t, rounds[1], out[1])

	if diff := cmp.Diff(before, rounds); diff != "" {
		t.Errorf("input rounds were mutated (-before +after):\n%s", diff)
	}
}

func TestApplyMatchUpdate_NotCached(t *testing.T) {
	tests := []struct {
		name    string
		updated models.Match
	}{
		{"unknown round", models.Match{ID: "m1", RoundID: "r9"}},
		{"unknown match", models.Match{ID: "m9", RoundID: "r1"}},
		{"match in other round", models.Match{ID: "m3", RoundID: "r1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rounds := twoRounds()
			out, applied := ApplyMatchUpdate(rounds, tt.updated)
			assert.False(t, applied)
			assert.Equal(t, twoRounds(), out)
		})
	}
}

func TestFindMatch(t *testing.T) {
	match, round, ok := FindMatch(twoRounds(), "m3")
	require.True(t, ok)
	assert.Equal(t, "m3", match.ID)
	assert.Equal(t, 2, round.Number)

	_, _, ok = FindMatch(twoRounds(), "missing")
	assert.False(t, ok)
}
