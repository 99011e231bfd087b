package espn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKnownCategories(t *testing.T) {
	s := NewSplitter()

	tests := []struct {
		label    string
		team     string
		category string
	}{
		{"New York Giants Passing", "New York Giants", "passing"},
		{"Las Vegas Raiders Kick Returns", "Las Vegas Raiders", "kick_returns"},
		{"Buffalo Punt Returns", "Buffalo", "punt_returns"},
		{"Dallas Cowboys Defensive", "Dallas Cowboys", "defensive"},
		{"Seattle Seahawks Interceptions", "Seattle Seahawks", "interceptions"},
		{"Green Bay Packers Rushing", "Green Bay Packers", "rushing"},
		{"  Miami Dolphins Kicking  ", "Miami Dolphins", "kicking"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			team, category, ok := s.Split(tt.label)
			require.True(t, ok)
			assert.Equal(t, tt.team, team)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestSplitMultiWordKeywordBeatsLastWord(t *testing.T) {
	s := NewSplitter()

	// "Kick Returns" must come off whole; splitting on the last word
	// would leave "Kick" glued to the team name.
	team, category, ok := s.Split("Kansas City Chiefs Kick Returns")
	require.True(t, ok)
	assert.Equal(t, "Kansas City Chiefs", team)
	assert.Equal(t, "kick_returns", category)
}

func TestSplitUnknownCategoryFallsBackToLastWord(t *testing.T) {
	s := NewSplitter()

	team, category, ok := s.Split("Denver Broncos Huddles")
	require.True(t, ok)
	assert.Equal(t, "Denver Broncos", team)
	assert.Equal(t, "huddles", category)
}

func TestSplitRejectsSingleWord(t *testing.T) {
	s := NewSplitter()

	_, _, ok := s.Split("Passing")
	assert.False(t, ok)
}
