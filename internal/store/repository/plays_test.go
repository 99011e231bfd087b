package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/gridiron/internal/store"
)

func sparsePlay() *store.Play {
	return &store.Play{
		GameID:     1,
		PlayNumber: 5,
		Quarter:    2,
		Clock:      "7:41",
		Category:   store.PlayOther,
	}
}

func fullPlay() *store.Play {
	return &store.Play{
		GameID:       1,
		PlayNumber:   5,
		Quarter:      2,
		Clock:        "7:41",
		Down:         sql.NullInt32{Int32: 3, Valid: true},
		Distance:     sql.NullInt32{Int32: 8, Valid: true},
		FieldSide:    sql.NullString{String: "MIA", Valid: true},
		YardLine:     sql.NullInt32{Int32: 42, Valid: true},
		Category:     store.PlayPass,
		YardsGained:  sql.NullInt32{Int32: 11, Valid: true},
		Touchdown:    true,
		Scoring:      true,
		Participants: []string{"T.Tagovailoa", "T.Hill"},
		RawText:      "T.Tagovailoa pass deep right to T.Hill for 11 yards, TOUCHDOWN",
	}
}

func TestMergePlaysFillsGaps(t *testing.T) {
	merged, changed := mergePlays(sparsePlay(), fullPlay())
	require.True(t, changed)

	assert.Equal(t, int32(3), merged.Down.Int32)
	assert.Equal(t, int32(8), merged.Distance.Int32)
	assert.Equal(t, "MIA", merged.FieldSide.String)
	assert.Equal(t, int32(42), merged.YardLine.Int32)
	assert.Equal(t, store.PlayPass, merged.Category)
	assert.Equal(t, int32(11), merged.YardsGained.Int32)
	assert.True(t, merged.Touchdown)
	assert.True(t, merged.Scoring)
	assert.Equal(t, []string{"T.Tagovailoa", "T.Hill"}, []string(merged.Participants))
	assert.NotEmpty(t, merged.RawText)
}

func TestMergePlaysNeverRegresses(t *testing.T) {
	existing := fullPlay()
	incoming := sparsePlay()

	merged, changed := mergePlays(existing, incoming)
	assert.False(t, changed)

	// A sparse re-parse must not erase anything already known.
	assert.Equal(t, int32(3), merged.Down.Int32)
	assert.Equal(t, store.PlayPass, merged.Category)
	assert.True(t, merged.Touchdown)
	assert.True(t, merged.Scoring)
	assert.Len(t, merged.Participants, 2)
	assert.NotEmpty(t, merged.RawText)
}

func TestMergePlaysPopulatedFieldWins(t *testing.T) {
	existing := fullPlay()
	incoming := fullPlay()
	incoming.YardsGained = sql.NullInt32{Int32: 99, Valid: true}
	incoming.Down = sql.NullInt32{Int32: 1, Valid: true}

	merged, changed := mergePlays(existing, incoming)
	assert.False(t, changed)
	assert.Equal(t, int32(11), merged.YardsGained.Int32)
	assert.Equal(t, int32(3), merged.Down.Int32)
}

func TestMergePlaysFlagsOnlyGain(t *testing.T) {
	existing := sparsePlay()
	existing.Penalty = true

	incoming := sparsePlay()
	incoming.Turnover = true

	merged, changed := mergePlays(existing, incoming)
	require.True(t, changed)
	assert.True(t, merged.Penalty)
	assert.True(t, merged.Turnover)
}

func TestMergePlaysCategoryUpgradesFromOtherOnly(t *testing.T) {
	existing := sparsePlay()
	incoming := sparsePlay()
	incoming.Category = store.PlayRush

	merged, changed := mergePlays(existing, incoming)
	require.True(t, changed)
	assert.Equal(t, store.PlayRush, merged.Category)

	// A second source disagreeing on category does not flip it.
	conflicting := sparsePlay()
	conflicting.Category = store.PlayPass

	merged2, changed2 := mergePlays(merged, conflicting)
	assert.False(t, changed2)
	assert.Equal(t, store.PlayRush, merged2.Category)
}

func TestMergePlaysParticipantsTakeLongerList(t *testing.T) {
	existing := sparsePlay()
	existing.Participants = []string{"J.Allen"}

	incoming := sparsePlay()
	incoming.Participants = []string{"J.Allen", "K.Shakir", "S.Carter"}

	merged, changed := mergePlays(existing, incoming)
	require.True(t, changed)
	assert.Len(t, merged.Participants, 3)

	shorter := sparsePlay()
	shorter.Participants = []string{"K.Shakir"}

	merged2, changed2 := mergePlays(merged, shorter)
	assert.False(t, changed2)
	assert.Len(t, merged2.Participants, 3)
}

func TestMergePlaysIdempotent(t *testing.T) {
	existing := fullPlay()

	merged, changed := mergePlays(existing, fullPlay())
	assert.False(t, changed)
	assert.Equal(t, existing, merged)
}

func TestMergePlaysOrderIndependentForGapFilling(t *testing.T) {
	a := sparsePlay()
	a.Down = sql.NullInt32{Int32: 2, Valid: true}

	b := sparsePlay()
	b.YardsGained = sql.NullInt32{Int32: 6, Valid: true}

	ab, _ := mergePlays(a, b)
	ba, _ := mergePlays(b, a)

	assert.Equal(t, ab.Down, ba.Down)
	assert.Equal(t, ab.YardsGained, ba.YardsGained)
}
