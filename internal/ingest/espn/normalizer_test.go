package espn

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/gridiron/internal/store"
)

func TestNormalizeCompleteCard(t *testing.T) {
	n := NewNormalizer()

	play := n.Normalize(RawCard{
		GameID:        "401547321",
		SequenceIndex: 4,
		Lines: []string{
			"13-yd Pass",
			"8:53 - 3rd",
			"T.Lawrence pass short right to C.Kirk for 18 yards (D.James)",
			"3rd & 2 at JAX 18",
		},
	})
	require.NotNil(t, play)

	assert.Equal(t, 3, play.Quarter)
	assert.Equal(t, "8:53", play.Clock)
	assert.Equal(t, store.PlayPass, play.Category)

	// Description yardage wins over the header's 13.
	require.True(t, play.YardsGained.Valid)
	assert.Equal(t, int32(18), play.YardsGained.Int32)

	require.True(t, play.Down.Valid)
	assert.Equal(t, int32(3), play.Down.Int32)
	require.True(t, play.Distance.Valid)
	assert.Equal(t, int32(2), play.Distance.Int32)
	require.True(t, play.FieldSide.Valid)
	assert.Equal(t, "JAX", play.FieldSide.String)
	require.True(t, play.YardLine.Valid)
	assert.Equal(t, int32(18), play.YardLine.Int32)

	assert.Equal(t, []string{"T.Lawrence", "C.Kirk", "D.James"}, []string(play.Participants))
	assert.False(t, play.Touchdown)
	assert.False(t, play.Scoring)
}

func TestNormalizeRejectsNonPlayCards(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name  string
		lines []string
	}{
		{"too few lines", []string{"4-yd Run"}},
		{"empty card", nil},
		{"quarter banner instead of clock", []string{"End of Quarter", "End of 3rd Quarter"}},
		{"drive summary", []string{"Jaguars Drive", "7 plays, 75 yards, 3:47"}},
		{"blank lines only", []string{"", "  ", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, n.Normalize(RawCard{Lines: tt.lines}))
		})
	}
}

func TestNormalizeQuarterMapping(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		clockLine string
		quarter   int
		clock     string
	}{
		{"15:00 - 1st", 1, "15:00"},
		{"0:42 - 2nd", 2, "0:42"},
		{"8:53 - 3rd", 3, "8:53"},
		{"2:00 - 4th", 4, "2:00"},
		{"10:00 - OT", 5, "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.clockLine, func(t *testing.T) {
			play := n.Normalize(RawCard{Lines: []string{"4-yd Run", tt.clockLine}})
			require.NotNil(t, play)
			assert.Equal(t, tt.quarter, play.Quarter)
			assert.Equal(t, tt.clock, play.Clock)
		})
	}
}

func TestNormalizeGoalToGoDistance(t *testing.T) {
	n := NewNormalizer()

	play := n.Normalize(RawCard{
		Lines: []string{
			"4-yd Run",
			"2:12 - 4th",
			"J.Taylor up the middle for 4 yards, TOUCHDOWN.",
			"1st & Goal at DET 4",
		},
	})
	require.NotNil(t, play)

	require.True(t, play.Down.Valid)
	assert.Equal(t, int32(1), play.Down.Int32)
	require.True(t, play.Distance.Valid)
	assert.Equal(t, int32(0), play.Distance.Int32)
	assert.True(t, play.Touchdown)
	assert.True(t, play.Scoring)
	assert.Equal(t, store.PlayRush, play.Category)
}

func TestNormalizeDualYardagePrefersGain(t *testing.T) {
	n := NewNormalizer()

	// Punt descriptions carry both the kick distance and the return
	// distance; the return gain is the one that lands in the record.
	play := n.Normalize(RawCard{
		Lines: []string{
			"52-yd Punt",
			"11:07 - 2nd",
			"P.Dixon punts 52 yards to NYG 12, M.Wilson pushed ob at NYG 27 for 15 yards (T.Gill)",
		},
	})
	require.NotNil(t, play)

	assert.Equal(t, store.PlayPunt, play.Category)
	require.True(t, play.YardsGained.Valid)
	assert.Equal(t, int32(15), play.YardsGained.Int32)
}

func TestNormalizeKickDistanceWhenNoGain(t *testing.T) {
	n := NewNormalizer()

	play := n.Normalize(RawCard{
		Lines: []string{
			"Kickoff",
			"15:00 - 1st",
			"J.Tucker kicks 65 yards from BAL 35 to end zone, touchback.",
		},
	})
	require.NotNil(t, play)

	assert.Equal(t, store.PlayKickoff, play.Category)
	require.True(t, play.YardsGained.Valid)
	assert.Equal(t, int32(65), play.YardsGained.Int32)
}

func TestNormalizeSackLoss(t *testing.T) {
	n := NewNormalizer()

	play := n.Normalize(RawCard{
		Lines: []string{
			"Sack",
			"5:31 - 2nd",
			"J.Hurts sacked at PHI 22 for 8 yard loss (M.Parsons)",
		},
	})
	require.NotNil(t, play)

	assert.Equal(t, store.PlaySack, play.Category)
	require.True(t, play.YardsGained.Valid)
	assert.Equal(t, int32(-8), play.YardsGained.Int32)
}

func TestNormalizeHeaderYardageSurvivesWithoutDescriptionYardage(t *testing.T) {
	n := NewNormalizer()

	play := n.Normalize(RawCard{
		Lines: []string{
			"33-yd Field Goal",
			"0:03 - 2nd",
			"J.Elliott 33 Yd Field Goal is GOOD, Center-R.Lovato, Holder-B.Mann.",
		},
	})
	require.NotNil(t, play)

	assert.Equal(t, store.PlayFieldGoal, play.Category)
	require.True(t, play.YardsGained.Valid)
	assert.Equal(t, int32(33), play.YardsGained.Int32)
	assert.True(t, play.Scoring)
}

func TestNormalizeMissedFieldGoalNotScoring(t *testing.T) {
	n := NewNormalizer()

	play := n.Normalize(RawCard{
		Lines: []string{
			"58-yd Field Goal",
			"0:00 - 4th",
			"B.Aubrey 58 Yd Field Goal is No Good, Wide Right.",
		},
	})
	require.NotNil(t, play)

	assert.Equal(t, store.PlayFieldGoal, play.Category)
	assert.False(t, play.Scoring)
}

func TestNormalizeTurnoverFlags(t *testing.T) {
	n := NewNormalizer()

	play := n.Normalize(RawCard{
		Lines: []string{
			"Interception",
			"9:14 - 1st",
			"D.Jones pass deep middle INTERCEPTED by Q.Diggs at SEA 2. Q.Diggs to SEA 14 for 12 yards.",
		},
	})
	require.NotNil(t, play)

	assert.Equal(t, store.PlayPass, play.Category)
	assert.True(t, play.Turnover)
}

func TestNormalizeCategoryFromDescriptionBackstop(t *testing.T) {
	n := NewNormalizer()

	// Header carries no recognizable keyword; the description's
	// direction phrase decides the category.
	play := n.Normalize(RawCard{
		Lines: []string{
			"+7 YDS",
			"12:26 - 1st",
			"D.Henry left tackle to TEN 32 for 7 yards (R.Smith)",
		},
	})
	require.NotNil(t, play)

	assert.Equal(t, store.PlayRush, play.Category)
	require.True(t, play.FieldSide.Valid)
	assert.Equal(t, "TEN", play.FieldSide.String)
	require.True(t, play.YardLine.Valid)
	assert.Equal(t, int32(32), play.YardLine.Int32)
}

func TestNormalizeParticipantsDedupedAndCapped(t *testing.T) {
	n := NewNormalizer()

	play := n.Normalize(RawCard{
		Lines: []string{
			"6-yd Pass",
			"3:20 - 3rd",
			"P.Mahomes pass to T.Kelce for 6 yards. P.Mahomes scrambles. (N.Bolton, D.Sorensen, J.Reid)",
		},
	})
	require.NotNil(t, play)

	assert.Len(t, play.Participants, 3)
	assert.Equal(t, []string{"P.Mahomes", "T.Kelce", "N.Bolton"}, []string(play.Participants))
}

func TestNormalizeRawTextTruncated(t *testing.T) {
	n := NewNormalizer()

	long := make([]byte, 900)
	for i := range long {
		long[i] = 'x'
	}

	play := n.Normalize(RawCard{
		Lines: []string{"4-yd Run", "7:00 - 1st", string(long)},
	})
	require.NotNil(t, play)
	assert.Len(t, play.RawText, maxRawText)
}

func TestNormalizeTruncationKeepsRunesIntact(t *testing.T) {
	n := NewNormalizer()

	// "é" is two bytes and lands across the truncation boundary;
	// slicing by raw byte index would leave a broken rune at the end.
	desc := strings.Repeat("x", maxRawText-1) + strings.Repeat("é", 20)

	play := n.Normalize(RawCard{
		Lines: []string{"4-yd Run", "7:00 - 1st", desc},
	})
	require.NotNil(t, play)
	assert.True(t, utf8.ValidString(play.RawText))
	assert.LessOrEqual(t, len(play.RawText), maxRawText)
	assert.Equal(t, maxRawText-1, len(play.RawText))
}
