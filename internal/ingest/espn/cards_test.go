package espn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playByPlayFixture = `
<html>
<head><title>Bills 31-10 Jets (Sep 14, 2025) Play-by-Play - ESPN</title></head>
<body>
<section data-testid="prism-LayoutCard-1">
  <div>
    <div>Kickoff</div>
    <div>15:00 - 1st</div>
    <div>T.Bass kicks 65 yards from BUF 35 to end zone, touchback.</div>
  </div>
</section>
<section data-testid="prism-LayoutCard-2">
  <div>
    <div>13-yd Pass</div>
    <div>14:21 - 1st</div>
    <div>J.Allen pass short left to K.Shakir for 13 yards (S.Carter)</div>
    <div>2nd &amp; 7 at BUF 28</div>
  </div>
</section>
<section class="Card">
  <div>
    <div>End of Quarter</div>
    <div>End of 1st Quarter</div>
  </div>
</section>
<section data-testid="prism-LayoutCard-3">
  <div></div>
</section>
</body>
</html>
`

func TestExtractPageContent(t *testing.T) {
	doc, err := ParseHTML(playByPlayFixture)
	require.NoError(t, err)

	content := ExtractPageContent(doc, "401547321", DefaultTeamTable())

	assert.Contains(t, content.Title, "Bills 31-10 Jets")

	// Title mascots in table order: Bills first (away), Jets second.
	assert.Equal(t, "BUF", content.Context.Away)
	assert.Equal(t, "NYJ", content.Context.Home)

	// The empty section yields no card; the banner section does, the
	// normalizer rejects it later.
	require.Len(t, content.Cards, 3)

	assert.Equal(t, "401547321", content.Cards[0].GameID)
	assert.Equal(t, 0, content.Cards[0].SequenceIndex)
	assert.Equal(t, []string{
		"Kickoff",
		"15:00 - 1st",
		"T.Bass kicks 65 yards from BUF 35 to end zone, touchback.",
	}, content.Cards[0].Lines)

	assert.Equal(t, []string{
		"13-yd Pass",
		"14:21 - 1st",
		"J.Allen pass short left to K.Shakir for 13 yards (S.Carter)",
		"2nd & 7 at BUF 28",
	}, content.Cards[1].Lines)
}

func TestExtractPageContentFeedsNormalizer(t *testing.T) {
	doc, err := ParseHTML(playByPlayFixture)
	require.NoError(t, err)

	content := ExtractPageContent(doc, "401547321", DefaultTeamTable())
	n := NewNormalizer()

	var plays int
	for _, card := range content.Cards {
		if n.Normalize(card) != nil {
			plays++
		}
	}

	// The quarter banner is rejected; the two real plays survive.
	assert.Equal(t, 2, plays)
}

const boxScoreFixture = `
<html>
<body>
<div data-testid="teamTitle"><div class="TeamTitle__Name">New York Jets Passing</div></div>
<div data-testid="teamTitle"><div class="TeamTitle__Name">Buffalo Bills Passing</div></div>
<div data-testid="teamTitle"><div class="TeamTitle__Name">New York Jets Passing</div></div>
<div data-testid="teamTitle"><div class="TeamTitle__Name">Buffalo Bills Kick Returns</div></div>
</body>
</html>
`

func TestExtractTeamTitles(t *testing.T) {
	doc, err := ParseHTML(boxScoreFixture)
	require.NoError(t, err)

	labels := ExtractTeamTitles(doc)
	assert.Equal(t, []string{
		"New York Jets Passing",
		"Buffalo Bills Passing",
		"Buffalo Bills Kick Returns",
	}, labels)
}
