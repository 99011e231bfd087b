package espn

import (
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/gridiron/internal/store"
)

type fakeSource struct {
	content *PageContent
	labels  []string
	err     error
}

func (f *fakeSource) FetchPlayByPlay(ctx context.Context, externalID string) (*PageContent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

func (f *fakeSource) FetchBoxScoreLabels(ctx context.Context, externalID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.labels, nil
}

func newTestIngester(source Source) *Ingester {
	return &Ingester{
		source:     source,
		normalizer: NewNormalizer(),
		resolver:   NewResolver(DefaultTeamTable()),
		splitter:   NewSplitter(),
		logger:     log.New(log.Writer(), "[ingest] ", log.LstdFlags),
	}
}

func TestFetchRejectsEmptyPage(t *testing.T) {
	ing := newTestIngester(&fakeSource{content: &PageContent{}})

	_, err := ing.Fetch(context.Background(), &store.Game{ExternalID: "401547321"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no play cards")
}

func TestIngestGameErrorsWhenNoPlaysSurvive(t *testing.T) {
	// Zero persisted plays is a failed ingestion: callers must see an
	// error so the game stays pending instead of reporting done.
	ing := newTestIngester(&fakeSource{content: &PageContent{
		Cards: []RawCard{
			{Lines: []string{"End of Quarter", "End of 1st Quarter"}},
			{Lines: []string{"Timeout"}},
		},
	}})

	result, err := ing.IngestGame(context.Background(), &store.Game{GameID: 9, ExternalID: "401547321"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "no plays survived normalization")
}

func TestNormalizeCardsNumbersSequentially(t *testing.T) {
	ing := newTestIngester(&fakeSource{})

	game := &store.Game{GameID: 17}
	content := &PageContent{
		Cards: []RawCard{
			{SequenceIndex: 0, Lines: []string{"Kickoff", "15:00 - 1st", "T.Bass kicks 65 yards, touchback."}},
			{SequenceIndex: 1, Lines: []string{"End of Quarter", "End of 1st Quarter"}},
			{SequenceIndex: 2, Lines: []string{"4-yd Run", "14:21 - 1st", "J.Cook left end for 4 yards (Q.Williams)"}},
			{SequenceIndex: 3, Lines: []string{"Timeout"}},
			{SequenceIndex: 4, Lines: []string{"6-yd Pass", "13:40 - 1st", "J.Allen pass to D.Kincaid for 6 yards"}},
		},
	}

	plays, dropped := ing.NormalizeCards(game, content)

	require.Len(t, plays, 3)
	assert.Equal(t, 2, dropped)

	// Numbering is contiguous over the surviving plays, not the raw
	// card positions.
	for i, play := range plays {
		assert.Equal(t, i+1, play.PlayNumber)
		assert.Equal(t, 17, play.GameID)
	}
}
