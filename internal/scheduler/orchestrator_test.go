package scheduler

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/fortuna/gridiron/internal/ingest/espn"
	"github.com/fortuna/gridiron/internal/store"
)

type fakeSource struct {
	content *espn.PageContent
	err     error
	calls   int
}

func (f *fakeSource) FetchPlayByPlay(ctx context.Context, externalID string) (*espn.PageContent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

func (f *fakeSource) FetchBoxScoreLabels(ctx context.Context, externalID string) ([]string, error) {
	return nil, nil
}

func testOrchestrator(source espn.Source, config *Config) *Orchestrator {
	return &Orchestrator{
		ingester: espn.NewIngester(nil, source, espn.DefaultTeamTable()),
		config:   config,
		limiter:  rate.NewLimiter(rate.Inf, 1),
		logger:   log.New(log.Writer(), "[scheduler] ", log.LstdFlags),
	}
}

func TestIngestGameFailsInFetchingState(t *testing.T) {
	source := &fakeSource{err: errors.New("page timed out")}
	config := DefaultConfig()
	config.MaxRetries = 3
	config.RetryDelay = time.Millisecond
	config.IngestBoxScores = false

	o := testOrchestrator(source, config)

	report := o.ingestGame(context.Background(), &store.Game{GameID: 9, ExternalID: "401547321"})

	assert.Equal(t, StateFetching, report.State)
	require.Error(t, report.Err)
	assert.Equal(t, 3, source.calls)
}

func TestIngestGameAllCardsDroppedFails(t *testing.T) {
	// Every card is noise, so nothing is persisted: the game must end
	// failed and stay pending for a future sweep, not be marked done.
	source := &fakeSource{content: &espn.PageContent{
		Cards: []espn.RawCard{
			{Lines: []string{"End of Quarter", "End of 1st Quarter"}},
			{Lines: []string{"Timeout"}},
		},
	}}
	config := DefaultConfig()
	config.IngestBoxScores = false

	o := testOrchestrator(source, config)

	report := o.ingestGame(context.Background(), &store.Game{GameID: 9, ExternalID: "401547321"})

	assert.Equal(t, StateFailed, report.State)
	require.Error(t, report.Err)
	require.NotNil(t, report.Result)
	assert.Equal(t, 2, report.Result.CardsSeen)
	assert.Equal(t, 2, report.Result.CardsDropped)
	assert.Equal(t, 0, report.Result.Persisted)
}

func TestFetchWithRetryStopsOnSuccess(t *testing.T) {
	source := &fakeSource{content: &espn.PageContent{
		Cards: []espn.RawCard{{Lines: []string{"Kickoff", "15:00 - 1st", "kick"}}},
	}}
	config := DefaultConfig()
	config.MaxRetries = 3

	o := testOrchestrator(source, config)

	content, err := o.fetchWithRetry(context.Background(), &store.Game{ExternalID: "401547321"})
	require.NoError(t, err)
	assert.Len(t, content.Cards, 1)
	assert.Equal(t, 1, source.calls)
}
