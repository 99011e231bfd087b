package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/ingest/espn"
	"github.com/fortuna/gridiron/internal/publisher"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// GameState tracks where one game is in the ingestion pipeline.
type GameState string

const (
	StatePending     GameState = "pending"
	StateFetching    GameState = "fetching"
	StateNormalizing GameState = "normalizing"
	StatePersisting  GameState = "persisting"
	StateDone        GameState = "done"
	StateFailed      GameState = "failed"
)

// Config holds scheduler configuration
type Config struct {
	SweepHour          int           // Default: 3 (3 AM)
	SweepBatchSize     int           // Max games per sweep run
	RequestsPerMin     int           // Pacing for page fetches
	MaxRetries         int           // Default: 3
	RetryDelay         time.Duration // Default: 5s
	IngestedMarkTTL    time.Duration // How long a game counts as freshly ingested
	EnableNightlySweep bool
	IngestBoxScores    bool
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		SweepHour:          3,
		SweepBatchSize:     50,
		RequestsPerMin:     12,
		MaxRetries:         3,
		RetryDelay:         5 * time.Second,
		IngestedMarkTTL:    20 * time.Hour,
		EnableNightlySweep: true,
		IngestBoxScores:    true,
	}
}

// GameReport is the per-game outcome of a sweep.
type GameReport struct {
	GameID     int
	ExternalID string
	State      GameState
	Result     *espn.GameResult
	Err        error
}

// RunSummary aggregates one sweep's outcomes.
type RunSummary struct {
	Started   time.Time
	Duration  time.Duration
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
	Reports   []GameReport
}

// Orchestrator drives scheduled play-by-play ingestion: it sweeps for
// final games with no stored plays and walks each one through the
// pipeline, pacing page fetches and isolating per-game failures.
type Orchestrator struct {
	games     *repository.GameRepository
	ingester  *espn.Ingester
	cache     *cache.RedisCache
	publisher *publisher.RedisStreamPublisher
	config    *Config
	limiter   *rate.Limiter
	logger    *log.Logger
	cancel    context.CancelFunc
}

// NewOrchestrator creates a new scheduler orchestrator
func NewOrchestrator(db *store.Database, ingester *espn.Ingester, redisCache *cache.RedisCache, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}

	return &Orchestrator{
		games:     repository.NewGameRepository(db),
		ingester:  ingester,
		cache:     redisCache,
		publisher: publisher.NewRedisStreamPublisher(redisCache.Client()),
		config:    config,
		limiter:   rate.NewLimiter(rate.Limit(float64(config.RequestsPerMin)/60.0), 1),
		logger:    log.New(log.Writer(), "[scheduler] ", log.LstdFlags),
	}
}

// Start runs the nightly sweep loop until the context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	o.logger.Printf("nightly sweep: %v (at %02d:00, batch %d, %d req/min)",
		o.config.EnableNightlySweep, o.config.SweepHour, o.config.SweepBatchSize, o.config.RequestsPerMin)

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	if !o.config.EnableNightlySweep {
		<-ctx.Done()
		return
	}

	for {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), o.config.SweepHour, 0, 0, 0, now.Location())
		if now.After(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		o.logger.Printf("next sweep: %s (in %v)",
			nextRun.Format("2006-01-02 15:04:05"), time.Until(nextRun).Round(time.Second))

		select {
		case <-ctx.Done():
			o.logger.Println("sweep loop stopped")
			return
		case <-time.After(time.Until(nextRun)):
			summary, err := o.RunOnce(ctx)
			if err != nil {
				o.logger.Printf("❌ sweep failed: %v", err)
				continue
			}
			o.logger.Printf("✓ sweep done in %v: %d attempted, %d ok, %d failed, %d skipped",
				summary.Duration.Round(time.Second), summary.Attempted,
				summary.Succeeded, summary.Failed, summary.Skipped)
		}
	}
}

// Stop gracefully stops the scheduler
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
}

// RunOnce performs one sweep: query pending games, ingest each. A
// game's failure is recorded and the sweep moves on.
func (o *Orchestrator) RunOnce(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{Started: time.Now()}

	games, err := o.games.GetPendingGames(ctx, o.config.SweepBatchSize)
	if err != nil {
		return nil, err
	}
	o.logger.Printf("sweep: %d pending games", len(games))

	for _, game := range games {
		if ctx.Err() != nil {
			break
		}

		if o.cache != nil {
			recent, err := o.cache.WasGameIngested(ctx, game.GameID)
			if err != nil {
				o.logger.Printf("⚠️  cache check for game %s: %v", game.ExternalID, err)
			} else if recent {
				summary.Skipped++
				continue
			}
		}

		summary.Attempted++
		report := o.ingestGame(ctx, game)
		summary.Reports = append(summary.Reports, report)

		if report.State == StateDone {
			summary.Succeeded++
		} else {
			summary.Failed++
			o.logger.Printf("❌ game %s failed while %s: %v", game.ExternalID, report.State, report.Err)
			if o.cache != nil {
				// Drop any stale fresh-mark so the next sweep retries.
				if err := o.cache.ClearGameIngested(ctx, game.GameID); err != nil {
					o.logger.Printf("⚠️  cache clear for game %s: %v", game.ExternalID, err)
				}
			}
		}
	}

	summary.Duration = time.Since(summary.Started)
	return summary, nil
}

// ingestGame walks a single game through the pipeline states. The
// returned report carries the state the game ended in; on failure
// that is the stage that broke.
func (o *Orchestrator) ingestGame(ctx context.Context, game *store.Game) GameReport {
	report := GameReport{GameID: game.GameID, ExternalID: game.ExternalID, State: StatePending}

	content, err := o.fetchWithRetry(ctx, game)
	if err != nil {
		report.State = StateFetching
		report.Err = err
		return report
	}

	report.State = StateNormalizing
	plays, dropped := o.ingester.NormalizeCards(game, content)
	o.logger.Printf("game %s: %d cards, %d normalized, %d dropped",
		game.ExternalID, len(content.Cards), len(plays), dropped)

	result := &espn.GameResult{
		GameID:       game.GameID,
		ExternalID:   game.ExternalID,
		CardsSeen:    len(content.Cards),
		CardsDropped: dropped,
	}

	if len(plays) == 0 {
		// Nothing persisted means the game was not ingested: it stays
		// pending and gets no cache mark or stream event.
		report.State = StateFailed
		report.Result = result
		report.Err = fmt.Errorf("game %s: no plays survived normalization (%d cards)", game.ExternalID, len(content.Cards))
		return report
	}

	report.State = StatePersisting
	batch, err := o.ingester.Persist(ctx, game, plays)
	if err != nil {
		report.Err = err
		return report
	}
	result.Inserted = batch.Inserted
	result.Updated = batch.Updated
	result.Unchanged = batch.Unchanged
	result.Persisted = batch.Persisted

	if result.Persisted == 0 {
		report.State = StateFailed
		report.Result = result
		report.Err = fmt.Errorf("game %s: zero plays persisted", game.ExternalID)
		return report
	}

	if o.config.IngestBoxScores {
		if _, err := o.ingester.IngestBoxScore(ctx, game); err != nil {
			// Box score trouble never fails a game whose plays landed.
			o.logger.Printf("⚠️  game %s: box score ingestion: %v", game.ExternalID, err)
		}
	}

	o.finishGame(ctx, game, result)

	report.State = StateDone
	report.Result = result
	return report
}

// fetchWithRetry paces and retries the page fetch, the flakiest stage.
func (o *Orchestrator) fetchWithRetry(ctx context.Context, game *store.Game) (*espn.PageContent, error) {
	var content *espn.PageContent
	var err error

	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		content, err = o.ingester.Fetch(ctx, game)
		if err == nil {
			return content, nil
		}

		o.logger.Printf("⚠️  game %s: fetch attempt %d/%d failed: %v",
			game.ExternalID, attempt, o.config.MaxRetries, err)

		if attempt < o.config.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.config.RetryDelay):
			}
		}
	}
	return nil, err
}

// finishGame records side effects of a completed game: the cache
// marker and the stream event. Neither can fail the game.
func (o *Orchestrator) finishGame(ctx context.Context, game *store.Game, result *espn.GameResult) {
	if o.cache != nil {
		if err := o.cache.MarkGameIngested(ctx, game.GameID, o.config.IngestedMarkTTL); err != nil {
			o.logger.Printf("⚠️  game %s: cache mark: %v", game.ExternalID, err)
		}
	}

	if o.publisher != nil {
		event := publisher.GameIngestedEvent{
			GameID:       result.GameID,
			ExternalID:   result.ExternalID,
			PlaysStored:  result.Persisted,
			CardsSeen:    result.CardsSeen,
			CardsDropped: result.CardsDropped,
		}
		if err := o.publisher.PublishGameIngested(ctx, event); err != nil {
			o.logger.Printf("⚠️  game %s: publish: %v", game.ExternalID, err)
		}
	}
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"nightly_sweep_enabled": o.config.EnableNightlySweep,
		"sweep_hour":            o.config.SweepHour,
		"sweep_batch_size":      o.config.SweepBatchSize,
		"requests_per_min":      o.config.RequestsPerMin,
		"box_scores_enabled":    o.config.IngestBoxScores,
	}
}
