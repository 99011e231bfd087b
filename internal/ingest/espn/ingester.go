package espn

import (
	"context"
	"fmt"
	"log"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// Source supplies expanded page content per game. The chromedp Client
// is the production implementation; tests substitute fixtures.
type Source interface {
	FetchPlayByPlay(ctx context.Context, externalID string) (*PageContent, error)
	FetchBoxScoreLabels(ctx context.Context, externalID string) ([]string, error)
}

// GameResult summarizes one game's ingestion.
type GameResult struct {
	GameID       int
	ExternalID   string
	CardsSeen    int
	CardsDropped int
	Inserted     int
	Updated      int
	Unchanged    int
	Persisted    int
}

// Ingester drives the per-game pipeline: fetch expanded page content,
// normalize every card, persist the batch.
type Ingester struct {
	source     Source
	normalizer *Normalizer
	resolver   *Resolver
	splitter   *Splitter
	plays      *repository.PlayRepository
	sections   *repository.SectionRepository
	logger     *log.Logger
}

// NewIngester constructs an ingester over the given database and
// content source.
func NewIngester(db *store.Database, source Source, table *TeamTable) *Ingester {
	return &Ingester{
		source:     source,
		normalizer: NewNormalizer(),
		resolver:   NewResolver(table),
		splitter:   NewSplitter(),
		plays:      repository.NewPlayRepository(db),
		sections:   repository.NewSectionRepository(db),
		logger:     log.New(log.Writer(), "[ingest] ", log.LstdFlags),
	}
}

// Fetch retrieves the expanded play-by-play page for a game.
func (i *Ingester) Fetch(ctx context.Context, game *store.Game) (*PageContent, error) {
	content, err := i.source.FetchPlayByPlay(ctx, game.ExternalID)
	if err != nil {
		return nil, err
	}
	if len(content.Cards) == 0 {
		return nil, fmt.Errorf("no play cards found for game %s", game.ExternalID)
	}
	return content, nil
}

// NormalizeCards runs every raw card through the normalizer. Cards
// that fail the minimum clock/quarter bar are dropped and counted;
// successfully normalized plays are numbered sequentially, 1-based, in
// page order.
func (i *Ingester) NormalizeCards(game *store.Game, content *PageContent) (plays []*store.Play, dropped int) {
	for _, card := range content.Cards {
		play := i.normalizer.Normalize(card)
		if play == nil {
			dropped++
			continue
		}
		play.GameID = game.GameID
		play.PlayNumber = len(plays) + 1
		plays = append(plays, play)
	}
	return plays, dropped
}

// Persist upserts all normalized plays for a game as a single logical
// unit, then re-checks the stored play count so callers can judge
// success independently of partial failures.
func (i *Ingester) Persist(ctx context.Context, game *store.Game, plays []*store.Play) (*repository.BatchResult, error) {
	result, err := i.plays.UpsertBatch(ctx, plays)
	if err != nil {
		return nil, fmt.Errorf("persisting plays for game %s: %w", game.ExternalID, err)
	}

	count, err := i.plays.CountByGame(ctx, game.GameID)
	if err != nil {
		return nil, fmt.Errorf("re-checking play count for game %s: %w", game.ExternalID, err)
	}
	result.Persisted = count

	return result, nil
}

// IngestGame runs the full pipeline for one game.
func (i *Ingester) IngestGame(ctx context.Context, game *store.Game) (*GameResult, error) {
	content, err := i.Fetch(ctx, game)
	if err != nil {
		return nil, err
	}

	plays, dropped := i.NormalizeCards(game, content)
	i.logger.Printf("game %s: %d cards, %d normalized, %d dropped",
		game.ExternalID, len(content.Cards), len(plays), dropped)

	if len(plays) == 0 {
		return nil, fmt.Errorf("game %s: no plays survived normalization (%d cards)", game.ExternalID, len(content.Cards))
	}

	batch, err := i.Persist(ctx, game, plays)
	if err != nil {
		return nil, err
	}
	if batch.Persisted == 0 {
		return nil, fmt.Errorf("game %s: zero plays persisted", game.ExternalID)
	}

	return &GameResult{
		GameID:       game.GameID,
		ExternalID:   game.ExternalID,
		CardsSeen:    len(content.Cards),
		CardsDropped: dropped,
		Inserted:     batch.Inserted,
		Updated:      batch.Updated,
		Unchanged:    batch.Unchanged,
		Persisted:    batch.Persisted,
	}, nil
}

// IngestBoxScore fetches a game's box score section labels, splits
// each into (team, category), resolves the team token against the
// game context, and records the resulting sections. Provisional
// resolutions are persisted too; their method tag lets a later audit
// find them.
func (i *Ingester) IngestBoxScore(ctx context.Context, game *store.Game) (int, error) {
	labels, err := i.source.FetchBoxScoreLabels(ctx, game.ExternalID)
	if err != nil {
		return 0, err
	}

	gameCtx := GameContext{Home: game.HomeTeam, Away: game.AwayTeam}

	stored := 0
	for _, label := range labels {
		teamName, category, ok := i.splitter.Split(label)
		if !ok {
			i.logger.Printf("game %s: unsplittable section label %q", game.ExternalID, label)
			continue
		}

		resolved := i.resolver.Resolve(TeamToken{Raw: teamName, Context: label}, gameCtx)
		if resolved.Provisional() {
			i.logger.Printf("game %s: provisional team %q -> %s", game.ExternalID, teamName, resolved.Code)
		}

		section := &store.StatSection{
			GameID:           game.GameID,
			TeamCode:         resolved.Code,
			Category:         category,
			SourceLabel:      label,
			ResolutionMethod: string(resolved.Method),
		}
		if err := i.sections.Upsert(ctx, section); err != nil {
			return stored, fmt.Errorf("storing section %q for game %s: %w", label, game.ExternalID, err)
		}
		stored++
	}

	return stored, nil
}
