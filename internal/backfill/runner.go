package backfill

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/ingest/espn"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// pendingBatchLimit bounds how many games a single pending-type job claims.
const pendingBatchLimit = 200

// Runner executes backfill specs using the play-by-play ingester.
// Each game is isolated: one game's failure is reported and the job
// moves on to the next.
type Runner struct {
	ingester *espn.Ingester
	games    *repository.GameRepository
}

// NewRunner constructs a runner over the given ingester.
func NewRunner(db *store.Database, ingester *espn.Ingester) *Runner {
	return &Runner{
		ingester: ingester,
		games:    repository.NewGameRepository(db),
	}
}

// Run executes the job spec, reporting progress via the Reporter if provided.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if reporter != nil {
		reporter.OnJobStart(spec)
	}

	games, err := r.resolveGames(ctx, spec)
	if err != nil {
		if reporter != nil {
			reporter.OnJobError(err)
		}
		return err
	}

	if len(games) == 0 {
		if reporter != nil {
			reporter.OnProgress("No games to process", 0, 0)
			reporter.OnJobComplete()
		}
		return nil
	}

	if spec.DryRun {
		if reporter != nil {
			reporter.OnProgress(fmt.Sprintf("Dry-run: %d games matched, nothing written", len(games)), 0, len(games))
			reporter.OnJobComplete()
		}
		return nil
	}

	total := len(games)
	failures := 0
	for idx, game := range games {
		if err := ctx.Err(); err != nil {
			return err
		}

		if reporter != nil {
			reporter.OnGameStart(game.ExternalID, idx, total)
		}

		result, err := r.ingester.IngestGame(ctx, game)
		if err != nil {
			failures++
			if reporter != nil {
				reporter.OnGameFailed(game.ExternalID, err)
			}
			continue
		}

		if reporter != nil {
			reporter.OnGameDone(game.ExternalID, result.Persisted)
			reporter.OnProgress(fmt.Sprintf("Game %s complete (%d/%d)", game.ExternalID, idx+1, total), idx+1, total)
		}
	}

	if failures == total {
		err := fmt.Errorf("all %d games failed", total)
		if reporter != nil {
			reporter.OnJobError(err)
		}
		return err
	}

	if reporter != nil {
		reporter.OnJobComplete()
	}

	return nil
}

// resolveGames turns a spec into the concrete list of games to ingest.
func (r *Runner) resolveGames(ctx context.Context, spec JobSpec) ([]*store.Game, error) {
	switch spec.Type {
	case JobTypeGame:
		if len(spec.GameIDs) == 0 {
			return nil, fmt.Errorf("no game IDs provided for job type 'game'")
		}
		var games []*store.Game
		for _, externalID := range spec.GameIDs {
			game, err := r.games.GetByExternalID(ctx, "football_nfl", externalID)
			if err != nil {
				return nil, err
			}
			if game == nil {
				return nil, fmt.Errorf("game %s not found", externalID)
			}
			games = append(games, game)
		}
		return games, nil
	case JobTypeWeek:
		return r.games.GetBySeasonWeek(ctx, spec.Season, spec.Week)
	case JobTypeSeason:
		return r.games.GetBySeason(ctx, spec.Season)
	case JobTypePending:
		return r.games.GetPendingGames(ctx, pendingBatchLimit)
	default:
		return nil, fmt.Errorf("unsupported job type %s", spec.Type)
	}
}
