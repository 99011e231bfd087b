package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// GameRepository handles game data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `game_id, sport, external_id, season, week, game_date,
	home_team, away_team, home_score, away_score, status, venue,
	created_at, updated_at`

// GetPendingGames returns final games that have no stored plays yet —
// the sweep's work queue.
func (r *GameRepository) GetPendingGames(ctx context.Context, limit int) ([]*store.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games g
		WHERE status = 'final'
		  AND NOT EXISTS (SELECT 1 FROM plays p WHERE p.game_id = g.game_id)
		ORDER BY game_date
		LIMIT $1
	`, gameColumns)

	return r.queryGames(ctx, query, limit)
}

// GetByID finds a game by its primary key. Returns (nil, nil) when
// no row exists.
func (r *GameRepository) GetByID(ctx context.Context, gameID int) (*store.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE game_id = $1`, gameColumns)

	game, err := scanGame(r.db.DB().QueryRowContext(ctx, query, gameID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}
	return game, nil
}

// GetByExternalID finds a game by its source identifier.
func (r *GameRepository) GetByExternalID(ctx context.Context, sport, externalID string) (*store.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE sport = $1 AND external_id = $2`, gameColumns)

	game, err := scanGame(r.db.DB().QueryRowContext(ctx, query, sport, externalID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying game by external id: %w", err)
	}
	return game, nil
}

// GetBySeasonWeek returns all games in one season week.
func (r *GameRepository) GetBySeasonWeek(ctx context.Context, season, week int) ([]*store.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games WHERE season = $1 AND week = $2 ORDER BY game_date
	`, gameColumns)

	return r.queryGames(ctx, query, season, week)
}

// GetBySeason returns all games in one season.
func (r *GameRepository) GetBySeason(ctx context.Context, season int) ([]*store.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE season = $1 ORDER BY game_date`, gameColumns)

	return r.queryGames(ctx, query, season)
}

// Upsert inserts or refreshes a game keyed by (sport, external_id) and
// fills in the stored game_id.
func (r *GameRepository) Upsert(ctx context.Context, game *store.Game) error {
	query := `
		INSERT INTO games (sport, external_id, season, week, game_date,
			home_team, away_team, home_score, away_score, status, venue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (sport, external_id) DO UPDATE SET
			season = EXCLUDED.season,
			week = EXCLUDED.week,
			game_date = EXCLUDED.game_date,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			status = EXCLUDED.status,
			venue = EXCLUDED.venue,
			updated_at = NOW()
		RETURNING game_id
	`
	err := r.db.DB().QueryRowContext(ctx, query,
		game.Sport, game.ExternalID, game.Season, game.Week, game.GameDate,
		game.HomeTeam, game.AwayTeam, game.HomeScore, game.AwayScore,
		game.Status, game.Venue,
	).Scan(&game.GameID)
	if err != nil {
		return fmt.Errorf("upserting game: %w", err)
	}
	return nil
}

// MarkStatus updates a game's lifecycle status.
func (r *GameRepository) MarkStatus(ctx context.Context, gameID int, status string) error {
	_, err := r.db.DB().ExecContext(ctx,
		`UPDATE games SET status = $2, updated_at = NOW() WHERE game_id = $1`,
		gameID, status)
	if err != nil {
		return fmt.Errorf("updating game status: %w", err)
	}
	return nil
}

func (r *GameRepository) queryGames(ctx context.Context, query string, args ...interface{}) ([]*store.Game, error) {
	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	var games []*store.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func scanGame(row rowScanner) (*store.Game, error) {
	game := &store.Game{}
	err := row.Scan(
		&game.GameID, &game.Sport, &game.ExternalID, &game.Season, &game.Week,
		&game.GameDate, &game.HomeTeam, &game.AwayTeam,
		&game.HomeScore, &game.AwayScore, &game.Status, &game.Venue,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return game, nil
}
