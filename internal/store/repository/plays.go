package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// UpsertOutcome reports what an upsert did to the stored row.
type UpsertOutcome string

const (
	OutcomeInserted  UpsertOutcome = "inserted"
	OutcomeUpdated   UpsertOutcome = "updated"
	OutcomeUnchanged UpsertOutcome = "unchanged"
)

// BatchResult summarizes one game's batch write.
type BatchResult struct {
	Inserted  int
	Updated   int
	Unchanged int
	Persisted int
}

// PlayRepository handles play data access
type PlayRepository struct {
	db *store.Database
}

// NewPlayRepository creates a new play repository
func NewPlayRepository(db *store.Database) *PlayRepository {
	return &PlayRepository{db: db}
}

const playColumns = `id, game_id, play_number, quarter, clock, down, distance,
	field_side, yard_line, category, yards_gained,
	touchdown, turnover, penalty, scoring, participants, raw_text,
	created_at, updated_at`

// GetByKey finds a play by its (gameID, playNumber) key. Returns
// (nil, nil) when no row exists.
func (r *PlayRepository) GetByKey(ctx context.Context, gameID, playNumber int) (*store.Play, error) {
	query := fmt.Sprintf(`SELECT %s FROM plays WHERE game_id = $1 AND play_number = $2`, playColumns)

	play, err := scanPlay(r.db.DB().QueryRowContext(ctx, query, gameID, playNumber))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying play: %w", err)
	}
	return play, nil
}

// GetByGame returns all plays for a game in play-number order.
func (r *PlayRepository) GetByGame(ctx context.Context, gameID int) ([]*store.Play, error) {
	query := fmt.Sprintf(`SELECT %s FROM plays WHERE game_id = $1 ORDER BY play_number`, playColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying plays: %w", err)
	}
	defer rows.Close()

	var plays []*store.Play
	for rows.Next() {
		play, err := scanPlay(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning play: %w", err)
		}
		plays = append(plays, play)
	}
	return plays, rows.Err()
}

// CountByGame returns the number of stored plays for a game.
func (r *PlayRepository) CountByGame(ctx context.Context, gameID int) (int, error) {
	var count int
	err := r.db.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM plays WHERE game_id = $1`, gameID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting plays: %w", err)
	}
	return count, nil
}

// Upsert writes one play under the most-complete-wins merge rule and
// reports whether the row was inserted, updated, or left unchanged.
func (r *PlayRepository) Upsert(ctx context.Context, play *store.Play) (UpsertOutcome, error) {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback()

	outcome, err := upsertInTx(ctx, tx, play)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing upsert: %w", err)
	}
	return outcome, nil
}

// UpsertBatch writes all plays for one game as a single transaction.
// A failure rolls the whole batch back so a partially-written game is
// never half-visible.
func (r *PlayRepository) UpsertBatch(ctx context.Context, plays []*store.Play) (*BatchResult, error) {
	result := &BatchResult{}
	if len(plays) == 0 {
		return result, nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch: %w", err)
	}
	defer tx.Rollback()

	for _, play := range plays {
		outcome, err := upsertInTx(ctx, tx, play)
		if err != nil {
			return nil, fmt.Errorf("play %d: %w", play.PlayNumber, err)
		}
		switch outcome {
		case OutcomeInserted:
			result.Inserted++
		case OutcomeUpdated:
			result.Updated++
		case OutcomeUnchanged:
			result.Unchanged++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing batch: %w", err)
	}
	return result, nil
}

// upsertInTx locks the existing row, merges the incoming candidate
// into it, and writes only when the merge actually changed something.
func upsertInTx(ctx context.Context, tx *sql.Tx, play *store.Play) (UpsertOutcome, error) {
	query := fmt.Sprintf(`SELECT %s FROM plays WHERE game_id = $1 AND play_number = $2 FOR UPDATE`, playColumns)

	existing, err := scanPlay(tx.QueryRowContext(ctx, query, play.GameID, play.PlayNumber))
	if err == sql.ErrNoRows {
		if err := insertPlay(ctx, tx, play); err != nil {
			return "", err
		}
		return OutcomeInserted, nil
	}
	if err != nil {
		return "", fmt.Errorf("locking play row: %w", err)
	}

	merged, changed := mergePlays(existing, play)
	if !changed {
		return OutcomeUnchanged, nil
	}

	if err := updatePlay(ctx, tx, merged); err != nil {
		return "", err
	}
	return OutcomeUpdated, nil
}

func insertPlay(ctx context.Context, tx *sql.Tx, play *store.Play) error {
	query := `
		INSERT INTO plays (game_id, play_number, quarter, clock, down, distance,
			field_side, yard_line, category, yards_gained,
			touchdown, turnover, penalty, scoring, participants, raw_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err := tx.QueryRowContext(ctx, query,
		play.GameID, play.PlayNumber, play.Quarter, play.Clock, play.Down, play.Distance,
		play.FieldSide, play.YardLine, play.Category, play.YardsGained,
		play.Touchdown, play.Turnover, play.Penalty, play.Scoring,
		play.Participants, play.RawText,
	).Scan(&play.ID)
	if err != nil {
		return fmt.Errorf("inserting play: %w", err)
	}
	return nil
}

func updatePlay(ctx context.Context, tx *sql.Tx, play *store.Play) error {
	query := `
		UPDATE plays SET quarter = $3, clock = $4, down = $5, distance = $6,
			field_side = $7, yard_line = $8, category = $9, yards_gained = $10,
			touchdown = $11, turnover = $12, penalty = $13, scoring = $14,
			participants = $15, raw_text = $16, updated_at = NOW()
		WHERE game_id = $1 AND play_number = $2
	`
	_, err := tx.ExecContext(ctx, query,
		play.GameID, play.PlayNumber, play.Quarter, play.Clock, play.Down, play.Distance,
		play.FieldSide, play.YardLine, play.Category, play.YardsGained,
		play.Touchdown, play.Turnover, play.Penalty, play.Scoring,
		play.Participants, play.RawText,
	)
	if err != nil {
		return fmt.Errorf("updating play: %w", err)
	}
	return nil
}

// mergePlays merges an incoming parse into the existing stored record
// under the gap-filling rule: a populated field is never replaced, a
// null one is filled when the incoming parse carries it. Flags only
// ever gain; the category upgrades away from "other"; the participant
// list is replaced only by a strictly more complete one. Returns the
// merged record and whether anything changed.
func mergePlays(existing, incoming *store.Play) (*store.Play, bool) {
	merged := *existing
	changed := false

	if !merged.Down.Valid && incoming.Down.Valid {
		merged.Down = incoming.Down
		changed = true
	}
	if !merged.Distance.Valid && incoming.Distance.Valid {
		merged.Distance = incoming.Distance
		changed = true
	}
	if !merged.FieldSide.Valid && incoming.FieldSide.Valid {
		merged.FieldSide = incoming.FieldSide
		changed = true
	}
	if !merged.YardLine.Valid && incoming.YardLine.Valid {
		merged.YardLine = incoming.YardLine
		changed = true
	}
	if !merged.YardsGained.Valid && incoming.YardsGained.Valid {
		merged.YardsGained = incoming.YardsGained
		changed = true
	}

	if merged.Category == store.PlayOther && incoming.Category != store.PlayOther && incoming.Category != "" {
		merged.Category = incoming.Category
		changed = true
	}

	if !merged.Touchdown && incoming.Touchdown {
		merged.Touchdown = true
		changed = true
	}
	if !merged.Turnover && incoming.Turnover {
		merged.Turnover = true
		changed = true
	}
	if !merged.Penalty && incoming.Penalty {
		merged.Penalty = true
		changed = true
	}
	if !merged.Scoring && incoming.Scoring {
		merged.Scoring = true
		changed = true
	}

	if len(incoming.Participants) > len(merged.Participants) {
		merged.Participants = incoming.Participants
		changed = true
	}

	if merged.RawText == "" && incoming.RawText != "" {
		merged.RawText = incoming.RawText
		changed = true
	}

	return &merged, changed
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlay(row rowScanner) (*store.Play, error) {
	play := &store.Play{}
	err := row.Scan(
		&play.ID, &play.GameID, &play.PlayNumber, &play.Quarter, &play.Clock,
		&play.Down, &play.Distance, &play.FieldSide, &play.YardLine,
		&play.Category, &play.YardsGained,
		&play.Touchdown, &play.Turnover, &play.Penalty, &play.Scoring,
		&play.Participants, &play.RawText,
		&play.CreatedAt, &play.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return play, nil
}
