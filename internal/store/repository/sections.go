package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// SectionRepository handles box-score stat section data access
type SectionRepository struct {
	db *store.Database
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(db *store.Database) *SectionRepository {
	return &SectionRepository{db: db}
}

// Upsert writes one stat section keyed by (game_id, team_code, category).
// Re-ingesting a box score refreshes the source label and resolution
// method, which may improve once a provisional team code is corrected.
func (r *SectionRepository) Upsert(ctx context.Context, section *store.StatSection) error {
	query := `
		INSERT INTO stat_sections (game_id, team_code, category, source_label, resolution_method)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id, team_code, category) DO UPDATE SET
			source_label = EXCLUDED.source_label,
			resolution_method = EXCLUDED.resolution_method
		RETURNING id
	`
	err := r.db.DB().QueryRowContext(ctx, query,
		section.GameID, section.TeamCode, section.Category,
		section.SourceLabel, section.ResolutionMethod,
	).Scan(&section.ID)
	if err != nil {
		return fmt.Errorf("upserting stat section: %w", err)
	}
	return nil
}

// GetByGame returns all stat sections recorded for a game.
func (r *SectionRepository) GetByGame(ctx context.Context, gameID int) ([]*store.StatSection, error) {
	query := `
		SELECT id, game_id, team_code, category, source_label, resolution_method, created_at
		FROM stat_sections WHERE game_id = $1 ORDER BY team_code, category
	`
	rows, err := r.db.DB().QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying stat sections: %w", err)
	}
	defer rows.Close()

	var sections []*store.StatSection
	for rows.Next() {
		section := &store.StatSection{}
		err := rows.Scan(
			&section.ID, &section.GameID, &section.TeamCode, &section.Category,
			&section.SourceLabel, &section.ResolutionMethod, &section.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stat section: %w", err)
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}
