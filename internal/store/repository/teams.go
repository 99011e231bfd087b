package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `team_id, abbreviation, full_name, city, mascot,
	conference, division, is_active, created_at, updated_at`

// GetAll returns every active team.
func (r *TeamRepository) GetAll(ctx context.Context) ([]*store.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE is_active ORDER BY abbreviation`, teamColumns)

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []*store.Team
	for rows.Next() {
		team := &store.Team{}
		err := rows.Scan(
			&team.TeamID, &team.Abbreviation, &team.FullName, &team.City,
			&team.Mascot, &team.Conference, &team.Division, &team.IsActive,
			&team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// GetByAbbreviation finds a team by its canonical code. Returns
// (nil, nil) when no row exists.
func (r *TeamRepository) GetByAbbreviation(ctx context.Context, abbreviation string) (*store.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE abbreviation = $1`, teamColumns)

	team := &store.Team{}
	err := r.db.DB().QueryRowContext(ctx, query, abbreviation).Scan(
		&team.TeamID, &team.Abbreviation, &team.FullName, &team.City,
		&team.Mascot, &team.Conference, &team.Division, &team.IsActive,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}
	return team, nil
}
