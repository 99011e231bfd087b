package store

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Team represents an NFL franchise
type Team struct {
	TeamID       int            `json:"team_id" db:"team_id"`
	Abbreviation string         `json:"abbreviation" db:"abbreviation"`
	FullName     string         `json:"full_name" db:"full_name"`
	City         string         `json:"city" db:"city"`
	Mascot       string         `json:"mascot" db:"mascot"`
	Conference   sql.NullString `json:"conference,omitempty" db:"conference"`
	Division     sql.NullString `json:"division,omitempty" db:"division"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Game represents one NFL contest
type Game struct {
	GameID     int            `json:"game_id" db:"game_id"`
	Sport      string         `json:"sport" db:"sport"`
	ExternalID string         `json:"external_id" db:"external_id"`
	Season     int            `json:"season" db:"season"`
	Week       sql.NullInt32  `json:"week,omitempty" db:"week"`
	GameDate   time.Time      `json:"game_date" db:"game_date"`
	HomeTeam   string         `json:"home_team" db:"home_team"`
	AwayTeam   string         `json:"away_team" db:"away_team"`
	HomeScore  sql.NullInt32  `json:"home_score,omitempty" db:"home_score"`
	AwayScore  sql.NullInt32  `json:"away_score,omitempty" db:"away_score"`
	Status     string         `json:"status" db:"status"`
	Venue      sql.NullString `json:"venue,omitempty" db:"venue"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// Play categories recognized by the normalizer.
const (
	PlayKickoff    = "kickoff"
	PlayRush       = "rush"
	PlayPass       = "pass"
	PlayPunt       = "punt"
	PlayFieldGoal  = "field_goal"
	PlayExtraPoint = "extra_point"
	PlaySack       = "sack"
	PlayPenalty    = "penalty"
	PlayKneel      = "kneel"
	PlaySafety     = "safety"
	PlayOther      = "other"
)

// Play is one normalized play-by-play record.
// Quarter and Clock are always populated; everything else is best-effort
// and may be null depending on how much the source card yielded.
type Play struct {
	ID           int            `json:"id" db:"id"`
	GameID       int            `json:"game_id" db:"game_id"`
	PlayNumber   int            `json:"play_number" db:"play_number"`
	Quarter      int            `json:"quarter" db:"quarter"`
	Clock        string         `json:"clock" db:"clock"`
	Down         sql.NullInt32  `json:"down,omitempty" db:"down"`
	Distance     sql.NullInt32  `json:"distance,omitempty" db:"distance"`
	FieldSide    sql.NullString `json:"field_side,omitempty" db:"field_side"`
	YardLine     sql.NullInt32  `json:"yard_line,omitempty" db:"yard_line"`
	Category     string         `json:"category" db:"category"`
	YardsGained  sql.NullInt32  `json:"yards_gained,omitempty" db:"yards_gained"`
	Touchdown    bool           `json:"touchdown" db:"touchdown"`
	Turnover     bool           `json:"turnover" db:"turnover"`
	Penalty      bool           `json:"penalty" db:"penalty"`
	Scoring      bool           `json:"scoring" db:"scoring"`
	Participants pq.StringArray `json:"participants" db:"participants"`
	RawText      string         `json:"raw_text" db:"raw_text"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// StatSection records one labeled per-team stat section from a box
// score page, after the label has been split and the team resolved.
type StatSection struct {
	ID               int       `json:"id" db:"id"`
	GameID           int       `json:"game_id" db:"game_id"`
	TeamCode         string    `json:"team_code" db:"team_code"`
	Category         string    `json:"category" db:"category"`
	SourceLabel      string    `json:"source_label" db:"source_label"`
	ResolutionMethod string    `json:"resolution_method" db:"resolution_method"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
