package service

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// GameService handles game-related business logic
type GameService struct {
	gameRepo *repository.GameRepository
	teamRepo *repository.TeamRepository
	playRepo *repository.PlayRepository
}

// NewGameService creates a new game service
func NewGameService(db *store.Database) *GameService {
	return &GameService{
		gameRepo: repository.NewGameRepository(db),
		teamRepo: repository.NewTeamRepository(db),
		playRepo: repository.NewPlayRepository(db),
	}
}

// GameSummary contains game details with team information
type GameSummary struct {
	Game      *store.Game `json:"game"`
	HomeTeam  *store.Team `json:"home_team,omitempty"`
	AwayTeam  *store.Team `json:"away_team,omitempty"`
	PlayCount int         `json:"play_count"`
}

// GetGame retrieves a game by ID with team details and play count
func (s *GameService) GetGame(ctx context.Context, gameID int) (*GameSummary, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching game: %w", err)
	}
	if game == nil {
		return nil, nil
	}

	return s.summarize(ctx, game)
}

// GetGameByExternalID retrieves a game by its source identifier
func (s *GameService) GetGameByExternalID(ctx context.Context, externalID string) (*GameSummary, error) {
	game, err := s.gameRepo.GetByExternalID(ctx, "football_nfl", externalID)
	if err != nil {
		return nil, fmt.Errorf("fetching game: %w", err)
	}
	if game == nil {
		return nil, nil
	}

	return s.summarize(ctx, game)
}

// GetPendingGames retrieves final games still waiting for play-by-play
func (s *GameService) GetPendingGames(ctx context.Context, limit int) ([]*store.Game, error) {
	games, err := s.gameRepo.GetPendingGames(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching pending games: %w", err)
	}
	return games, nil
}

// GetWeekGames retrieves all games for one season week
func (s *GameService) GetWeekGames(ctx context.Context, season, week int) ([]*store.Game, error) {
	games, err := s.gameRepo.GetBySeasonWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("fetching week games: %w", err)
	}
	return games, nil
}

func (s *GameService) summarize(ctx context.Context, game *store.Game) (*GameSummary, error) {
	homeTeam, err := s.teamRepo.GetByAbbreviation(ctx, game.HomeTeam)
	if err != nil {
		return nil, fmt.Errorf("fetching home team: %w", err)
	}

	awayTeam, err := s.teamRepo.GetByAbbreviation(ctx, game.AwayTeam)
	if err != nil {
		return nil, fmt.Errorf("fetching away team: %w", err)
	}

	count, err := s.playRepo.CountByGame(ctx, game.GameID)
	if err != nil {
		return nil, fmt.Errorf("counting plays: %w", err)
	}

	return &GameSummary{
		Game:      game,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		PlayCount: count,
	}, nil
}
