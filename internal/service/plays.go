package service

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// PlayService handles play-by-play queries
type PlayService struct {
	playRepo    *repository.PlayRepository
	sectionRepo *repository.SectionRepository
}

// NewPlayService creates a new play service
func NewPlayService(db *store.Database) *PlayService {
	return &PlayService{
		playRepo:    repository.NewPlayRepository(db),
		sectionRepo: repository.NewSectionRepository(db),
	}
}

// GetGamePlays returns a game's plays in play-number order
func (s *PlayService) GetGamePlays(ctx context.Context, gameID int) ([]*store.Play, error) {
	plays, err := s.playRepo.GetByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching plays: %w", err)
	}
	return plays, nil
}

// GetGameSections returns a game's recorded box score stat sections
func (s *PlayService) GetGameSections(ctx context.Context, gameID int) ([]*store.StatSection, error) {
	sections, err := s.sectionRepo.GetByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching stat sections: %w", err)
	}
	return sections, nil
}

// ScoringSummary extracts only the scoring plays, the fan-facing recap
func (s *PlayService) ScoringSummary(ctx context.Context, gameID int) ([]*store.Play, error) {
	plays, err := s.playRepo.GetByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching plays: %w", err)
	}

	var scoring []*store.Play
	for _, play := range plays {
		if play.Scoring || play.Touchdown {
			scoring = append(scoring, play)
		}
	}
	return scoring, nil
}
