package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/fortuna/gridiron/internal/ingest/espn"
)

// Simple test utility to verify the ESPN play-by-play client works
// against a live game page. Usage: go run scripts/test-espn-client.go <gameID>
func main() {
	log.Println("Testing ESPN Play-by-Play Client")
	log.Println("================================")

	if len(os.Args) < 2 {
		log.Fatal("usage: test-espn-client <espn game id>")
	}
	gameID := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	table := espn.DefaultTeamTable()

	client, err := espn.NewClient(table)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	log.Printf("\n1. Fetching play-by-play for game %s...", gameID)
	content, err := client.FetchPlayByPlay(ctx, gameID)
	if err != nil {
		log.Fatalf("Failed to fetch play-by-play: %v", err)
	}

	log.Printf("✓ Page title: %s", content.Title)
	log.Printf("✓ Game context: %s @ %s", content.Context.Away, content.Context.Home)
	log.Printf("✓ Extracted %d raw cards", len(content.Cards))

	log.Println("\n2. Normalizing cards...")
	normalizer := espn.NewNormalizer()

	parsed, dropped := 0, 0
	for _, card := range content.Cards {
		play := normalizer.Normalize(card)
		if play == nil {
			dropped++
			continue
		}
		parsed++
		if parsed <= 5 {
			log.Printf("  Q%d %s [%s] %s", play.Quarter, play.Clock, play.Category, play.RawText)
		}
	}

	log.Printf("✓ Parsed %d plays (%d cards dropped as non-plays)", parsed, dropped)

	log.Println("\n3. Fetching box score section labels...")
	labels, err := client.FetchBoxScoreLabels(ctx, gameID)
	if err != nil {
		log.Printf("Note: box score fetch may fail for games without stats")
		log.Printf("Error: %v", err)
	} else {
		log.Printf("✓ Found %d section labels", len(labels))
		for _, label := range labels {
			log.Printf("  %s", label)
		}
	}

	log.Println("\n================================")
	log.Println("✓ ESPN Client Test Complete")
}
