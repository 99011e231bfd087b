package espn

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// cardSelector matches one play-card section on an expanded
// play-by-play page. ESPN ships these under prism test ids; the
// legacy Card class is kept as a fallback.
const cardSelector = `section[data-testid*="prism"], section.Card`

// teamTitleSelector matches the per-team stat-section headers on a
// box score page ("New York Giants Passing").
const teamTitleSelector = `div[data-testid="teamTitle"] .TeamTitle__Name, div.TeamTitle__Name`

// ParseHTML converts raw HTML to a goquery Document.
func ParseHTML(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ExtractPageContent pulls the page title, game context, and one raw
// card per play section from an expanded play-by-play document. Cards
// that turn out to be noise are filtered later by the normalizer, not
// here.
func ExtractPageContent(doc *goquery.Document, externalID string, table *TeamTable) *PageContent {
	content := &PageContent{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if content.Title == "" {
		content.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	content.Context = contextFromTitle(content.Title, table)

	doc.Find(cardSelector).Each(func(i int, sel *goquery.Selection) {
		card := RawCard{
			GameID:        externalID,
			SequenceIndex: len(content.Cards),
			Lines:         cardLines(sel),
		}
		if len(card.Lines) == 0 {
			return
		}
		content.Cards = append(content.Cards, card)
	})

	return content
}

// cardLines collects the card's text in top-to-bottom visual order:
// one line per leaf div, trimmed, with consecutive duplicates dropped
// (nested divs repeat their parent's text).
func cardLines(sel *goquery.Selection) []string {
	var lines []string
	sel.Find("div").Each(func(i int, div *goquery.Selection) {
		if div.Children().Filter("div").Length() > 0 {
			return
		}
		text := strings.TrimSpace(div.Text())
		if text == "" {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] == text {
			return
		}
		lines = append(lines, text)
	})

	if len(lines) == 0 {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			lines = nonEmptyLines(strings.Split(text, "\n"))
		}
	}
	return lines
}

// contextFromTitle derives the pair of contending team codes from a
// page title such as "Bills 31-10 Jets (Sep 14, 2025) Play-by-Play -
// ESPN". Mascot words are scanned in canonical table order; the first
// two distinct hits win.
func contextFromTitle(title string, table *TeamTable) GameContext {
	if table == nil || title == "" {
		return GameContext{}
	}
	lower := strings.ToLower(title)

	var codes []string
	for _, e := range table.Entries() {
		if strings.Contains(lower, strings.ToLower(e.Mascot)) {
			codes = append(codes, e.Code)
			if len(codes) == 2 {
				break
			}
		}
	}

	ctx := GameContext{}
	if len(codes) > 0 {
		ctx.Away = codes[0]
	}
	if len(codes) > 1 {
		ctx.Home = codes[1]
	}
	return ctx
}

// ExtractTeamTitles returns the raw per-team stat-section labels from
// a box score document, in page order.
func ExtractTeamTitles(doc *goquery.Document) []string {
	var labels []string
	seen := make(map[string]bool)
	doc.Find(teamTitleSelector).Each(func(i int, sel *goquery.Selection) {
		label := strings.TrimSpace(sel.Text())
		if label == "" || seen[label] {
			return
		}
		seen[label] = true
		labels = append(labels, label)
	})
	return labels
}
