package espn

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// BaseURL for ESPN NFL pages
	BaseURL = "https://www.espn.com/nfl"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	pageTimeout = 45 * time.Second
)

// expandAccordionsJS clicks every collapsed panel so all quarters'
// play cards are present in the DOM before the HTML snapshot is taken.
const expandAccordionsJS = `
(() => {
	const collapsed = document.querySelectorAll('button[aria-expanded="false"], [role="button"][aria-expanded="false"]');
	let clicked = 0;
	collapsed.forEach(el => { el.click(); clicked++; });
	return clicked;
})()
`

// Client fetches dynamically-rendered ESPN pages with a headless
// browser. One Client holds one browser allocator; it must not be
// shared across concurrent games.
type Client struct {
	baseURL string

	allocCtx context.Context
	cancel   context.CancelFunc

	table *TeamTable
}

// NewClient creates a headless-browser client for play-by-play pages.
func NewClient(table *TeamTable) (*Client, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		baseURL:  BaseURL,
		allocCtx: allocCtx,
		cancel:   cancel,
		table:    table,
	}, nil
}

// Close releases browser resources.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchPlayByPlay loads a game's play-by-play page, expands every
// collapsed panel, and returns the extracted page content.
func (c *Client) FetchPlayByPlay(ctx context.Context, externalID string) (*PageContent, error) {
	url := fmt.Sprintf("%s/playbyplay/_/gameId/%s", c.baseURL, externalID)

	html, err := c.fetchExpanded(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching play-by-play for game %s: %w", externalID, err)
	}

	doc, err := ParseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("parsing play-by-play for game %s: %w", externalID, err)
	}

	content := ExtractPageContent(doc, externalID, c.table)
	log.Printf("[espn-client] game %s: %d raw cards extracted", externalID, len(content.Cards))
	return content, nil
}

// FetchBoxScoreLabels loads a game's box score page and returns the
// per-team stat-section labels found on it.
func (c *Client) FetchBoxScoreLabels(ctx context.Context, externalID string) ([]string, error) {
	url := fmt.Sprintf("%s/boxscore/_/gameId/%s", c.baseURL, externalID)

	html, err := c.fetchExpanded(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching box score for game %s: %w", externalID, err)
	}

	doc, err := ParseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("parsing box score for game %s: %w", externalID, err)
	}

	return ExtractTeamTitles(doc), nil
}

// fetchExpanded navigates to url, expands all collapsed panels, and
// returns the resulting HTML. The expansion pass runs twice because
// some panels are lazy-loaded and only appear after the first round of
// clicks.
func (c *Client) fetchExpanded(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(c.allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, pageTimeout)
	defer cancelTimeout()

	// Propagate caller cancellation into the browser context.
	stop := context.AfterFunc(ctx, cancelBrowser)
	defer stop()

	var htmlContent string
	var clicked int

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.Evaluate(expandAccordionsJS, &clicked),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Evaluate(expandAccordionsJS, &clicked),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)

	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}

	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}

	return htmlContent, nil
}
