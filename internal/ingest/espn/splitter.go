package espn

import "strings"

// statCategories is the fixed, ordered set of category keywords a
// section label can end with. Multi-word keywords must be present so
// "Kick Returns" is not mis-split as "... Returns" plus a stray
// "Kick".
var statCategories = []struct {
	keyword  string
	category string
}{
	{"punt returns", "punt_returns"},
	{"kick returns", "kick_returns"},
	{"interceptions", "interceptions"},
	{"passing", "passing"},
	{"rushing", "rushing"},
	{"receiving", "receiving"},
	{"kicking", "kicking"},
	{"punting", "punting"},
	{"fumbles", "fumbles"},
	{"defensive", "defensive"},
}

// Splitter splits a composite stat-section label such as
// "New York Giants Passing" into its team-name and category parts.
type Splitter struct {
	categories []struct {
		keyword  string
		category string
	}
}

// NewSplitter creates a splitter over the fixed category table.
func NewSplitter() *Splitter {
	return &Splitter{categories: statCategories}
}

// Split separates a section label into (team name, stat category).
// The longest category keyword anchored at the end of the label wins;
// labels without a known keyword fall back to splitting on the last
// whitespace boundary. Returns ok=false only when the label contains
// no whitespace at all.
func (s *Splitter) Split(label string) (teamName, category string, ok bool) {
	label = strings.TrimSpace(label)
	lower := strings.ToLower(label)

	bestLen := 0
	bestCategory := ""
	for _, c := range s.categories {
		if len(c.keyword) <= bestLen {
			continue
		}
		if !strings.HasSuffix(lower, c.keyword) {
			continue
		}
		cut := len(label) - len(c.keyword)
		if cut == 0 || lower[cut-1] != ' ' {
			continue
		}
		bestLen = len(c.keyword)
		bestCategory = c.category
	}

	if bestCategory != "" {
		team := strings.TrimSpace(label[:len(label)-bestLen])
		return team, bestCategory, true
	}

	idx := strings.LastIndexByte(label, ' ')
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(label[:idx]), strings.ToLower(label[idx+1:]), true
}
