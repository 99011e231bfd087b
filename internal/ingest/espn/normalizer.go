package espn

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fortuna/gridiron/internal/store"
)

// clockQuarterPattern is the mandatory second-line shape, e.g.
// "8:53 - 3rd". A card whose second line does not match is noise, not
// a play.
var clockQuarterPattern = regexp.MustCompile(`^(\d{1,2}:\d{2})\s*-\s*(1st|2nd|3rd|4th|OT)\b`)

var quarterByOrdinal = map[string]int{
	"1st": 1,
	"2nd": 2,
	"3rd": 3,
	"4th": 4,
	"OT":  5,
}

// headerYardPattern pulls the leading yardage off summaries like
// "13-yd Pass" or "2-yd Run".
var headerYardPattern = regexp.MustCompile(`^(\d+)-?\s*yd\b`)

// headerRule maps a play-summary keyword to a category. Checked in
// order; first hit wins, so multi-word keywords come before their
// substrings.
type headerRule struct {
	keyword  string
	category string
}

var headerRules = []headerRule{
	{"field goal", store.PlayFieldGoal},
	{"extra point", store.PlayExtraPoint},
	{"kickoff", store.PlayKickoff},
	{"punt", store.PlayPunt},
	{"sack", store.PlaySack},
	{"kneel", store.PlayKneel},
	{"safety", store.PlaySafety},
	{"penalty", store.PlayPenalty},
	{"interception", store.PlayPass},
	{"pass", store.PlayPass},
	{"run", store.PlayRush},
	{"rush", store.PlayRush},
	{"fg", store.PlayFieldGoal},
}

// yardageRule is one entry of the ordered description yardage chain.
// First match wins; the order encodes the documented tie-break for
// descriptions carrying two distinct yardage numbers (a kick distance
// and a return distance): the gain pattern outranks the kick pattern.
type yardageRule struct {
	pattern *regexp.Regexp
	group   int
}

var yardageRules = []yardageRule{
	{regexp.MustCompile(`for (-?\d+) yards?`), 1},
	{regexp.MustCompile(`(-?\d+) yard (?:gain|loss|pass|rush|run)`), 1},
	{regexp.MustCompile(`kicks (-?\d+) yards?`), 1},
}

// situationPattern matches down/distance/field-position lines such as
// "3rd & 2 at JAX 18" or "1st & Goal at DET 4".
var situationPattern = regexp.MustCompile(`(\d)(?:st|nd|rd|th)\s*&\s*(\d+|Goal)(?:\s+at\s+([A-Z]{2,3})\s+(\d{1,2}))?`)

// fieldPositionPattern recovers field position from the description
// when no situation line is present ("pushed ob at BUF 47",
// "to DET 43").
var fieldPositionPattern = regexp.MustCompile(`(?:to|at) ([A-Z]{2,3}) (\d{1,2})\b`)

// namePatterns extract participant names, checked in order. The
// initial-dot shape covers both inline mentions and parenthesized
// tacklers.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z]\.\s?[A-Z][A-Za-z'-]+`),
	regexp.MustCompile(`[A-Z][a-z]+ [A-Z][a-z]+`),
}

// Keyword sets for the boolean flags.
var (
	touchdownPattern = regexp.MustCompile(`(?i)touchdown|\bTD\b`)
	penaltyPattern   = regexp.MustCompile(`(?i)penalty`)
	turnoverPattern  = regexp.MustCompile(`(?i)fumble|intercept`)
	lossPattern      = regexp.MustCompile(`(?i)\bloss\b`)
	goodPattern      = regexp.MustCompile(`(?i)\bis good\b|\bgood\b`)
)

const maxParticipants = 3

const maxRawText = 500

// Normalizer turns raw play cards into structured play records. It is
// a pure function of its input plus the fixed pattern tables above; a
// single instance is safe for concurrent use.
type Normalizer struct {
	headerRules []headerRule
	yardage     []yardageRule
}

// NewNormalizer creates a normalizer over the fixed pattern tables.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		headerRules: headerRules,
		yardage:     yardageRules,
	}
}

// Normalize parses one raw card into a play record. It returns nil
// when the card cannot possibly be a play: fewer than two non-empty
// lines, or a second line that does not carry the mandatory
// clock/quarter shape. Every non-nil result has quarter and clock
// populated; all other fields are best-effort.
func (n *Normalizer) Normalize(card RawCard) *store.Play {
	lines := nonEmptyLines(card.Lines)
	if len(lines) < 2 {
		return nil
	}

	clockMatch := clockQuarterPattern.FindStringSubmatch(lines[1])
	if clockMatch == nil {
		return nil
	}

	play := &store.Play{
		PlayNumber: card.SequenceIndex + 1,
		Quarter:    quarterByOrdinal[clockMatch[2]],
		Clock:      clockMatch[1],
		Category:   store.PlayOther,
	}

	category, headerYards := n.classifyHeader(lines[0])
	play.Category = category
	play.YardsGained = headerYards

	description := ""
	if len(lines) > 2 {
		description = lines[2]
	}
	situation := ""
	if len(lines) > 3 {
		situation = lines[3]
	}

	if description != "" {
		n.parseDescription(play, description)
		play.RawText = truncate(description, maxRawText)
	} else {
		play.RawText = truncate(strings.Join(lines, " | "), maxRawText)
	}

	n.parseSituation(play, situation, description)

	return play
}

// classifyHeader maps a short play-type header ("13-yd Pass", "Sack")
// to a category and opportunistically extracts a leading yardage
// number. The header yardage is provisional: a yardage found in the
// description overrides it.
func (n *Normalizer) classifyHeader(header string) (string, sql.NullInt32) {
	lower := strings.ToLower(strings.TrimSpace(header))

	var yards sql.NullInt32
	if m := headerYardPattern.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			yards = sql.NullInt32{Int32: int32(v), Valid: true}
		}
	}

	for _, rule := range n.headerRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.category, yards
		}
	}
	return store.PlayOther, yards
}

// parseDescription scans the free-text play description for yardage,
// flags, and participant names.
func (n *Normalizer) parseDescription(play *store.Play, description string) {
	for _, rule := range n.yardage {
		m := rule.pattern.FindStringSubmatch(description)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[rule.group])
		if err != nil {
			continue
		}
		if v > 0 && lossPattern.MatchString(description) {
			v = -v
		}
		play.YardsGained = sql.NullInt32{Int32: int32(v), Valid: true}
		break
	}

	play.Touchdown = touchdownPattern.MatchString(description)
	play.Penalty = play.Penalty || penaltyPattern.MatchString(description)
	play.Turnover = turnoverPattern.MatchString(description)
	play.Scoring = n.isScoring(play, description)

	if play.Category == store.PlayOther {
		play.Category = categoryFromDescription(description)
	}

	play.Participants = extractNames(description)
}

// isScoring reports whether the play put points on the board:
// touchdowns, safeties, and made kicks.
func (n *Normalizer) isScoring(play *store.Play, description string) bool {
	if play.Touchdown {
		return true
	}
	lower := strings.ToLower(description)
	if play.Category == store.PlaySafety || strings.Contains(lower, "safety") {
		return true
	}
	if play.Category == store.PlayFieldGoal || play.Category == store.PlayExtraPoint {
		return goodPattern.MatchString(description) && !strings.Contains(lower, "no good")
	}
	return false
}

// descriptionCategories backstop the header classifier when the
// summary line was unrecognizable.
var descriptionCategories = []headerRule{
	{"kicks", store.PlayKickoff},
	{"punts", store.PlayPunt},
	{"field goal", store.PlayFieldGoal},
	{"extra point", store.PlayExtraPoint},
	{"sacked", store.PlaySack},
	{"kneels", store.PlayKneel},
	{"pass", store.PlayPass},
	{"scrambles", store.PlayRush},
	{"left tackle", store.PlayRush},
	{"right tackle", store.PlayRush},
	{"left guard", store.PlayRush},
	{"right guard", store.PlayRush},
	{"left end", store.PlayRush},
	{"right end", store.PlayRush},
	{"up the middle", store.PlayRush},
}

func categoryFromDescription(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range descriptionCategories {
		if strings.Contains(lower, rule.keyword) {
			return rule.category
		}
	}
	return store.PlayOther
}

// parseSituation extracts down, distance, and field position from the
// optional situation line, falling back to the description. "Goal"
// maps to distance 0.
func (n *Normalizer) parseSituation(play *store.Play, situation, description string) {
	source := situation
	if source == "" {
		source = description
	}
	if source == "" {
		return
	}

	if m := situationPattern.FindStringSubmatch(source); m != nil {
		if down, err := strconv.Atoi(m[1]); err == nil && down >= 1 && down <= 4 {
			play.Down = sql.NullInt32{Int32: int32(down), Valid: true}
		}
		if m[2] == "Goal" {
			play.Distance = sql.NullInt32{Int32: 0, Valid: true}
		} else if dist, err := strconv.Atoi(m[2]); err == nil {
			play.Distance = sql.NullInt32{Int32: int32(dist), Valid: true}
		}
		if m[3] != "" {
			play.FieldSide = sql.NullString{String: m[3], Valid: true}
			if yard, err := strconv.Atoi(m[4]); err == nil {
				play.YardLine = sql.NullInt32{Int32: int32(yard), Valid: true}
			}
		}
	}

	if !play.FieldSide.Valid && description != "" {
		if m := fieldPositionPattern.FindStringSubmatch(description); m != nil {
			play.FieldSide = sql.NullString{String: m[1], Valid: true}
			if yard, err := strconv.Atoi(m[2]); err == nil {
				play.YardLine = sql.NullInt32{Int32: int32(yard), Valid: true}
			}
		}
	}
}

// extractNames pulls participant names from a description using the
// ordered name-shape patterns, deduplicated, capped at three.
func extractNames(description string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, pattern := range namePatterns {
		for _, m := range pattern.FindAllString(description, -1) {
			m = strings.ReplaceAll(m, ". ", ".")
			if seen[m] {
				continue
			}
			seen[m] = true
			names = append(names, m)
			if len(names) == maxParticipants {
				return names
			}
		}
	}
	return names
}

func nonEmptyLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
