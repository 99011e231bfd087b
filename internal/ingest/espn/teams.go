package espn

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// TeamEntry is one row of the canonical 32-team table.
type TeamEntry struct {
	Code     string
	FullName string
	City     string
	Mascot   string
	Aliases  []string
}

// canonicalTeams is the fixed, ordered canonical team table. Order
// matters: every lookup that scans the table iterates this slice so
// resolution is deterministic for a fixed input.
var canonicalTeams = []TeamEntry{
	{Code: "ARI", FullName: "Arizona Cardinals", City: "Arizona", Mascot: "Cardinals"},
	{Code: "ATL", FullName: "Atlanta Falcons", City: "Atlanta", Mascot: "Falcons"},
	{Code: "BAL", FullName: "Baltimore Ravens", City: "Baltimore", Mascot: "Ravens"},
	{Code: "BUF", FullName: "Buffalo Bills", City: "Buffalo", Mascot: "Bills"},
	{Code: "CAR", FullName: "Carolina Panthers", City: "Carolina", Mascot: "Panthers"},
	{Code: "CHI", FullName: "Chicago Bears", City: "Chicago", Mascot: "Bears"},
	{Code: "CIN", FullName: "Cincinnati Bengals", City: "Cincinnati", Mascot: "Bengals"},
	{Code: "CLE", FullName: "Cleveland Browns", City: "Cleveland", Mascot: "Browns"},
	{Code: "DAL", FullName: "Dallas Cowboys", City: "Dallas", Mascot: "Cowboys"},
	{Code: "DEN", FullName: "Denver Broncos", City: "Denver", Mascot: "Broncos"},
	{Code: "DET", FullName: "Detroit Lions", City: "Detroit", Mascot: "Lions"},
	{Code: "GB", FullName: "Green Bay Packers", City: "Green Bay", Mascot: "Packers", Aliases: []string{"GNB"}},
	{Code: "HOU", FullName: "Houston Texans", City: "Houston", Mascot: "Texans"},
	{Code: "IND", FullName: "Indianapolis Colts", City: "Indianapolis", Mascot: "Colts"},
	{Code: "JAX", FullName: "Jacksonville Jaguars", City: "Jacksonville", Mascot: "Jaguars", Aliases: []string{"JAC"}},
	{Code: "KC", FullName: "Kansas City Chiefs", City: "Kansas City", Mascot: "Chiefs", Aliases: []string{"KAN"}},
	{Code: "LAC", FullName: "Los Angeles Chargers", City: "Los Angeles", Mascot: "Chargers", Aliases: []string{"LA Chargers", "L.A. Chargers"}},
	{Code: "LAR", FullName: "Los Angeles Rams", City: "Los Angeles", Mascot: "Rams", Aliases: []string{"LA Rams", "L.A. Rams"}},
	{Code: "LV", FullName: "Las Vegas Raiders", City: "Las Vegas", Mascot: "Raiders", Aliases: []string{"LVR", "OAK"}},
	{Code: "MIA", FullName: "Miami Dolphins", City: "Miami", Mascot: "Dolphins"},
	{Code: "MIN", FullName: "Minnesota Vikings", City: "Minnesota", Mascot: "Vikings"},
	{Code: "NE", FullName: "New England Patriots", City: "New England", Mascot: "Patriots", Aliases: []string{"NEP"}},
	{Code: "NO", FullName: "New Orleans Saints", City: "New Orleans", Mascot: "Saints", Aliases: []string{"NOR"}},
	{Code: "NYG", FullName: "New York Giants", City: "New York", Mascot: "Giants", Aliases: []string{"NY Giants", "N.Y. Giants"}},
	{Code: "NYJ", FullName: "New York Jets", City: "New York", Mascot: "Jets", Aliases: []string{"NY Jets", "N.Y. Jets"}},
	{Code: "PHI", FullName: "Philadelphia Eagles", City: "Philadelphia", Mascot: "Eagles"},
	{Code: "PIT", FullName: "Pittsburgh Steelers", City: "Pittsburgh", Mascot: "Steelers"},
	{Code: "SEA", FullName: "Seattle Seahawks", City: "Seattle", Mascot: "Seahawks"},
	{Code: "SF", FullName: "San Francisco 49ers", City: "San Francisco", Mascot: "49ers", Aliases: []string{"SFO"}},
	{Code: "TB", FullName: "Tampa Bay Buccaneers", City: "Tampa Bay", Mascot: "Buccaneers", Aliases: []string{"TAM", "TBB"}},
	{Code: "TEN", FullName: "Tennessee Titans", City: "Tennessee", Mascot: "Titans"},
	{Code: "WSH", FullName: "Washington Commanders", City: "Washington", Mascot: "Commanders", Aliases: []string{"WAS", "Washington Football Team"}},
}

// collisionClass describes a token fragment shared by two franchises
// and the mascot words that tell them apart. The two known classes are
// the New York and Los Angeles pairs.
type collisionClass struct {
	fragment   string
	candidates []mascotCandidate
	defaultTo  string
}

type mascotCandidate struct {
	mascot string
	code   string
}

var collisionClasses = []collisionClass{
	{
		fragment: "york",
		candidates: []mascotCandidate{
			{mascot: "giants", code: "NYG"},
			{mascot: "jets", code: "NYJ"},
		},
		defaultTo: "NYG",
	},
	{
		fragment: "angeles",
		candidates: []mascotCandidate{
			{mascot: "rams", code: "LAR"},
			{mascot: "chargers", code: "LAC"},
		},
		defaultTo: "LAR",
	},
}

// compoundCities maps partial city fragments that ESPN-style text
// mangles into a code. Checked as substring containment in order;
// first match wins.
var compoundCities = []struct {
	fragment string
	code     string
}{
	{"orleans", "NO"},
	{"vegas", "LV"},
	{"england", "NE"},
	{"francisco", "SF"},
	{"kansas", "KC"},
	{"tampa", "TB"},
	{"green bay", "GB"},
}

// TeamTable is the immutable, explicitly ordered canonical team data
// a Resolver works from. Build it once at process start and pass it by
// reference; never mutate it afterwards.
type TeamTable struct {
	entries []TeamEntry
	exact   map[string]string
}

// DefaultTeamTable builds the canonical table with its derived exact
// lookup. City names shared by two franchises (New York, Los Angeles)
// are deliberately excluded from the exact map so they fall through to
// context disambiguation.
func DefaultTeamTable() *TeamTable {
	t := &TeamTable{
		entries: canonicalTeams,
		exact:   make(map[string]string),
	}

	cityCounts := make(map[string]int)
	for _, e := range t.entries {
		cityCounts[strings.ToLower(e.City)]++
	}

	for _, e := range t.entries {
		t.put(e.Code, e.Code)
		t.put(e.FullName, e.Code)
		t.put(e.Mascot, e.Code)
		if cityCounts[strings.ToLower(e.City)] == 1 {
			t.put(e.City, e.Code)
		}
		for _, alias := range e.Aliases {
			t.put(alias, e.Code)
		}
	}

	return t
}

func (t *TeamTable) put(name, code string) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, exists := t.exact[key]; !exists {
		t.exact[key] = code
	}
}

// Entries returns the ordered canonical table.
func (t *TeamTable) Entries() []TeamEntry {
	return t.entries
}

// Lookup returns the code for an exact (case-insensitive) name, city,
// mascot, or alias match.
func (t *TeamTable) Lookup(name string) (string, bool) {
	code, ok := t.exact[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// Resolver maps free-form team tokens to canonical team codes. It
// never fails: the worst case is a flagged provisional guess.
type Resolver struct {
	table *TeamTable

	// minSimilarity gates the Jaro-Winkler tier. Tokens below it fall
	// through to the three-letter fallback.
	minSimilarity float64
}

// NewResolver creates a resolver over the given table.
func NewResolver(table *TeamTable) *Resolver {
	return &Resolver{
		table:         table,
		minSimilarity: 0.88,
	}
}

// Resolve maps a team token plus game context to a canonical code.
// Resolution tiers, in order: exact table hit, collision-class
// disambiguation (mascot word first, then game context), compound-city
// fragment, bidirectional full-name containment, Jaro-Winkler
// similarity, three-letter fallback. Deterministic for a fixed
// (token, game) pair.
func (r *Resolver) Resolve(token TeamToken, game GameContext) ResolvedTeam {
	raw := strings.TrimSpace(token.Raw)
	if raw == "" {
		return ResolvedTeam{Code: "UNK", Method: MethodFallback}
	}

	// Tier 1: exact match against name, city, mascot, or alias.
	if code, ok := r.table.Lookup(raw); ok {
		return ResolvedTeam{Code: code, Method: MethodExact}
	}

	lower := strings.ToLower(raw)
	lowerCtx := strings.ToLower(token.Context)

	// Tier 2: the two known collision classes. A mascot word in the
	// token or its surrounding label takes precedence over game
	// context.
	for _, class := range collisionClasses {
		if !strings.Contains(lower, class.fragment) {
			continue
		}
		for _, cand := range class.candidates {
			if strings.Contains(lower, cand.mascot) || strings.Contains(lowerCtx, cand.mascot) {
				return ResolvedTeam{Code: cand.code, Method: MethodContext}
			}
		}
		var inGame []string
		for _, cand := range class.candidates {
			if game.Has(cand.code) {
				inGame = append(inGame, cand.code)
			}
		}
		if len(inGame) == 1 {
			return ResolvedTeam{Code: inGame[0], Method: MethodContext}
		}
		// Neither (or both) candidates are in this game: documented
		// deterministic default, flagged provisional.
		return ResolvedTeam{Code: class.defaultTo, Method: MethodFallback}
	}

	// Tier 3: compound-city fragments ESPN mangles.
	for _, cc := range compoundCities {
		if strings.Contains(lower, cc.fragment) {
			return ResolvedTeam{Code: cc.code, Method: MethodFuzzy}
		}
	}

	// Tier 4: bidirectional containment against full names, in table
	// order.
	for _, e := range r.table.Entries() {
		full := strings.ToLower(e.FullName)
		if strings.Contains(full, lower) || strings.Contains(lower, full) {
			return ResolvedTeam{Code: e.Code, Method: MethodFuzzy}
		}
	}

	// Tier 5: Jaro-Winkler similarity against full names. Best score
	// wins; ties break on table order.
	bestCode := ""
	bestScore := r.minSimilarity
	for _, e := range r.table.Entries() {
		score := matchr.JaroWinkler(lower, strings.ToLower(e.FullName), false)
		if score > bestScore {
			bestScore = score
			bestCode = e.Code
		}
	}
	if bestCode != "" {
		return ResolvedTeam{Code: bestCode, Method: MethodFuzzy}
	}

	// Tier 6: degraded fallback, flagged so downstream consumers can
	// treat it as provisional.
	return ResolvedTeam{Code: fallbackCode(raw), Method: MethodFallback}
}

func fallbackCode(raw string) string {
	var letters []rune
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters = append(letters, r)
		}
		if len(letters) == 3 {
			break
		}
	}
	if len(letters) == 0 {
		return "UNK"
	}
	return strings.ToUpper(string(letters))
}
