package espn

// RawCard is one opaque play-card text block scraped from an expanded
// play-by-play page. It is consumed once by the normalizer and never
// persisted.
type RawCard struct {
	GameID        string
	SequenceIndex int
	Lines         []string
}

// GameContext is the pair of team codes known to be playing in the
// current game. Built once per game before any token resolution and
// immutable for the rest of that game's run.
type GameContext struct {
	Home string
	Away string
}

// Has reports whether code is one of the two teams in this game.
func (g GameContext) Has(code string) bool {
	return code != "" && (g.Home == code || g.Away == code)
}

// TeamToken is an unresolved team designator as it appears on the
// page: the raw city/franchise string plus the full label it was
// extracted from (e.g. a stat-section header).
type TeamToken struct {
	Raw     string
	Context string
}

// ResolutionMethod tags how a team token was resolved so callers can
// distinguish a confident resolution from a guess.
type ResolutionMethod string

const (
	MethodExact    ResolutionMethod = "exact"
	MethodContext  ResolutionMethod = "context-disambiguated"
	MethodFuzzy    ResolutionMethod = "fuzzy"
	MethodFallback ResolutionMethod = "fallback"
)

// ResolvedTeam is a canonical team code plus the resolution method
// that produced it.
type ResolvedTeam struct {
	Code   string
	Method ResolutionMethod
}

// Provisional reports whether the resolution is a degraded guess that
// downstream consumers should treat as unverified.
func (r ResolvedTeam) Provisional() bool {
	return r.Method == MethodFallback
}

// PageContent is everything the content source yields for one game's
// play-by-play page after all collapsed panels have been expanded.
type PageContent struct {
	Title   string
	Context GameContext
	Cards   []RawCard
}
