package espn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamTableLookup(t *testing.T) {
	table := DefaultTeamTable()

	tests := []struct {
		name string
		want string
	}{
		{"DET", "DET"},
		{"Detroit Lions", "DET"},
		{"detroit lions", "DET"},
		{"Packers", "GB"},
		{"Green Bay", "GB"},
		{"OAK", "LV"},
		{"JAC", "JAX"},
		{"Washington Football Team", "WSH"},
		{"NY Giants", "NYG"},
		{"L.A. Rams", "LAR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := table.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestTeamTableAmbiguousCitiesExcluded(t *testing.T) {
	table := DefaultTeamTable()

	// Two franchises share each of these city names, so an exact hit
	// would be a coin flip. They must fall through to the resolver.
	for _, city := range []string{"New York", "Los Angeles"} {
		_, ok := table.Lookup(city)
		assert.False(t, ok, "city %q must not resolve exactly", city)
	}
}

func TestResolveExact(t *testing.T) {
	r := NewResolver(DefaultTeamTable())

	got := r.Resolve(TeamToken{Raw: "Buffalo Bills"}, GameContext{})
	assert.Equal(t, "BUF", got.Code)
	assert.Equal(t, MethodExact, got.Method)
	assert.False(t, got.Provisional())
}

func TestResolveNewYorkByGameContext(t *testing.T) {
	r := NewResolver(DefaultTeamTable())

	tests := []struct {
		name   string
		game   GameContext
		want   string
		method ResolutionMethod
	}{
		{"jets in game", GameContext{Home: "NYJ", Away: "BUF"}, "NYJ", MethodContext},
		{"giants in game", GameContext{Home: "DAL", Away: "NYG"}, "NYG", MethodContext},
		{"both in game defaults to giants", GameContext{Home: "NYG", Away: "NYJ"}, "NYG", MethodFallback},
		{"neither in game defaults to giants", GameContext{Home: "KC", Away: "DEN"}, "NYG", MethodFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(TeamToken{Raw: "New York"}, tt.game)
			assert.Equal(t, tt.want, got.Code)
			assert.Equal(t, tt.method, got.Method)
		})
	}
}

func TestResolveNewYorkByMascotInLabel(t *testing.T) {
	r := NewResolver(DefaultTeamTable())

	// The mascot word in the surrounding label outranks game context.
	got := r.Resolve(
		TeamToken{Raw: "New York", Context: "New York Jets Punt Returns"},
		GameContext{Home: "NYG", Away: "DAL"},
	)
	assert.Equal(t, "NYJ", got.Code)
	assert.Equal(t, MethodContext, got.Method)
}

func TestResolveLosAngelesByGameContext(t *testing.T) {
	r := NewResolver(DefaultTeamTable())

	got := r.Resolve(TeamToken{Raw: "Los Angeles"}, GameContext{Home: "LAC", Away: "KC"})
	assert.Equal(t, "LAC", got.Code)
	assert.Equal(t, MethodContext, got.Method)

	got = r.Resolve(TeamToken{Raw: "Los Angeles"}, GameContext{Home: "SEA", Away: "SF"})
	assert.Equal(t, "LAR", got.Code)
	assert.True(t, got.Provisional())
}

func TestResolveCompoundCityFragment(t *testing.T) {
	r := NewResolver(DefaultTeamTable())

	tests := []struct {
		raw  string
		want string
	}{
		{"Orleans Saints", "NO"},
		{"Vegas Raiders", "LV"},
		{"England Patriots", "NE"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := r.Resolve(TeamToken{Raw: tt.raw}, GameContext{})
			assert.Equal(t, tt.want, got.Code)
			assert.Equal(t, MethodFuzzy, got.Method)
		})
	}
}

func TestResolveContainment(t *testing.T) {
	r := NewResolver(DefaultTeamTable())

	got := r.Resolve(TeamToken{Raw: "the Chicago Bears"}, GameContext{})
	assert.Equal(t, "CHI", got.Code)
	assert.Equal(t, MethodFuzzy, got.Method)
}

func TestResolveJaroWinklerTypo(t *testing.T) {
	r := NewResolver(DefaultTeamTable())

	got := r.Resolve(TeamToken{Raw: "Pittsburg Steelers"}, GameContext{})
	assert.Equal(t, "PIT", got.Code)
	assert.Equal(t, MethodFuzzy, got.Method)
}

func TestResolveFallback(t *testing.T) {
	r := NewResolver(DefaultTeamTable())

	got := r.Resolve(TeamToken{Raw: "Zqx Wvu"}, GameContext{})
	assert.Equal(t, "ZQX", got.Code)
	assert.Equal(t, MethodFallback, got.Method)
	assert.True(t, got.Provisional())

	got = r.Resolve(TeamToken{Raw: "   "}, GameContext{})
	assert.Equal(t, "UNK", got.Code)
	assert.True(t, got.Provisional())
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver(DefaultTeamTable())

	token := TeamToken{Raw: "New York"}
	game := GameContext{Home: "PHI", Away: "WSH"}

	first := r.Resolve(token, game)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Resolve(token, game))
	}
}
