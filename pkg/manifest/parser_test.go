package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullManifest(t *testing.T) {
	src := []byte(`package alpha

var Requires = []string{"weather", "units"}

var Trusted = false

var Config = map[string]any{
	"retries": 3,
	"units":   "metric",
	"scale":   1.5,
	"verbose": false,
}

var Info = ModuleInfo{
	Name:     "alpha",
	Category: "utils",
	Version:  "1.2",
	Authors:  []string{"ops"},
	Patterns: []string{".alpha", ".alphacfg"},
	Descriptions: []string{
		"fetch the forecast, honoring retries and units",
		"tune scale and verbose output",
	},
	ExtDescriptions: []string{
		"retries controls attempts, units picks metric or imperial",
		"scale multiplies values, verbose adds detail",
	},
}
`)

	m, err := Parse("alpha.go", src)
	require.NoError(t, err)

	assert.Equal(t, []string{"weather", "units"}, m.Requires)
	assert.False(t, m.Trusted)
	assert.Equal(t, map[string]any{
		"retries": 3,
		"units":   "metric",
		"scale":   1.5,
		"verbose": false,
	}, m.Config)

	require.NotNil(t, m.Info)
	assert.Equal(t, "alpha", m.Info.Name)
	assert.Equal(t, "1.2", m.Version())
	assert.Equal(t, []string{".alpha", ".alphacfg"}, m.Info.Patterns)
	assert.Contains(t, m.Description(), ".alpha: fetch the forecast")
}

func TestParseEmptySourceIsAccepted(t *testing.T) {
	m, err := Parse("bare.go", []byte("package bare\n\nfunc Run() {}\n"))
	require.NoError(t, err)
	assert.Nil(t, m.Config)
	assert.Nil(t, m.Info)
	assert.False(t, m.Trusted)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("broken.go", []byte("package broken\n\nvar Config = {{{\n"))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseUndocumentedConfigKeyIsRejected(t *testing.T) {
	src := []byte(`package alpha

var Config = map[string]any{"x": 1}

var Info = ModuleInfo{
	Patterns:     []string{".alpha"},
	Descriptions: []string{"does something unrelated"},
}
`)

	_, err := Parse("alpha.go", src)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Reason, `"x"`)
}

func TestParseConfigWithoutInfoIsRejected(t *testing.T) {
	_, err := Parse("alpha.go", []byte(`package alpha

var Config = map[string]any{"retries": 3}
`))
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Reason, "Info")
}

func TestParsePatternDescriptionMismatchIsRejected(t *testing.T) {
	src := []byte(`package alpha

var Info = ModuleInfo{
	Patterns:     []string{".a", ".b"},
	Descriptions: []string{"only one"},
}
`)

	_, err := Parse("alpha.go", src)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestParseSkipsNonConstantDeclarations(t *testing.T) {
	src := []byte(`package alpha

var Trusted = computeTrust()

var Info = ModuleInfo{
	Patterns:     []string{".alpha"},
	Descriptions: []string{"plain command"},
}
`)

	m, err := Parse("alpha.go", src)
	require.NoError(t, err)
	assert.False(t, m.Trusted)
	require.NotNil(t, m.Info)
}

func TestParseNegativeNumbers(t *testing.T) {
	src := []byte(`package alpha

var Config = map[string]any{"offset": -7}

var Info = ModuleInfo{
	Patterns:     []string{".shift"},
	Descriptions: []string{"apply the offset"},
}
`)

	m, err := Parse("alpha.go", src)
	require.NoError(t, err)
	assert.Equal(t, -7, m.Config["offset"])
}

func TestCastValue(t *testing.T) {
	m := &Manifest{Config: map[string]any{
		"retries": 3,
		"units":   "metric",
		"scale":   1.5,
		"verbose": false,
	}}

	testCases := []struct {
		key  string
		raw  string
		want any
	}{
		{"retries", "5", 5},
		{"units", "imperial", "imperial"},
		{"scale", "2.5", 2.5},
		{"verbose", "true", true},
	}
	for _, tc := range testCases {
		value, err := m.CastValue(tc.key, tc.raw)
		require.NoError(t, err)
		assert.Equal(t, tc.want, value)
	}

	_, err := m.CastValue("retries", "lots")
	assert.Error(t, err)

	_, err = m.CastValue("missing", "1")
	assert.Error(t, err)
}
