package deviceconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameOnly(t *testing.T) {
	spec, err := Parse("clock")
	require.NoError(t, err)
	assert.Equal(t, "clock", spec.Name)
	assert.Empty(t, spec.Options)
}

func TestParseWithOptions(t *testing.T) {
	spec, err := Parse("keyboard:buffer=16,layout=us")
	require.NoError(t, err)
	assert.Equal(t, "keyboard", spec.Name)
	assert.Equal(t, map[string]string{"buffer": "16", "layout": "us"}, spec.Options)
}

func TestParseLowercasesName(t *testing.T) {
	spec, err := Parse("Monitor")
	require.NoError(t, err)
	assert.Equal(t, "monitor", spec.Name)
}

func TestParseEmptyNameFails(t *testing.T) {
	_, err := Parse(":key=val")
	assert.Error(t, err)
}

func TestParseMissingEqualsFails(t *testing.T) {
	_, err := Parse("clock:notanoption")
	assert.Error(t, err)
}

func TestParseAllCollectsEverySpec(t *testing.T) {
	specs, err := ParseAll([]string{"clock", "keyboard:buffer=16"})
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "clock", specs[0].Name)
	assert.Equal(t, "keyboard", specs[1].Name)
	assert.Equal(t, "16", specs[1].Options["buffer"])
}

func TestParseAllStopsAtFirstError(t *testing.T) {
	_, err := ParseAll([]string{"clock", ":bad"})
	assert.Error(t, err)
}
