package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumen-dev/lumen/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[machine]
unit_mode = "rgb"
pause = false
output = "discard"

[[light]]
name = "Desk"
group = "Office"
location = "Upstairs"

[[light]]
name = "Strip"
group = "Office"
zones = 8
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, vm.RGB, c.UnitMode())
	assert.False(t, c.PauseEnabled())
	require.Len(t, c.Lights, 2)
	assert.Equal(t, LightConfig{Name: "Strip", Group: "Office", Zones: 8}, c.Lights[1])

	set := c.BuildLights()
	assert.Equal(t, []string{"Desk", "Strip"}, set.LightNames())
	office, ok := set.GetGroup("Office")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"Desk", "Strip"}, office)
	_, ok = set.GetLocation("Upstairs")
	assert.True(t, ok)
	strip, ok := set.GetLight("Strip")
	require.True(t, ok)
	assert.True(t, strip.Multizone())

	opts, closer, err := c.Options()
	require.NoError(t, err)
	defer closer.Close()
	assert.True(t, opts.NoPause)
	assert.Equal(t, vm.RGB, opts.UnitMode)
	assert.Equal(t, io.Discard, opts.Output)
	assert.NotNil(t, opts.Lights)
}

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, vm.LOGICAL, c.UnitMode())
	assert.True(t, c.PauseEnabled())
	w, closer, err := c.OpenOutput()
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.Equal(t, os.Stdout, w)
	assert.Empty(t, c.BuildLights().LightNames())
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"bad toml":       `[machine`,
		"unit mode":      "[machine]\nunit_mode = \"hsv\"",
		"unnamed light":  "[[light]]\ngroup = \"x\"",
		"duplicate":      "[[light]]\nname = \"a\"\n[[light]]\nname = \"a\"",
		"negative zones": "[[light]]\nname = \"a\"\nzones = -1",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFileResolvesOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lumen.toml")
	require.NoError(t, os.WriteFile(path, []byte("[machine]\noutput = \"run.log\"\n"), 0o644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	w, closer, err := c.OpenOutput()
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello\n")
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "run.log"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	_, err = LoadFromFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
