package integration

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lumen-dev/lumen/asm"
	"github.com/lumen-dev/lumen/cas"
	"github.com/lumen-dev/lumen/config"
	"github.com/lumen-dev/lumen/interp"
	"github.com/lumen-dev/lumen/lights"
	"github.com/lumen-dev/lumen/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const houseConfig = `
[machine]
pause = false
output = "discard"

[[light]]
name = "Desk"
group = "Office"
location = "Upstairs"

[[light]]
name = "Strip"
group = "Office"
location = "Upstairs"
zones = 8

[[light]]
name = "Lamp"
location = "Downstairs"
`

// officeProgram colors the Office group, then prints every light name.
const officeProgram = `
name = "office"
code = [
  ["MOVEQ", 120, "%hue"],
  ["MOVEQ", 100, "%saturation"],
  ["MOVEQ", 50, "%brightness"],
  ["MOVEQ", 3500, "%kelvin"],
  ["MOVEQ", "#GROUP", "%operand"],
  ["MOVEQ", "Office", "%name"],
  ["COLOR"],
  ["DISC", "#ALL"],
  ["MOVE", "%result", "$cur"],
  ["PUSH", "$cur"],
  ["PUSHQ", "#NONE"],
  ["OP", "#NOTEQ"],
  ["POP", "%result"],
  ["JUMP", "#IF_FALSE", 5],
  ["OUT", "#LITERAL", "$cur"],
  ["OUT", "#PRINTLN"],
  ["DNEXT", "#ALL", "$cur"],
  ["JUMP", "#ALWAYS", -9],
  ["STOP"],
]
`

var officeColor = lights.Color{Hue: 21845, Saturation: 65535, Brightness: 32768, Kelvin: 3500}

type house struct {
	set *lights.SimLightSet
	out *bytes.Buffer
	m   *interp.Machine
}

func newHouse(t *testing.T, src string) *house {
	cfg, err := config.Parse(strings.NewReader(src))
	require.NoError(t, err)
	opts, closer, err := cfg.Options()
	require.NoError(t, err)
	t.Cleanup(func() { closer.Close() })

	h := &house{set: cfg.BuildLights(), out: &bytes.Buffer{}}
	opts.Lights = h.set
	opts.Output = h.out
	h.m = interp.NewMachine(opts)
	return h
}

func (h *house) color(t *testing.T, name string) lights.Color {
	l, ok := h.set.Sim(name)
	require.True(t, ok, name)
	c, err := l.GetColor()
	require.NoError(t, err)
	return c
}

func TestConfiguredHouse(t *testing.T) {
	h := newHouse(t, houseConfig)
	err := h.m.RunSource(context.Background(), asm.NewLoader(), "office", strings.NewReader(officeProgram))
	require.NoError(t, err)

	assert.Equal(t, "Desk\nLamp\nStrip\n", h.out.String())
	assert.Equal(t, officeColor, h.color(t, "Desk"))
	assert.Equal(t, officeColor, h.color(t, "Strip"))
	assert.Equal(t, lights.Color{}, h.color(t, "Lamp"))
}

func TestRawUnitModeFromConfig(t *testing.T) {
	h := newHouse(t, strings.Replace(houseConfig, "pause = false", "pause = false\nunit_mode = \"raw\"", 1))
	const src = `
code = [
  ["MOVEQ", 21845, "%hue"],
  ["MOVEQ", 65535, "%saturation"],
  ["MOVEQ", 32768, "%brightness"],
  ["MOVEQ", 3500, "%kelvin"],
  ["MOVEQ", "#LIGHT", "%operand"],
  ["MOVEQ", "Lamp", "%name"],
  ["COLOR"],
]
`
	require.NoError(t, h.m.RunSource(context.Background(), asm.NewLoader(), "raw", strings.NewReader(src)))
	assert.Equal(t, vm.RAW, h.m.Registers().UnitMode)
	assert.Equal(t, officeColor, h.color(t, "Lamp"))
	assert.Equal(t, lights.Color{}, h.color(t, "Desk"))
}

func TestCachedBinaryProgram(t *testing.T) {
	p, err := asm.NewLoader().Load("office", strings.NewReader(officeProgram))
	require.NoError(t, err)
	var bin bytes.Buffer
	require.NoError(t, vm.EncodeProgram(&bin, p))

	loader := cas.NewCachingLoader(asm.BinaryLoader{}, cas.NewMemoryStore(), 4)
	h := newHouse(t, houseConfig)
	for i := 0; i < 3; i++ {
		err := h.m.RunSource(context.Background(), loader, "office", bytes.NewReader(bin.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, "office", h.m.Program().Name)
		assert.Equal(t, p.Fingerprint(), h.m.Program().Fingerprint())
	}
	assert.Equal(t, strings.Repeat("Desk\nLamp\nStrip\n", 3), h.out.String())
	// Only the third load finds the decoded program already cached.
	assert.Equal(t, 1, loader.Stats().Hits)
	assert.Equal(t, 1, loader.Stats().Misses)
}

func TestDisassembledProgramBehavesTheSame(t *testing.T) {
	p, err := asm.NewLoader().Load("office", strings.NewReader(officeProgram))
	require.NoError(t, err)
	var text bytes.Buffer
	require.NoError(t, asm.Disassemble(&text, p))

	h := newHouse(t, houseConfig)
	require.NoError(t, h.m.RunSource(context.Background(), asm.NewLoader(), "again", &text))
	assert.Equal(t, "Desk\nLamp\nStrip\n", h.out.String())
	assert.Equal(t, officeColor, h.color(t, "Strip"))
}
