package lights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimLightSetNames(t *testing.T) {
	s := NewSimLightSet()
	s.Add(NewSimLight("Porch", 0), "Outside", "Front")
	s.Add(NewSimLight("Desk", 0), "Office", "Upstairs")
	s.Add(NewSimLight("Strip", 16), "Office", "")

	assert.Equal(t, []string{"Desk", "Porch", "Strip"}, s.LightNames())
	assert.Equal(t, []string{"Office", "Outside"}, s.GroupNames())
	assert.Equal(t, []string{"Front", "Upstairs"}, s.LocationNames())

	office, ok := s.GetGroup("Office")
	require.True(t, ok)
	assert.Equal(t, []string{"Desk", "Strip"}, office)

	_, ok = s.GetLocation("Basement")
	assert.False(t, ok)
	_, ok = s.GetLight("Nope")
	assert.False(t, ok)
}

func TestSimLightColorAndPower(t *testing.T) {
	l := NewSimLight("Desk", 0)
	c := Color{Hue: 100, Saturation: 200, Brightness: 300, Kelvin: 2700}
	require.NoError(t, l.SetColor(c, time.Second))
	got, err := l.GetColor()
	require.NoError(t, err)
	assert.Equal(t, c, got)

	require.NoError(t, l.SetPower(PowerOn, 0))
	assert.Equal(t, PowerOn, l.Power())
	assert.False(t, l.Multizone())
	assert.Error(t, l.SetZoneColor(0, 0, c, 0))
}

func TestSimLightZones(t *testing.T) {
	l := NewSimLight("Strip", 8)
	assert.True(t, l.Multizone())
	assert.Equal(t, 8, l.ZoneCount())

	c := Color{Hue: 1, Saturation: 2, Brightness: 3, Kelvin: 4}
	require.NoError(t, l.SetZoneColor(2, 4, c, 0))
	zones, err := l.GetColorZones(1, 5)
	require.NoError(t, err)
	assert.Equal(t, []Color{{}, c, c, c, {}}, zones)

	_, err = l.GetColorZones(6, 9)
	assert.Error(t, err)
}
