package lights

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// SimLight is an in-memory light. It records the last color and power it
// was given and logs every command.
type SimLight struct {
	mu    sync.RWMutex
	name  string
	color Color
	power uint16
	zones []Color
}

// NewSimLight creates a light; zones > 0 makes it multi-zone.
func NewSimLight(name string, zones int) *SimLight {
	l := &SimLight{name: name}
	if zones > 0 {
		l.zones = make([]Color, zones)
	}
	return l
}

func (l *SimLight) Name() string    { return l.name }
func (l *SimLight) Multizone() bool { return len(l.zones) > 0 }
func (l *SimLight) ZoneCount() int  { return len(l.zones) }

func (l *SimLight) SetColor(c Color, d time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
	for i := range l.zones {
		l.zones[i] = c
	}
	log.Debug().Str("light", l.name).Stringer("color", c).Dur("duration", d).Msg("set color")
	return nil
}

func (l *SimLight) SetPower(level uint16, d time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.power = level
	log.Debug().Str("light", l.name).Uint16("power", level).Dur("duration", d).Msg("set power")
	return nil
}

func (l *SimLight) GetColor() (Color, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.color, nil
}

func (l *SimLight) Power() uint16 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.power
}

func (l *SimLight) checkZones(start, end int) error {
	if !l.Multizone() {
		return fmt.Errorf("Light %q is not multi-zone", l.name)
	}
	if start < 0 || end < start || end >= len(l.zones) {
		return fmt.Errorf("Zones %d-%d out of range for light %q with %d zones", start, end, l.name, len(l.zones))
	}
	return nil
}

func (l *SimLight) SetZoneColor(start, end int, c Color, d time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkZones(start, end); err != nil {
		return err
	}
	for i := start; i <= end; i++ {
		l.zones[i] = c
	}
	log.Debug().Str("light", l.name).Int("start", start).Int("end", end).Stringer("color", c).Dur("duration", d).Msg("set zone color")
	return nil
}

func (l *SimLight) GetColorZones(start, end int) ([]Color, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.checkZones(start, end); err != nil {
		return nil, err
	}
	return slices.Clone(l.zones[start : end+1]), nil
}

// SimLightSet is a LightSet over SimLights.
type SimLightSet struct {
	mu        sync.RWMutex
	lights    map[string]*SimLight
	groups    map[string][]string
	locations map[string][]string
}

func NewSimLightSet() *SimLightSet {
	return &SimLightSet{
		lights:    make(map[string]*SimLight),
		groups:    make(map[string][]string),
		locations: make(map[string][]string),
	}
}

// Add registers a light and files it under a group and location; empty
// names are skipped.
func (s *SimLightSet) Add(l *SimLight, group, location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights[l.name] = l
	if group != "" && !slices.Contains(s.groups[group], l.name) {
		s.groups[group] = append(s.groups[group], l.name)
	}
	if location != "" && !slices.Contains(s.locations[location], l.name) {
		s.locations[location] = append(s.locations[location], l.name)
	}
}

func (s *SimLightSet) GetLight(name string) (Light, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lights[name]
	if !ok {
		return nil, false
	}
	return l, true
}

// Sim returns the concrete light, for inspecting state.
func (s *SimLightSet) Sim(name string) (*SimLight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lights[name]
	return l, ok
}

func (s *SimLightSet) GetGroup(name string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[name]
	return slices.Clone(g), ok
}

func (s *SimLightSet) GetLocation(name string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.locations[name]
	return slices.Clone(l), ok
}

func (s *SimLightSet) LightNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.lights)
}

func (s *SimLightSet) GroupNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.groups)
}

func (s *SimLightSet) LocationNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.locations)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
