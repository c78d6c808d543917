// Package config reads the TOML file describing the light set and machine
// defaults used by the CLI.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lumen-dev/lumen/interp"
	"github.com/lumen-dev/lumen/lights"
	"github.com/lumen-dev/lumen/vm"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Machine MachineConfig `toml:"machine"`
	Lights  []LightConfig `toml:"light"`

	dir string
}

type MachineConfig struct {
	UnitMode string `toml:"unit_mode,omitempty"`
	Pause    *bool  `toml:"pause,omitempty"`
	Output   string `toml:"output,omitempty"`
}

type LightConfig struct {
	Name     string `toml:"name"`
	Group    string `toml:"group,omitempty"`
	Location string `toml:"location,omitempty"`
	Zones    int    `toml:"zones,omitempty"`
}

// Default is the configuration used when no file is given: no lights,
// logical units, pausing on, output to stdout.
func Default() *Config {
	return &Config{}
}

func Parse(r io.Reader) (*Config, error) {
	var out Config
	md, err := toml.NewDecoder(r).Decode(&out)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warn().Interface("keys", undecoded).Msg("Ignoring unknown config keys")
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.dir = filepath.Dir(path)
	return c, nil
}

func (c *Config) validate() error {
	if c.Machine.UnitMode != "" {
		if _, ok := vm.ParseUnitMode(c.Machine.UnitMode); !ok {
			return fmt.Errorf("Unknown unit mode %q", c.Machine.UnitMode)
		}
	}
	seen := make(map[string]bool, len(c.Lights))
	for i, l := range c.Lights {
		if l.Name == "" {
			return fmt.Errorf("light %d has no name", i)
		}
		if seen[l.Name] {
			return fmt.Errorf("Duplicate light %q", l.Name)
		}
		if l.Zones < 0 {
			return fmt.Errorf("light %q: negative zone count %d", l.Name, l.Zones)
		}
		seen[l.Name] = true
	}
	return nil
}

func (c *Config) UnitMode() vm.UnitMode {
	m, _ := vm.ParseUnitMode(c.Machine.UnitMode)
	return m
}

func (c *Config) PauseEnabled() bool {
	return c.Machine.Pause == nil || *c.Machine.Pause
}

// BuildLights creates the simulated light set the file describes.
func (c *Config) BuildLights() *lights.SimLightSet {
	set := lights.NewSimLightSet()
	for _, l := range c.Lights {
		set.Add(lights.NewSimLight(l.Name, l.Zones), l.Group, l.Location)
	}
	return set
}

// OpenOutput resolves the output setting. "stdout" (or empty), "stderr" and
// "discard" are special; anything else is a file, relative to the config
// file's directory, opened for appending. The returned closer is never nil.
func (c *Config) OpenOutput() (io.Writer, io.Closer, error) {
	switch strings.ToLower(c.Machine.Output) {
	case "", "stdout", "-":
		return os.Stdout, io.NopCloser(nil), nil
	case "stderr":
		return os.Stderr, io.NopCloser(nil), nil
	case "discard":
		return io.Discard, io.NopCloser(nil), nil
	}
	path := c.Machine.Output
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening output: %w", err)
	}
	return f, f, nil
}

// Options builds machine options from the file. The closer releases the
// output file, if any.
func (c *Config) Options() (interp.Options, io.Closer, error) {
	w, closer, err := c.OpenOutput()
	if err != nil {
		return interp.Options{}, nil, err
	}
	return interp.Options{
		Lights:   c.BuildLights(),
		Output:   w,
		NoPause:  !c.PauseEnabled(),
		UnitMode: c.UnitMode(),
	}, closer, nil
}
