// Package level holds the read-only level catalog consumed by the simulation.
package level

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed levels.toml
var defaultLevels string

// Config describes the numeric parameters of one level.
type Config struct {
	Index         int     `toml:"-"`
	Name          string  `toml:"name"`
	RequiredPipes int     `toml:"required_pipes"` // Pipe passes needed to complete the level
	Spacing       float64 `toml:"spacing"`        // Distance between consecutive segments
	GapSize       float64 `toml:"gap_size"`       // Vertical opening between barriers
	GapJitter     float64 `toml:"gap_jitter"`     // Gap center is randomized within ±GapJitter
	Speed         float64 `toml:"speed"`          // Track scroll speed, units per second
	PickupChance  float64 `toml:"pickup_chance"`  // Probability each pickup slot is filled
	TrapChance    float64 `toml:"trap_chance"`    // Probability a filled slot is a trap
	Music         int     `toml:"music"`          // Melody index for the audio collaborator
}

// Catalog is an ordered, validated list of levels.
type Catalog struct {
	levels []Config
}

type catalogFile struct {
	Level []Config `toml:"level"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultLevels)
	if err != nil {
		panic(fmt.Sprintf("level: built-in catalog invalid: %v", err))
	}
	return c
}

// Parse decodes and validates a TOML level catalog.
func Parse(data string) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode levels: %w", err)
	}
	return newCatalog(f.Level)
}

// Read decodes a catalog from r.
func Read(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode levels: %w", err)
	}
	return newCatalog(f.Level)
}

// LoadFile reads a catalog from path. An empty path yields the built-in catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open levels: %w", err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func newCatalog(levels []Config) (*Catalog, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("no levels defined")
	}
	for i := range levels {
		levels[i].Index = i + 1
		if err := levels[i].Validate(); err != nil {
			return nil, err
		}
	}
	return &Catalog{levels: levels}, nil
}

// Validate checks that the level parameters are usable by the track.
func (c Config) Validate() error {
	switch {
	case c.RequiredPipes < 1:
		return fmt.Errorf("level %d: required_pipes must be at least 1, got %d", c.Index, c.RequiredPipes)
	case c.Spacing <= 0:
		return fmt.Errorf("level %d: spacing must be positive, got %v", c.Index, c.Spacing)
	case c.GapSize <= 0:
		return fmt.Errorf("level %d: gap_size must be positive, got %v", c.Index, c.GapSize)
	case c.GapJitter < 0:
		return fmt.Errorf("level %d: gap_jitter must not be negative, got %v", c.Index, c.GapJitter)
	case c.Speed <= 0:
		return fmt.Errorf("level %d: speed must be positive, got %v", c.Index, c.Speed)
	case c.PickupChance < 0 || c.PickupChance > 1:
		return fmt.Errorf("level %d: pickup_chance must be in [0,1], got %v", c.Index, c.PickupChance)
	case c.TrapChance < 0 || c.TrapChance > 1:
		return fmt.Errorf("level %d: trap_chance must be in [0,1], got %v", c.Index, c.TrapChance)
	}
	return nil
}

// Count returns the number of levels, which is also the final level index.
func (c *Catalog) Count() int {
	return len(c.levels)
}

// Level returns the configuration for the 1-based level n, clamped to the
// catalog range.
func (c *Catalog) Level(n int) Config {
	if n < 1 {
		n = 1
	}
	if n > len(c.levels) {
		n = len(c.levels)
	}
	return c.levels[n-1]
}
