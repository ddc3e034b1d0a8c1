package dungeon

import (
	"fmt"

	"github.com/pixil98/go-dungeon/internal/noise"
	"github.com/pixil98/go-errors"
)

const (
	DefaultPlacementValue = 0.35
	DefaultNoiseFixer     = 0.5
)

// Config holds the streaming parameters.
type Config struct {
	// BaseMapSize is the side length of the pool; the pool holds BaseMapSize² chunks.
	BaseMapSize int
	// DrawDistance is the radius of the square window evaluated around the centre.
	DrawDistance int
	// PlacementValue is the occupancy threshold in [0, 1].
	PlacementValue float64
	// NoiseFixer keeps samples off the integer lattice, in [0.01, 0.99].
	NoiseFixer float64
	// AxisSignX and AxisSignY mirror or collapse the world layout, each -1, 0 or 1.
	AxisSignX int
	AxisSignY int
	// Offsets seed the first regeneration.
	Offsets noise.Offsets
}

// DefaultConfig returns a 3x3 pool with a one chunk draw distance.
func DefaultConfig() Config {
	return Config{
		BaseMapSize:    3,
		DrawDistance:   1,
		PlacementValue: DefaultPlacementValue,
		NoiseFixer:     DefaultNoiseFixer,
		AxisSignX:      1,
		AxisSignY:      1,
	}
}

// PoolSize is the number of chunks the pool owns.
func (c Config) PoolSize() int {
	return c.BaseMapSize * c.BaseMapSize
}

// WindowSize is the number of coordinates a placement pass evaluates.
func (c Config) WindowSize() int {
	side := 2*c.DrawDistance + 1
	return side * side
}

func (c Config) Validate() error {
	el := errors.NewErrorList()

	if c.BaseMapSize <= 0 {
		el.Add(fmt.Errorf("base map size must be positive, got %d", c.BaseMapSize))
	}
	if c.DrawDistance < 0 {
		el.Add(fmt.Errorf("draw distance must not be negative, got %d", c.DrawDistance))
	}
	if c.PlacementValue < 0 || c.PlacementValue > 1 {
		el.Add(fmt.Errorf("placement value must be within [0, 1], got %v", c.PlacementValue))
	}
	if c.NoiseFixer < 0.01 || c.NoiseFixer > 0.99 {
		el.Add(fmt.Errorf("noise fixer must be within [0.01, 0.99], got %v", c.NoiseFixer))
	}
	if !validSign(c.AxisSignX) {
		el.Add(fmt.Errorf("axis sign x must be -1, 0 or 1, got %d", c.AxisSignX))
	}
	if !validSign(c.AxisSignY) {
		el.Add(fmt.Errorf("axis sign y must be -1, 0 or 1, got %d", c.AxisSignY))
	}

	return el.Err()
}

func validSign(s int) bool {
	return s >= -1 && s <= 1
}
