package command

import (
	"fmt"

	"github.com/pixil98/go-dungeon/internal/chunk"
	"github.com/pixil98/go-dungeon/internal/dungeon"
	"github.com/pixil98/go-dungeon/internal/noise"
	"github.com/pixil98/go-dungeon/internal/storage"
	"github.com/pixil98/go-errors"
)

type DungeonConfig struct {
	BaseMapSize    int      `json:"base_map_size"`
	DrawDistance   int      `json:"draw_distance"`
	PlacementValue *float64 `json:"placement_value"`
	NoiseFixer     *float64 `json:"noise_fixer"`
	AxisSignX      *int     `json:"axis_sign_x"`
	AxisSignY      *int     `json:"axis_sign_y"`
	XOffset        int      `json:"x_offset"`
	YOffset        int      `json:"y_offset"`

	Template storage.SmartIdentifier[*chunk.Template] `json:"template"`
}

func (c *DungeonConfig) validate() error {
	el := errors.NewErrorList()

	if err := c.engineConfig().Validate(); err != nil {
		el.Add(fmt.Errorf("dungeon: %w", err))
	}
	if err := c.Template.Validate(); err != nil {
		el.Add(fmt.Errorf("dungeon: %w", err))
	}

	return el.Err()
}

// engineConfig fills unset optional fields from dungeon.DefaultConfig.
func (c *DungeonConfig) engineConfig() dungeon.Config {
	cfg := dungeon.DefaultConfig()
	cfg.BaseMapSize = c.BaseMapSize
	cfg.DrawDistance = c.DrawDistance
	cfg.Offsets = noise.Offsets{X: c.XOffset, Y: c.YOffset}

	if c.PlacementValue != nil {
		cfg.PlacementValue = *c.PlacementValue
	}
	if c.NoiseFixer != nil {
		cfg.NoiseFixer = *c.NoiseFixer
	}
	if c.AxisSignX != nil {
		cfg.AxisSignX = *c.AxisSignX
	}
	if c.AxisSignY != nil {
		cfg.AxisSignY = *c.AxisSignY
	}

	return cfg
}

func (c *DungeonConfig) buildEngine(templates storage.Storer[*chunk.Template], sub dungeon.Substrate, obs dungeon.Observer) (*dungeon.Engine, error) {
	if err := c.Template.Resolve(templates); err != nil {
		return nil, fmt.Errorf("resolving template: %w", err)
	}

	return dungeon.NewEngine(c.engineConfig(),
		dungeon.WithTemplate(c.Template.Get()),
		dungeon.WithSubstrate(sub),
		dungeon.WithObserver(obs),
	), nil
}
