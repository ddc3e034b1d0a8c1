package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-dungeon/internal/chunk"
	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string                       `json:"tick_interval"`
	Dungeon      DungeonConfig                `json:"dungeon"`
	Templates    AssetConfig[*chunk.Template] `json:"templates"`
	Nats         NatsConfig                   `json:"nats"`
	Viewer       ViewerConfig                 `json:"viewer"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d < 100*time.Millisecond {
			el.Add(fmt.Errorf("tick_interval must be at least 100ms"))
		}
	}

	el.Add(c.Dungeon.validate())
	el.Add(c.Templates.Validate("templates"))
	el.Add(c.Nats.validate())

	return el.Err()
}

// tickInterval returns the configured interval; Validate has already parsed it.
func (c *Config) tickInterval() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0
	}
	return d
}
