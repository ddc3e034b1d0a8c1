package command

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pixil98/go-dungeon/internal/viewer"
)

type ViewerConfig struct {
	Enabled bool `json:"enabled"`
}

func (c *ViewerConfig) buildViewer(e viewer.Engine) (*viewer.Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}

	return viewer.NewViewer(e, screen), nil
}
