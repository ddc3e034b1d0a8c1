package dungeon

import "github.com/pixil98/go-dungeon/internal/chunk"

type EngineOpt func(*Engine)

// WithTemplate sets the layout every pooled chunk is built from.
func WithTemplate(t *chunk.Template) EngineOpt {
	return func(e *Engine) {
		e.template = t
	}
}

// WithSubstrate sets the host world that renders and collides chunks.
func WithSubstrate(s Substrate) EngineOpt {
	return func(e *Engine) {
		e.substrate = s
	}
}

// WithObserver sets the entity moved onto the dungeon after every regeneration.
func WithObserver(o Observer) EngineOpt {
	return func(e *Engine) {
		e.observer = o
	}
}
