package substrate

import (
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Observer is a positional stand-in for the player controller.
type Observer struct {
	mu       sync.RWMutex
	position mgl64.Vec3
	moves    int
}

// SetPosition satisfies dungeon.Observer.
func (o *Observer) SetPosition(pos mgl64.Vec3) {
	o.mu.Lock()
	o.position = pos
	o.moves++
	o.mu.Unlock()

	slog.Debug("observer moved", "x", pos.X(), "y", pos.Y(), "z", pos.Z())
}

func (o *Observer) Position() mgl64.Vec3 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.position
}

// Moves returns how many times the position has been written.
func (o *Observer) Moves() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.moves
}
