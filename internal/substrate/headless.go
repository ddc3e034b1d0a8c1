package substrate

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pixil98/go-dungeon/internal/chunk"
)

// Headless is an in-memory substrate. It keeps the last state pushed to every body so
// that servers without a renderer, tools and tests can inspect the world.
type Headless struct {
	mu     sync.RWMutex
	bodies map[uuid.UUID]*Body
}

func NewHeadless() *Headless {
	return &Headless{
		bodies: map[uuid.UUID]*Body{},
	}
}

// NewBody satisfies dungeon.Substrate.
func (h *Headless) NewBody(id uuid.UUID, t *chunk.Template) chunk.Body {
	b := &Body{
		owner:     h,
		id:        id,
		decor:     make([]bool, len(t.Decor)),
		obstacles: make([]bool, len(t.Obstacles)),
	}

	h.mu.Lock()
	h.bodies[id] = b
	h.mu.Unlock()

	return b
}

// Body returns the live body with the given id, or nil.
func (h *Headless) Body(id uuid.UUID) *Body {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.bodies[id]
}

// Len returns the number of bodies that have not been destroyed.
func (h *Headless) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.bodies)
}

// Active returns the number of visible bodies.
func (h *Headless) Active() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, b := range h.bodies {
		if b.Active() {
			n++
		}
	}
	return n
}

func (h *Headless) remove(id uuid.UUID) {
	h.mu.Lock()
	delete(h.bodies, id)
	h.mu.Unlock()
}

// Body records the state of a single chunk.
type Body struct {
	owner *Headless
	id    uuid.UUID

	mu        sync.RWMutex
	name      string
	active    bool
	position  mgl64.Vec3
	walls     [4]bool
	decor     []bool
	obstacles []bool
	destroyed bool
}

func (b *Body) SetActive(active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = active
}

func (b *Body) SetPosition(pos mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.position = pos
}

func (b *Body) SetName(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.name = name
}

func (b *Body) SetWall(d chunk.Direction, active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.walls[d] = active
}

func (b *Body) SetDecor(i int, active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.decor[i] = active
}

func (b *Body) SetObstacle(i int, active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.obstacles[i] = active
}

func (b *Body) Destroy() {
	b.mu.Lock()
	b.destroyed = true
	b.active = false
	b.mu.Unlock()

	b.owner.remove(b.id)
}

func (b *Body) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

func (b *Body) Active() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.active
}

func (b *Body) Position() mgl64.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.position
}

func (b *Body) Walls() [4]bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.walls
}

func (b *Body) Decor() []bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]bool(nil), b.decor...)
}

func (b *Body) Obstacles() []bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]bool(nil), b.obstacles...)
}

func (b *Body) Destroyed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.destroyed
}
