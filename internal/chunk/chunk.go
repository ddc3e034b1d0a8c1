package chunk

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Body is the host-world presence of a chunk: whatever renders it, collides with it
// and reports when the observer walks into it.
type Body interface {
	SetActive(active bool)
	SetPosition(pos mgl64.Vec3)
	SetName(name string)
	SetWall(d Direction, active bool)
	SetDecor(i int, active bool)
	SetObstacle(i int, active bool)
	Destroy()
}

// Random is the uniform integer source used for first-visit decoration.
type Random interface {
	Intn(n int) int
}

type listener struct {
	id int
	fn func()
}

// Chunk is a pooled, reusable unit of world space. A chunk is built once per pool
// and cycles between unused and placed; its coordinate binding survives deactivation
// so the pool can find it again by coordinate.
type Chunk struct {
	slot     int
	id       uuid.UUID
	template *Template
	body     Body
	store    StateStore
	rng      Random

	name     string
	coord    Coordinate
	bound    bool
	active   bool
	position mgl64.Vec3

	walls     [4]bool // true = wall segment is blocking
	decor     []bool
	obstacles []bool

	listeners    []listener
	nextListener int
}

// New builds an inactive, unbound chunk for the given pool slot. Every wall and
// item starts active, matching the template as authored.
func New(slot int, id uuid.UUID, t *Template, body Body, store StateStore, rng Random) *Chunk {
	c := &Chunk{
		slot:      slot,
		id:        id,
		template:  t,
		body:      body,
		store:     store,
		rng:       rng,
		name:      fmt.Sprintf("Chunk %d", slot),
		walls:     [4]bool{true, true, true, true},
		decor:     make([]bool, len(t.Decor)),
		obstacles: make([]bool, len(t.Obstacles)),
	}
	for i := range c.decor {
		c.decor[i] = true
	}
	for i := range c.obstacles {
		c.obstacles[i] = true
	}

	body.SetName(c.name)
	body.SetActive(false)

	return c
}

func (c *Chunk) Slot() int            { return c.slot }
func (c *Chunk) ID() uuid.UUID        { return c.id }
func (c *Chunk) Name() string         { return c.name }
func (c *Chunk) Size() int            { return c.template.Size }
func (c *Chunk) Active() bool         { return c.active }
func (c *Chunk) Position() mgl64.Vec3 { return c.position }

// Coordinate returns the bound coordinate, or false if the chunk was never placed.
func (c *Chunk) Coordinate() (Coordinate, bool) {
	return c.coord, c.bound
}

// Walls reports which wall segments are blocking, in N, E, S, W order.
func (c *Chunk) Walls() [4]bool {
	return c.walls
}

func (c *Chunk) DecorMask() []bool {
	return append([]bool(nil), c.decor...)
}

func (c *Chunk) ObstacleMask() []bool {
	return append([]bool(nil), c.obstacles...)
}

func (c *Chunk) Activate() {
	c.active = true
	c.body.SetActive(true)
}

// Deactivate hides the chunk and drops every entered listener. The coordinate
// binding is kept.
func (c *Chunk) Deactivate() {
	c.active = false
	c.body.SetActive(false)
	c.listeners = nil
}

func (c *Chunk) SetPosition(pos mgl64.Vec3) {
	c.position = pos
	c.body.SetPosition(pos)
}

// Bind moves the chunk to coord. A coordinate seen before gets its saved decoration
// back; a new one is decorated at random and saved.
func (c *Chunk) Bind(coord Coordinate) {
	c.name = fmt.Sprintf("Chunk %d %d", coord.X, coord.Y)
	c.body.SetName(c.name)

	if r, ok := c.store.Get(coord); ok {
		c.load(r)
		return
	}

	c.coord = coord
	c.bound = true
	c.randomize()
	c.save()
}

// SetWalls opens the wall towards every direction whose gate is true.
func (c *Chunk) SetWalls(gates [4]bool) {
	for _, d := range Directions {
		c.walls[d] = !gates[d]
		c.body.SetWall(d, c.walls[d])
	}
}

// OnEntered registers fn to run whenever the observer enters the chunk.
// The returned func removes it again.
func (c *Chunk) OnEntered(fn func()) (unsubscribe func()) {
	id := c.nextListener
	c.nextListener++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})

	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns the number of registered entered listeners.
func (c *Chunk) Listeners() int {
	return len(c.listeners)
}

// Enter signals that the observer has entered the chunk.
func (c *Chunk) Enter() {
	if !c.active {
		slog.Debug("ignoring enter on inactive chunk", "chunk", c.name)
		return
	}

	fns := make([]func(), 0, len(c.listeners))
	for _, l := range c.listeners {
		fns = append(fns, l.fn)
	}
	for _, fn := range fns {
		fn()
	}
}

// Destroy releases the chunk's body. The chunk must not be used afterwards.
func (c *Chunk) Destroy() {
	c.listeners = nil
	c.body.Destroy()
}

func (c *Chunk) randomize() {
	for i := range c.decor {
		c.setDecor(i, c.rng.Intn(2) == 0)
	}
	for i := range c.obstacles {
		c.setObstacle(i, c.rng.Intn(2) == 0)
	}
}

func (c *Chunk) load(r Record) {
	for i := 0; i < len(r.Decor) && i < len(c.decor); i++ {
		c.setDecor(i, r.Decor[i])
	}
	for i := 0; i < len(r.Obstacles) && i < len(c.obstacles); i++ {
		c.setObstacle(i, r.Obstacles[i])
	}
	c.coord = r.Coordinate
	c.bound = true
}

func (c *Chunk) save() {
	c.store.Put(Record{
		Coordinate: c.coord,
		Decor:      c.DecorMask(),
		Obstacles:  c.ObstacleMask(),
	})
}

func (c *Chunk) setDecor(i int, active bool) {
	c.decor[i] = active
	c.body.SetDecor(i, active)
}

func (c *Chunk) setObstacle(i int, active bool) {
	c.obstacles[i] = active
	c.body.SetObstacle(i, active)
}
