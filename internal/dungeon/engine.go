package dungeon

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pixil98/go-dungeon/internal/chunk"
	"github.com/pixil98/go-dungeon/internal/noise"
	"github.com/sasha-s/go-deadlock"
)

// Substrate creates the host-world bodies backing pooled chunks.
type Substrate interface {
	NewBody(id uuid.UUID, t *chunk.Template) chunk.Body
}

// Observer is the entity the dungeon streams around. The engine only ever writes
// its position, once per regeneration.
type Observer interface {
	SetPosition(pos mgl64.Vec3)
}

// Engine streams pooled chunks around the observer.
//
// Every exported method takes the engine lock, and entered listeners run with it
// held, so the pool and the state store form a single critical section.
type Engine struct {
	mu deadlock.Mutex

	cfg       Config
	template  *chunk.Template
	substrate Substrate
	observer  Observer

	offsets noise.Offsets
	field   *noise.Field
	rng     *rand.Rand
	store   *chunk.MemoryStore
	pool    *Pool

	passes int
}

func NewEngine(cfg Config, opts ...EngineOpt) *Engine {
	e := &Engine{
		cfg:     cfg,
		offsets: cfg.Offsets,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Generate throws the current dungeon away and builds a new one from the next
// offset pair, then moves the observer onto the first placed chunk.
// Nothing is touched when the configuration or a collaborator is invalid.
func (e *Engine) Generate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.check(); err != nil {
		return err
	}

	e.offsets, e.rng = e.offsets.Reseed()
	e.field = noise.NewField(e.offsets, e.cfg.NoiseFixer, e.cfg.PlacementValue)

	e.clear()
	e.instantiate()
	e.placementPass(e.pool.unused[0])
	e.updateWalls()

	if len(e.pool.placed) == 0 {
		slog.Warn("generation placed no chunks, observer left in place",
			"x_offset", e.offsets.X, "y_offset", e.offsets.Y)
		return nil
	}

	e.observer.SetPosition(e.pool.placed[0].Position())

	slog.Info("dungeon generated",
		"x_offset", e.offsets.X,
		"y_offset", e.offsets.Y,
		"placed", len(e.pool.placed),
		"unused", len(e.pool.unused))

	return nil
}

// Clear destroys every pooled chunk and forgets all saved chunk state.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clear()
}

// ObserverEntered signals that the observer walked into the chunk placed at c,
// which re-centres streaming on it.
func (e *Engine) ObserverEntered(c chunk.Coordinate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pool == nil {
		return fmt.Errorf("%w: %s", ErrChunkNotPlaced, c)
	}

	ch := e.pool.PlacedAt(c)
	if ch == nil {
		return fmt.Errorf("%w: %s", ErrChunkNotPlaced, c)
	}

	ch.Enter()
	return nil
}

// EnterChunk is ObserverEntered keyed by chunk identity, as reported by a trigger
// volume attached to a body.
func (e *Engine) EnterChunk(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pool != nil {
		for _, ch := range e.pool.placed {
			if ch.ID() == id {
				ch.Enter()
				return nil
			}
		}
	}

	return fmt.Errorf("%w: chunk %s", ErrChunkNotPlaced, id)
}

// Stats summarises the engine state.
type Stats struct {
	Pool      int           `json:"pool"`
	Placed    int           `json:"placed"`
	Unused    int           `json:"unused"`
	Records   int           `json:"records"`
	Passes    int           `json:"passes"`
	Offsets   noise.Offsets `json:"offsets"`
	Threshold float64       `json:"threshold"`
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		Passes:  e.passes,
		Offsets: e.offsets,
	}
	if e.pool != nil {
		s.Pool = e.pool.Len()
		s.Placed = len(e.pool.placed)
		s.Unused = len(e.pool.unused)
	}
	if e.store != nil {
		s.Records = e.store.Len()
	}
	if e.field != nil {
		s.Threshold = e.field.Threshold()
	}
	return s
}

// ChunkView is a read-only copy of a placed chunk.
type ChunkView struct {
	Slot       int
	Name       string
	Coordinate chunk.Coordinate
	Position   mgl64.Vec3
	Walls      [4]bool
}

// Snapshot returns the placed chunks in placement order.
func (e *Engine) Snapshot() []ChunkView {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pool == nil {
		return nil
	}

	views := make([]ChunkView, 0, len(e.pool.placed))
	for _, ch := range e.pool.placed {
		coord, _ := ch.Coordinate()
		views = append(views, ChunkView{
			Slot:       ch.Slot(),
			Name:       ch.Name(),
			Coordinate: coord,
			Position:   ch.Position(),
			Walls:      ch.Walls(),
		})
	}
	return views
}

// Field returns the noise field of the current generation, or nil before the first.
// The field is immutable, so callers may query it without the engine lock.
func (e *Engine) Field() *noise.Field {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.field
}

func (e *Engine) check() error {
	if e.template == nil {
		return fmt.Errorf("%w: chunk template is not set", ErrMissingCollaborator)
	}
	if e.substrate == nil {
		return fmt.Errorf("%w: substrate is not set", ErrMissingCollaborator)
	}
	if e.observer == nil {
		return fmt.Errorf("%w: observer is not set", ErrMissingCollaborator)
	}

	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := e.template.Validate(); err != nil {
		return fmt.Errorf("%w: template: %w", ErrInvalidConfig, err)
	}

	return nil
}

func (e *Engine) clear() {
	if e.pool != nil {
		e.pool.destroy()
	}
	e.pool = nil
	e.store = nil
}

func (e *Engine) instantiate() {
	e.store = chunk.NewMemoryStore()

	chunks := make([]*chunk.Chunk, e.cfg.PoolSize())
	for i := range chunks {
		id := uuid.New()
		body := e.substrate.NewBody(id, e.template)
		chunks[i] = chunk.New(i, id, e.template, body, e.store, e.rng)
	}

	e.pool = newPool(chunks)
}

// placementPass re-evaluates the window around center. Coordinates are scanned row
// by row (y outer, x inner), which decides who gets the last free chunks when the
// window is larger than the pool. A chunk that was never bound sits at the origin.
func (e *Engine) placementPass(center *chunk.Chunk) {
	e.passes++

	origin, _ := center.Coordinate()
	d := e.cfg.DrawDistance
	needed := make(map[*chunk.Chunk]struct{}, e.cfg.WindowSize())

	for y := -d; y <= d; y++ {
		for x := -d; x <= d; x++ {
			coord := origin.Add(x, y)

			ch := e.pool.PlacedAt(coord)
			if ch == nil && e.field.Occupied(coord) {
				ch = e.admit(coord)
			}

			if ch != nil {
				needed[ch] = struct{}{}
			}
		}
	}

	for _, ch := range e.pool.Placed() {
		if _, ok := needed[ch]; ok {
			continue
		}
		ch.Deactivate()
		e.pool.release(ch)
	}

	e.updateWalls()

	slog.Debug("placement pass complete",
		"center", origin.String(),
		"placed", len(e.pool.placed),
		"unused", len(e.pool.unused))
}

// admit places an unused chunk at coord. Returns nil when the pool is exhausted;
// the coordinate stays empty until a later pass.
func (e *Engine) admit(coord chunk.Coordinate) *chunk.Chunk {
	ch := e.pool.findUnused(coord)
	if ch == nil {
		slog.Warn("chunk pool exhausted, leaving coordinate empty",
			"coordinate", coord.String(),
			"pool", e.pool.Len())
		return nil
	}

	ch.Activate()
	ch.SetPosition(e.worldPosition(coord))
	ch.Bind(coord)

	unsub := ch.OnEntered(func() {
		e.placementPass(ch)
	})
	e.pool.place(ch, unsub)

	return ch
}

func (e *Engine) worldPosition(coord chunk.Coordinate) mgl64.Vec3 {
	size := e.template.Size
	return mgl64.Vec3{
		float64(coord.X * size * e.cfg.AxisSignX),
		0,
		float64(coord.Y * size * e.cfg.AxisSignY),
	}
}

// updateWalls opens every placed chunk towards its occupied neighbours.
func (e *Engine) updateWalls() {
	for _, ch := range e.pool.placed {
		coord, _ := ch.Coordinate()
		ch.SetWalls(e.field.Gates(coord))
	}
}
