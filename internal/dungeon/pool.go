package dungeon

import (
	"slices"

	"github.com/pixil98/go-dungeon/internal/chunk"
)

// Pool owns every chunk and partitions them into placed and unused. Both partitions
// keep insertion order: the first unused chunk is the one handed out when no chunk
// is already bound to the requested coordinate.
type Pool struct {
	chunks  []*chunk.Chunk
	placed  []*chunk.Chunk
	unused  []*chunk.Chunk
	byCoord map[chunk.Coordinate]*chunk.Chunk
	unsubs  map[*chunk.Chunk]func()
}

func newPool(chunks []*chunk.Chunk) *Pool {
	return &Pool{
		chunks:  chunks,
		placed:  make([]*chunk.Chunk, 0, len(chunks)),
		unused:  slices.Clone(chunks),
		byCoord: make(map[chunk.Coordinate]*chunk.Chunk, len(chunks)),
		unsubs:  make(map[*chunk.Chunk]func(), len(chunks)),
	}
}

// Len returns the total number of chunks owned by the pool.
func (p *Pool) Len() int {
	return len(p.chunks)
}

func (p *Pool) Placed() []*chunk.Chunk {
	return slices.Clone(p.placed)
}

// PlacedAt returns the placed chunk bound to c, or nil.
func (p *Pool) PlacedAt(c chunk.Coordinate) *chunk.Chunk {
	return p.byCoord[c]
}

// findUnused prefers an unused chunk still bound to c so its state comes back as is,
// and falls back to the first unused chunk. Returns nil when the pool is exhausted.
func (p *Pool) findUnused(c chunk.Coordinate) *chunk.Chunk {
	for _, ch := range p.unused {
		if coord, ok := ch.Coordinate(); ok && coord == c {
			return ch
		}
	}
	if len(p.unused) == 0 {
		return nil
	}
	return p.unused[0]
}

// place moves ch from unused to placed. ch must already be bound.
func (p *Pool) place(ch *chunk.Chunk, unsubscribe func()) {
	coord, _ := ch.Coordinate()

	p.unused = slices.DeleteFunc(p.unused, func(c *chunk.Chunk) bool { return c == ch })
	p.placed = append(p.placed, ch)
	p.byCoord[coord] = ch
	p.unsubs[ch] = unsubscribe
}

// release detaches the entered listener of ch and moves it back to unused.
// The caller deactivates it.
func (p *Pool) release(ch *chunk.Chunk) {
	if unsub, ok := p.unsubs[ch]; ok {
		unsub()
		delete(p.unsubs, ch)
	}

	coord, _ := ch.Coordinate()
	if p.byCoord[coord] == ch {
		delete(p.byCoord, coord)
	}

	p.placed = slices.DeleteFunc(p.placed, func(c *chunk.Chunk) bool { return c == ch })
	p.unused = append(p.unused, ch)
}

// destroy detaches and destroys every chunk. The pool is empty afterwards.
func (p *Pool) destroy() {
	for ch, unsub := range p.unsubs {
		unsub()
		delete(p.unsubs, ch)
	}
	for _, ch := range p.chunks {
		ch.Deactivate()
		ch.Destroy()
	}

	p.chunks = nil
	p.placed = nil
	p.unused = nil
	clear(p.byCoord)
}
