package noise

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/pixil98/go-dungeon/internal/chunk"
)

const (
	// OffsetRange bounds the per-run offsets to [-OffsetRange, OffsetRange).
	OffsetRange = 1_000_000

	// The lattice permutation is fixed; per-run variety comes from the offsets.
	permutationSeed = 0

	// sampleShift keeps every sample positive. go-perlin truncates toward zero
	// after adding 4096, which picks the wrong lattice cell below -4096.
	sampleShift = 2 * OffsetRange

	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 1
)

// Offsets shift the sampled region of the noise field.
type Offsets struct {
	X int `json:"x_offset"`
	Y int `json:"y_offset"`
}

// Reseed derives a new random source from the current offsets and draws the next
// offset pair from it. The returned source continues the same stream, so whatever
// is drawn next is reproducible from the previous offsets alone.
func (o Offsets) Reseed() (Offsets, *rand.Rand) {
	rng := rand.New(rand.NewSource(int64(o.X + o.Y + 1)))

	next := Offsets{
		X: rng.Intn(2*OffsetRange) - OffsetRange,
		Y: rng.Intn(2*OffsetRange) - OffsetRange,
	}
	return next, rng
}

// Field answers occupancy queries for grid coordinates.
type Field struct {
	offsets   Offsets
	fixer     float64
	threshold float64
	perlin    *perlin.Perlin
}

// NewField builds a field sampled at (x + offset + fixer). The fixer keeps samples off
// the integer lattice, where Perlin noise is always zero.
func NewField(offsets Offsets, fixer, threshold float64) *Field {
	return &Field{
		offsets:   offsets,
		fixer:     fixer,
		threshold: threshold,
		perlin:    perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, permutationSeed),
	}
}

func (f *Field) Threshold() float64 {
	return f.threshold
}

// Value returns the noise at c remapped into [0, 1].
func (f *Field) Value(c chunk.Coordinate) float64 {
	v := (f.sample(f.point(c)) + 1) / 2

	// Perlin output stays within [-1, 1]; the clamp only guards the remap.
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// point maps c into noise space, offset and pushed off the integer lattice.
func (f *Field) point(c chunk.Coordinate) (float64, float64) {
	return float64(c.X+f.offsets.X) + f.fixer, float64(c.Y+f.offsets.Y) + f.fixer
}

// sample returns the raw Perlin value at (x, y). Worlds walked more than
// OffsetRange chunks past the most negative offset leave the shifted domain.
func (f *Field) sample(x, y float64) float64 {
	return f.perlin.Noise2D(x+sampleShift, y+sampleShift)
}

// Occupied reports whether c should hold a chunk.
func (f *Field) Occupied(c chunk.Coordinate) bool {
	return f.Value(c) >= f.threshold
}

// Gates reports, in N, E, S, W order, which neighbours of c are occupied.
func (f *Field) Gates(c chunk.Coordinate) [4]bool {
	var gates [4]bool
	for _, d := range chunk.Directions {
		gates[d] = f.Occupied(c.Neighbor(d))
	}
	return gates
}
