package chunk

import "fmt"

// Coordinate is the integer grid address of a chunk slot.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) Add(dx, dy int) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// Neighbor returns the coordinate adjacent to c in direction d.
func (c Coordinate) Neighbor(d Direction) Coordinate {
	dx, dy := d.Offset()
	return c.Add(dx, dy)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

type Direction int

// Wall order is fixed: north, east, south, west.
const (
	North Direction = iota
	East
	South
	West
)

var Directions = [4]Direction{North, East, South, West}

// Offset returns the grid step for d. North points towards decreasing y.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}
