package viewer

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pixil98/go-dungeon/internal/chunk"
	"github.com/pixil98/go-dungeon/internal/dungeon"
	"github.com/pixil98/go-dungeon/internal/noise"
)

const cellSize = 3

// Engine is the part of the streaming engine the viewer drives.
type Engine interface {
	Generate() error
	Clear()
	ObserverEntered(chunk.Coordinate) error
	Snapshot() []dungeon.ChunkView
	Field() *noise.Field
}

// Viewer draws the placed chunks around the observer on a terminal and walks the
// observer through open walls with the arrow keys.
type Viewer struct {
	engine Engine
	screen tcell.Screen

	current    chunk.Coordinate
	hasCurrent bool
	status     string
}

func NewViewer(e Engine, screen tcell.Screen) *Viewer {
	return &Viewer{
		engine: e,
		screen: screen,
	}
}

// Start runs the viewer until ctx is done or the user quits.
func (v *Viewer) Start(ctx context.Context) error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("initialising screen: %w", err)
	}
	defer v.screen.Fini()

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(events)
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	v.locate()
	v.draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !v.handle(ev) {
				return nil
			}
			v.draw()
		}
	}
}

// handle reacts to a single event and reports whether the viewer keeps running.
func (v *Viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.move(chunk.North)
		case tcell.KeyRight:
			v.move(chunk.East)
		case tcell.KeyDown:
			v.move(chunk.South)
		case tcell.KeyLeft:
			v.move(chunk.West)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'g':
				if err := v.engine.Generate(); err != nil {
					v.status = err.Error()
					break
				}
				v.locate()
				v.status = "generated"
			case 'c':
				v.engine.Clear()
				v.hasCurrent = false
				v.status = "cleared"
			}
		}
	}
	return true
}

// move walks the observer into the neighbouring chunk if the wall between them is open.
func (v *Viewer) move(d chunk.Direction) {
	if !v.hasCurrent {
		v.status = "no dungeon"
		return
	}

	here, ok := v.find(v.engine.Snapshot(), v.current)
	if !ok {
		v.status = "observer is outside the dungeon"
		return
	}
	if here.Walls[d] {
		v.status = fmt.Sprintf("wall to the %s", d)
		return
	}

	next := v.current.Neighbor(d)
	err := v.engine.ObserverEntered(next)
	if errors.Is(err, dungeon.ErrChunkNotPlaced) {
		v.status = fmt.Sprintf("nothing streamed to the %s yet", d)
		return
	}
	if err != nil {
		v.status = err.Error()
		return
	}

	v.current = next
	v.status = fmt.Sprintf("entered %s", next)
}

// locate puts the observer on the first placed chunk, as generation does.
func (v *Viewer) locate() {
	views := v.engine.Snapshot()
	if len(views) == 0 {
		v.hasCurrent = false
		return
	}
	v.current = views[0].Coordinate
	v.hasCurrent = true
}

func (v *Viewer) find(views []dungeon.ChunkView, c chunk.Coordinate) (dungeon.ChunkView, bool) {
	for _, cv := range views {
		if cv.Coordinate == c {
			return cv, true
		}
	}
	return dungeon.ChunkView{}, false
}

func (v *Viewer) draw() {
	v.screen.Clear()

	w, h := v.screen.Size()
	cx, cy := w/2, (h-1)/2

	views := v.engine.Snapshot()
	for _, cv := range views {
		x := cx + (cv.Coordinate.X-v.current.X)*cellSize
		y := cy + (cv.Coordinate.Y-v.current.Y)*cellSize
		v.drawChunk(x, y, cv, v.hasCurrent && cv.Coordinate == v.current)
	}
	for _, c := range v.pending(views) {
		x := cx + (c.X-v.current.X)*cellSize
		y := cy + (c.Y-v.current.Y)*cellSize
		v.screen.SetContent(x, y, '?', nil, tcell.StyleDefault.Dim(true))
	}

	line := fmt.Sprintf("chunks %d  arrows move  g generate  c clear  q quit", len(views))
	if v.hasCurrent {
		line = fmt.Sprintf("at %s  %s", v.current, line)
	}
	if v.status != "" {
		line = fmt.Sprintf("%s  | %s", line, v.status)
	}
	v.text(0, h-1, line)

	v.screen.Show()
}

// pending returns the occupied neighbours of placed chunks that are not streamed in.
func (v *Viewer) pending(views []dungeon.ChunkView) []chunk.Coordinate {
	field := v.engine.Field()
	if field == nil {
		return nil
	}

	placed := make(map[chunk.Coordinate]bool, len(views))
	for _, cv := range views {
		placed[cv.Coordinate] = true
	}

	var coords []chunk.Coordinate
	seen := map[chunk.Coordinate]bool{}
	for _, cv := range views {
		for _, d := range chunk.Directions {
			n := cv.Coordinate.Neighbor(d)
			if placed[n] || seen[n] || !field.Occupied(n) {
				continue
			}
			seen[n] = true
			coords = append(coords, n)
		}
	}
	return coords
}

func (v *Viewer) drawChunk(x, y int, cv dungeon.ChunkView, here bool) {
	style := tcell.StyleDefault
	wall := func(blocking bool, r rune) rune {
		if blocking {
			return r
		}
		return ' '
	}

	v.screen.SetContent(x-1, y-1, '+', nil, style)
	v.screen.SetContent(x, y-1, wall(cv.Walls[chunk.North], '-'), nil, style)
	v.screen.SetContent(x+1, y-1, '+', nil, style)

	v.screen.SetContent(x-1, y, wall(cv.Walls[chunk.West], '|'), nil, style)
	center := '.'
	if here {
		center = '@'
		style = style.Bold(true)
	}
	v.screen.SetContent(x, y, center, nil, style)
	v.screen.SetContent(x+1, y, wall(cv.Walls[chunk.East], '|'), nil, tcell.StyleDefault)

	v.screen.SetContent(x-1, y+1, '+', nil, tcell.StyleDefault)
	v.screen.SetContent(x, y+1, wall(cv.Walls[chunk.South], '-'), nil, tcell.StyleDefault)
	v.screen.SetContent(x+1, y+1, '+', nil, tcell.StyleDefault)
}

func (v *Viewer) text(x, y int, s string) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}
