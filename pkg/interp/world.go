package interp

import (
	"fmt"
	"sort"
	"strings"
)

// directionRing lists the facing directions in clockwise order.
var directionRing = [...]string{"north", "east", "south", "west"}

// Cell addresses one grid square.
type Cell struct {
	X int `json:"x" toml:"X"`
	Y int `json:"y" toml:"Y"`
}

// World simulates the grid the agent moves through. (0,0) is the
// north-west corner; y grows southward.
type World struct {
	Width  int
	Height int
	AgentX int
	AgentY int
	Facing string
	Dirt   map[Cell]bool
}

// NewWorld creates a world of the given size with the agent at the
// north-west corner facing north and no dirt.
func NewWorld(width, height int) *World {
	return &World{
		Width:  width,
		Height: height,
		Facing: "north",
		Dirt:   make(map[Cell]bool),
	}
}

// SeedDefaultDirt places the default dirt cells, skipping any that fall
// outside the grid.
func (w *World) SeedDefaultDirt() {
	for _, c := range []Cell{{2, 2}, {3, 1}, {1, 3}} {
		if w.InBounds(c.X, c.Y) {
			w.Dirt[c] = true
		}
	}
}

// InBounds reports whether a coordinate lies on the grid.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.Width && y >= 0 && y < w.Height
}

// Move advances the agent one cell in its facing direction. Moving off
// the grid is an error and leaves the agent in place.
func (w *World) Move() error {
	x, y := w.AgentX, w.AgentY
	switch w.Facing {
	case "north":
		y--
	case "south":
		y++
	case "east":
		x++
	case "west":
		x--
	default:
		return fmt.Errorf("agent facing unknown direction %q", w.Facing)
	}

	if !w.InBounds(x, y) {
		return fmt.Errorf("cannot move: agent would leave the grid at (%d, %d)", x, y)
	}
	w.AgentX, w.AgentY = x, y
	return nil
}

// TurnLeft rotates the agent 90 degrees counter-clockwise.
func (w *World) TurnLeft() {
	w.Facing = directionRing[(w.facingIndex()+3)%4]
}

// TurnRight rotates the agent 90 degrees clockwise.
func (w *World) TurnRight() {
	w.Facing = directionRing[(w.facingIndex()+1)%4]
}

func (w *World) facingIndex() int {
	for i, d := range directionRing {
		if d == w.Facing {
			return i
		}
	}
	return 0
}

// Clean removes dirt at the agent's cell; reports whether any was there.
func (w *World) Clean() bool {
	c := Cell{w.AgentX, w.AgentY}
	if w.Dirt[c] {
		delete(w.Dirt, c)
		return true
	}
	return false
}

// Sense reports whether the agent's cell is dirty.
func (w *World) Sense() bool {
	return w.Dirt[Cell{w.AgentX, w.AgentY}]
}

// Snapshot is the serializable final world state.
type Snapshot struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	AgentX int    `json:"agentX"`
	AgentY int    `json:"agentY"`
	Facing string `json:"facing"`
	Dirt   []Cell `json:"dirt"`
}

// Snapshot captures the current world state with dirt cells in a
// deterministic order.
func (w *World) Snapshot() Snapshot {
	dirt := make([]Cell, 0, len(w.Dirt))
	for c := range w.Dirt {
		dirt = append(dirt, c)
	}
	sort.Slice(dirt, func(i, j int) bool {
		if dirt[i].Y != dirt[j].Y {
			return dirt[i].Y < dirt[j].Y
		}
		return dirt[i].X < dirt[j].X
	})
	return Snapshot{
		Width:  w.Width,
		Height: w.Height,
		AgentX: w.AgentX,
		AgentY: w.AgentY,
		Facing: w.Facing,
		Dirt:   dirt,
	}
}

var facingGlyphs = map[string]string{
	"north": "^",
	"south": "v",
	"east":  ">",
	"west":  "<",
}

// Render draws the grid as ASCII art: the agent as a heading glyph,
// dirt as '*'.
func (w *World) Render() string {
	var b strings.Builder
	border := strings.Repeat("-", w.Width*4+1)
	b.WriteString(border + "\n")
	for y := 0; y < w.Height; y++ {
		b.WriteString("|")
		for x := 0; x < w.Width; x++ {
			switch {
			case x == w.AgentX && y == w.AgentY:
				fmt.Fprintf(&b, " %s |", facingGlyphs[w.Facing])
			case w.Dirt[Cell{x, y}]:
				b.WriteString(" * |")
			default:
				b.WriteString("   |")
			}
		}
		b.WriteString("\n" + border + "\n")
	}
	fmt.Fprintf(&b, "Agent: (%d, %d) facing %s\n", w.AgentX, w.AgentY, w.Facing)
	fmt.Fprintf(&b, "Dirt remaining: %d cells\n", len(w.Dirt))
	return b.String()
}
