package engine

import (
	"strings"
)

// MaxRenderSize is the largest world dimension RenderGrid will draw
const MaxRenderSize = 40

// FormatRovers renders one "<x> <y> <heading>" line per rover
func FormatRovers(rovers []*Rover) string {
	var b strings.Builder
	for _, r := range rovers {
		b.WriteString(r.String())
		b.WriteString("\n")
	}
	return b.String()
}

// CountClamped counts the forward steps that hit the world edge
func CountClamped(steps []Step) int {
	count := 0
	for _, s := range steps {
		if s.Clamped {
			count++
		}
	}
	return count
}

// RenderGrid draws the world with North at the top. Rovers are shown by
// heading arrow; several rovers on one cell show as '*'. Returns false
// when the world is too large to draw.
func RenderGrid(state *WorldState) ([]string, bool) {
	if state == nil {
		return nil, false
	}
	w := state.World
	if w.X < 0 || w.Y < 0 || w.X >= MaxRenderSize || w.Y >= MaxRenderSize {
		return nil, false
	}

	marks := make(map[Position]rune)
	for _, r := range state.Rovers {
		if _, taken := marks[r.Position]; taken {
			marks[r.Position] = '*'
			continue
		}
		marks[r.Position] = headingArrow(r.Direction)
	}

	lines := make([]string, 0, w.Y+1)
	for y := w.Y; y >= 0; y-- {
		var row strings.Builder
		for x := 0; x <= w.X; x++ {
			if x > 0 {
				row.WriteByte(' ')
			}
			if m, ok := marks[Position{X: x, Y: y}]; ok {
				row.WriteRune(m)
			} else {
				row.WriteByte('.')
			}
		}
		lines = append(lines, row.String())
	}
	return lines, true
}

func headingArrow(d Direction) rune {
	switch d {
	case North:
		return '^'
	case East:
		return '>'
	case South:
		return 'v'
	case West:
		return '<'
	default:
		return '?'
	}
}

// Clone returns a deep copy of the world state
func (ws *WorldState) Clone() *WorldState {
	if ws == nil {
		return nil
	}

	out := *ws
	out.Rovers = make([]*RoverState, len(ws.Rovers))
	for i, r := range ws.Rovers {
		rc := *r
		out.Rovers[i] = &rc
	}
	out.History = append([]CommandHistoryEntry{}, ws.History...)
	out.CurrentRuns = append([]CommandHistoryEntry{}, ws.CurrentRuns...)
	return &out
}
