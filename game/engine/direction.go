package engine

import (
	"encoding/json"
	"fmt"
)

// Direction is a compass heading
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// AllDirections returns the headings in clockwise order starting at North
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// Left rotates the heading a quarter turn counter-clockwise
func (d Direction) Left() Direction {
	switch d {
	case North:
		return West
	case East:
		return North
	case South:
		return East
	case West:
		return South
	default:
		return d
	}
}

// Right rotates the heading a quarter turn clockwise
func (d Direction) Right() Direction {
	switch d {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	case West:
		return North
	default:
		return d
	}
}

// Delta returns the unit displacement for one step in this heading.
// Y grows towards North.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// Code returns the single-letter heading code used in mission input
func (d Direction) Code() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// String returns the full heading name
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// DirectionFromCode maps a heading code to a Direction.
// Unknown codes fall back to North without error.
func DirectionFromCode(code string) Direction {
	switch code {
	case "N":
		return North
	case "E":
		return East
	case "S":
		return South
	case "W":
		return West
	default:
		return North
	}
}

// MarshalJSON encodes the heading as its code
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Code())
}

// UnmarshalJSON accepts a heading code, using the same fallback as DirectionFromCode
func (d *Direction) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("direction must be a string code: %w", err)
	}
	*d = DirectionFromCode(code)
	return nil
}
