package engine

import (
	"strconv"
	"strings"
)

// ParseWorld reads a line in the "<int> <int>" format.
// Tokens past the second are ignored.
func ParseWorld(line string) (World, error) {
	fields := strings.Fields(line)

	x, err := parseIntField(line, fields, 0, "world x")
	if err != nil {
		return World{}, err
	}
	y, err := parseIntField(line, fields, 1, "world y")
	if err != nil {
		return World{}, err
	}

	return World{X: x, Y: y}, nil
}

// ParsePosition reads a line in the "<int> <int> <heading>" format.
// Only the coordinates can fail; an unknown or missing heading is North.
func ParsePosition(line string) (Position, Direction, error) {
	fields := strings.Fields(line)

	x, err := parseIntField(line, fields, 0, "x")
	if err != nil {
		return Position{}, North, err
	}
	y, err := parseIntField(line, fields, 1, "y")
	if err != nil {
		return Position{}, North, err
	}

	heading := ""
	if len(fields) > 2 {
		heading = fields[2]
	}

	return Position{X: x, Y: y}, DirectionFromCode(heading), nil
}

func parseIntField(line string, fields []string, idx int, field string) (int, error) {
	if idx >= len(fields) {
		return 0, &ParseError{Line: line, Field: field, Err: ErrMissingToken}
	}
	v, err := strconv.Atoi(fields[idx])
	if err != nil {
		return 0, &ParseError{Line: line, Field: field, Token: fields[idx], Err: err}
	}
	return v, nil
}
