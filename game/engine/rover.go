package engine

import "fmt"

// Rover owns its position, heading and a copy of the world it drives on
type Rover struct {
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
	World     World     `json:"world"`
}

// NewRover creates a rover. The position is not checked against the world.
func NewRover(position Position, direction Direction, world World) *Rover {
	return &Rover{
		Position:  position,
		Direction: direction,
		World:     world,
	}
}

// RunToEnd applies a command string in order. The whole string is decoded
// first, so an invalid character anywhere leaves the rover untouched.
func (r *Rover) RunToEnd(commands string) error {
	cmds, err := DecodeCommands(commands)
	if err != nil {
		return err
	}
	r.Execute(cmds)
	return nil
}

// Execute applies already-decoded commands
func (r *Rover) Execute(cmds []Command) {
	for _, cmd := range cmds {
		r.apply(cmd)
	}
}

// Trace behaves like RunToEnd and also returns one Step per command
func (r *Rover) Trace(commands string) ([]Step, error) {
	cmds, err := DecodeCommands(commands)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(cmds))
	for i, cmd := range cmds {
		from := r.Position
		clamped := r.apply(cmd)
		steps = append(steps, Step{
			Idx:       i + 1,
			Command:   cmd.String(),
			From:      from,
			To:        r.Position,
			Direction: r.Direction,
			Clamped:   clamped,
		})
	}
	return steps, nil
}

// String renders the rover as "<x> <y> <heading code>"
func (r *Rover) String() string {
	return fmt.Sprintf("%d %d %s", r.Position.X, r.Position.Y, r.Direction.Code())
}
