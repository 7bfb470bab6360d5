package engine

// Forward moves the position one cell in direction d, clamped to w.
// Each axis is checked on its own: a step that would leave the world on
// one axis is dropped for that axis only. Reports whether p changed.
func (p *Position) Forward(d Direction, w World) bool {
	dx, dy := d.Delta()
	moved := false

	if nx := p.X + dx; dx != 0 && nx >= 0 && nx <= w.X {
		p.X = nx
		moved = true
	}
	if ny := p.Y + dy; dy != 0 && ny >= 0 && ny <= w.Y {
		p.Y = ny
		moved = true
	}

	return moved
}

// apply executes one decoded command on the rover and reports whether a
// forward move was clamped
func (r *Rover) apply(cmd Command) (clamped bool) {
	switch cmd {
	case CommandLeft:
		r.Direction = r.Direction.Left()
	case CommandRight:
		r.Direction = r.Direction.Right()
	case CommandForward:
		clamped = !r.Position.Forward(r.Direction, r.World)
	}
	return clamped
}
