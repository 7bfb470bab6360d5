package engine

// Command is one decoded rover instruction
type Command int

const (
	CommandLeft Command = iota
	CommandRight
	CommandForward
)

// Char returns the input character for the command
func (c Command) Char() rune {
	switch c {
	case CommandLeft:
		return 'L'
	case CommandRight:
		return 'R'
	case CommandForward:
		return 'M'
	default:
		return '?'
	}
}

func (c Command) String() string {
	return string(c.Char())
}

// DecodeCommand maps a single character to a Command
func DecodeCommand(c rune) (Command, error) {
	switch c {
	case 'M':
		return CommandForward, nil
	case 'L':
		return CommandLeft, nil
	case 'R':
		return CommandRight, nil
	default:
		return 0, &InvalidCommandError{Char: c, Index: 0}
	}
}

// DecodeCommands decodes a whole command string before anything runs.
// The first undecodable character fails the call.
func DecodeCommands(s string) ([]Command, error) {
	cmds := make([]Command, 0, len(s))
	idx := 0
	for _, c := range s {
		cmd, err := DecodeCommand(c)
		if err != nil {
			return nil, &InvalidCommandError{Char: c, Index: idx}
		}
		cmds = append(cmds, cmd)
		idx++
	}
	return cmds, nil
}
