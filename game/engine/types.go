package engine

const (
	// Validation constants
	MaxWorldSize     = 1000
	MaxCommandLength = 10000
	MaxRovers        = 64
)

// World is the inclusive grid boundary from (0,0) to (X,Y)
type World struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Contains reports whether p lies inside the world
func (w World) Contains(p Position) bool {
	return p.X >= 0 && p.X <= w.X && p.Y >= 0 && p.Y <= w.Y
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RoverPreset is a rover entry of a mission configuration
type RoverPreset struct {
	Name     string `json:"name,omitempty"`
	Position string `json:"position"`           // "<x> <y> <heading>"
	Commands string `json:"commands,omitempty"` // planned command string
}

// MissionConfig represents a mission preset loaded from JSON
type MissionConfig struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	World       string        `json:"world"` // "<x> <y>"
	Rovers      []RoverPreset `json:"rovers"`
}

// RoverState is a deployed rover as seen from outside the engine
type RoverState struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
	Plan      string    `json:"plan,omitempty"`

	StartPosition  Position  `json:"start_position"`
	StartDirection Direction `json:"start_direction"`
	CommandsRun    int       `json:"commands_run"`
}

// WorldState represents the complete state of a mission session
type WorldState struct {
	World         World                 `json:"world"`
	Rovers        []*RoverState         `json:"rovers"`
	ConfigName    string                `json:"config_name"`
	History       []CommandHistoryEntry `json:"history"`
	TotalRuns     int                   `json:"total_runs"`

	// CurrentRuns tracks only the runs since the last reset. It mirrors History
	// entries but gets cleared on reset while History remains cumulative.
	CurrentRuns      []CommandHistoryEntry `json:"current_runs"`
	CurrentRunsCount int                   `json:"current_runs_count"`
}

// CommandHistoryEntry records one command string sent to one rover
type CommandHistoryEntry struct {
	RoverID       string    `json:"rover_id"`
	Commands      string    `json:"commands"`
	FromPosition  Position  `json:"from_position"`
	FromDirection Direction `json:"from_direction"`
	ToPosition    Position  `json:"to_position"`
	ToDirection   Direction `json:"to_direction"`
	Clamped       int       `json:"clamped"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	Timestamp     int64     `json:"timestamp"`
	RunNumber     int       `json:"run_number"`
}

// Step is the trace of a single executed command
type Step struct {
	Idx       int       `json:"idx"`
	Command   string    `json:"command"`
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Direction Direction `json:"direction"` // heading after the command
	Clamped   bool      `json:"clamped,omitempty"`
}

// RunResult is the outcome of running a command string on a deployed rover
type RunResult struct {
	Rover         *RoverState `json:"rover"`
	Commands      string      `json:"commands"`
	FromPosition  Position    `json:"from_position"`
	FromDirection Direction   `json:"from_direction"`
	Steps         []Step      `json:"steps"`
	Clamped       int         `json:"clamped"`
}
