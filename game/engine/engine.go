package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTooManyRovers  = errors.New("too many rovers")
	ErrCommandTooLong = errors.New("command string too long")
	ErrDuplicateRover = errors.New("rover name already in use")
)

// Engine provides the main interface for mission operations
type Engine interface {
	// State management
	GetState() *WorldState
	Reset() *WorldState
	GetWorld() World

	// Fleet
	Rovers() []*RoverState
	GetRover(ref string) (*RoverState, error)
	DeployRover(name, positionLine string) (*RoverState, error)

	// Commands
	Run(roverRef, commands string) (*RunResult, error)
	ResetAndRun(roverRef, commands string) (*RunResult, error)
	RunPlan() ([]*RunResult, error)

	// Configuration
	GetConfig() *MissionConfig

	// History
	GetHistory() []CommandHistoryEntry
}

// MissionEngine implements the Engine interface
type MissionEngine struct {
	state  *WorldState
	config *MissionConfig
}

var _ Engine = (*MissionEngine)(nil)

// NewEngine creates a new mission engine with the provided configuration
func NewEngine(config *MissionConfig) (*MissionEngine, error) {
	if err := ValidateMissionConfig(config); err != nil {
		return nil, err
	}

	state, err := InitWorldStateFromConfig(config)
	if err != nil {
		return nil, err
	}

	return &MissionEngine{
		config: config,
		state:  state,
	}, nil
}

// GetState returns the current world state
func (e *MissionEngine) GetState() *WorldState {
	return e.state
}

// GetWorld returns the world boundary
func (e *MissionEngine) GetWorld() World {
	return e.state.World
}

// Reset returns every rover to the position and heading it was deployed with
func (e *MissionEngine) Reset() *WorldState {
	for _, r := range e.state.Rovers {
		r.Position = r.StartPosition
		r.Direction = r.StartDirection
		r.CommandsRun = 0
	}

	// History stays cumulative; only the current segment is cleared
	e.state.CurrentRuns = []CommandHistoryEntry{}
	e.state.CurrentRunsCount = 0

	return e.state
}

// Rovers returns the deployed rovers in deployment order
func (e *MissionEngine) Rovers() []*RoverState {
	return e.state.Rovers
}

// GetRover finds a rover by ID or, failing that, by name (case-insensitive)
func (e *MissionEngine) GetRover(ref string) (*RoverState, error) {
	return e.state.FindRover(ref)
}

// FindRover finds a rover by ID or, failing that, by name (case-insensitive)
func (ws *WorldState) FindRover(ref string) (*RoverState, error) {
	for _, r := range ws.Rovers {
		if r.ID == ref {
			return r, nil
		}
	}
	for _, r := range ws.Rovers {
		if r.Name != "" && strings.EqualFold(r.Name, ref) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRoverNotFound, ref)
}

// DeployRover parses a position line and places a new rover in the world.
// The name defaults to rover-N.
func (e *MissionEngine) DeployRover(name, positionLine string) (*RoverState, error) {
	if len(e.state.Rovers) >= MaxRovers {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRovers, MaxRovers)
	}

	pos, dir, err := ParsePosition(positionLine)
	if err != nil {
		return nil, err
	}

	return e.state.deploy(name, pos, dir, "")
}

// Run sends a command string to a deployed rover. The run is recorded in the
// history even when it fails; a failed run does not move the rover.
func (e *MissionEngine) Run(roverRef, commands string) (*RunResult, error) {
	rs, err := e.GetRover(roverRef)
	if err != nil {
		return nil, err
	}

	if len(commands) > MaxCommandLength {
		return nil, fmt.Errorf("%w: %d characters, limit is %d", ErrCommandTooLong, len(commands), MaxCommandLength)
	}

	from, fromDir := rs.Position, rs.Direction
	rover := NewRover(rs.Position, rs.Direction, e.state.World)

	steps, err := rover.Trace(commands)
	if err != nil {
		e.addHistory(CommandHistoryEntry{
			RoverID:       rs.ID,
			Commands:      commands,
			FromPosition:  from,
			FromDirection: fromDir,
			ToPosition:    from,
			ToDirection:   fromDir,
			Success:       false,
			Error:         err.Error(),
		})
		return nil, err
	}

	clamped := CountClamped(steps)

	rs.Position = rover.Position
	rs.Direction = rover.Direction
	rs.CommandsRun += len(steps)

	e.addHistory(CommandHistoryEntry{
		RoverID:       rs.ID,
		Commands:      commands,
		FromPosition:  from,
		FromDirection: fromDir,
		ToPosition:    rs.Position,
		ToDirection:   rs.Direction,
		Clamped:       clamped,
		Success:       true,
	})

	snapshot := *rs
	return &RunResult{
		Rover:         &snapshot,
		Commands:      commands,
		FromPosition:  from,
		FromDirection: fromDir,
		Steps:         steps,
		Clamped:       clamped,
	}, nil
}

// ResetAndRun resets the mission and then runs commands on one rover. The
// rover reference and the command string are checked first; if either is
// rejected nothing is reset.
func (e *MissionEngine) ResetAndRun(roverRef, commands string) (*RunResult, error) {
	if len(commands) > MaxCommandLength {
		return e.Run(roverRef, commands)
	}
	if _, err := DecodeCommands(commands); err != nil {
		// Run reports the same failure and records it without moving the rover
		return e.Run(roverRef, commands)
	}
	if _, err := e.GetRover(roverRef); err != nil {
		return nil, err
	}

	e.Reset()
	return e.Run(roverRef, commands)
}

// RunPlan runs each rover's planned commands in deployment order.
// It stops at the first rover whose plan fails; earlier results are returned.
func (e *MissionEngine) RunPlan() ([]*RunResult, error) {
	results := make([]*RunResult, 0, len(e.state.Rovers))

	for _, r := range e.state.Rovers {
		if r.Plan == "" {
			continue
		}
		res, err := e.Run(r.ID, r.Plan)
		if err != nil {
			return results, fmt.Errorf("rover %s: %w", r.Name, err)
		}
		results = append(results, res)
	}

	return results, nil
}

// GetConfig returns the current mission configuration
func (e *MissionEngine) GetConfig() *MissionConfig {
	return e.config
}

// GetHistory returns the complete command history
func (e *MissionEngine) GetHistory() []CommandHistoryEntry {
	return e.state.History
}

func (ws *WorldState) deploy(name string, pos Position, dir Direction, plan string) (*RoverState, error) {
	if name == "" {
		name = fmt.Sprintf("rover-%d", len(ws.Rovers)+1)
	}
	for _, r := range ws.Rovers {
		if strings.EqualFold(r.Name, name) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRover, name)
		}
	}

	rover := &RoverState{
		ID:             uuid.NewString(),
		Name:           name,
		Position:       pos,
		Direction:      dir,
		Plan:           plan,
		StartPosition:  pos,
		StartDirection: dir,
	}
	ws.Rovers = append(ws.Rovers, rover)
	return rover, nil
}

// addHistory appends to both the cumulative history and the current segment
func (e *MissionEngine) addHistory(entry CommandHistoryEntry) {
	entry.Timestamp = time.Now().Unix()
	entry.RunNumber = e.state.TotalRuns + 1

	e.state.History = append(e.state.History, entry)
	e.state.TotalRuns++

	e.state.CurrentRuns = append(e.state.CurrentRuns, entry)
	e.state.CurrentRunsCount++
}
