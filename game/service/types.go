package service

import (
	"time"

	"github.com/wricardo/mars-rover/game/engine"
)

// SessionInfo provides information about a mission session
type SessionInfo struct {
	ID             string                `json:"id"`
	ConfigName     string                `json:"config_name"`
	CreatedAt      time.Time             `json:"created_at"`
	LastAccessedAt time.Time             `json:"last_accessed_at"`
	WorldState     *engine.WorldState    `json:"world_state"`
	MissionConfig  *engine.MissionConfig `json:"mission_config"`
}

// CreateSessionRequest selects what a new session starts with. World, when
// set, creates an empty custom world and ConfigID is ignored.
type CreateSessionRequest struct {
	ConfigID string `json:"config_id,omitempty"`
	World    string `json:"world,omitempty"` // "<x> <y>"
}

// CommandResult contains the result of running a command string on one rover
type CommandResult struct {
	Rover            *engine.RoverState `json:"rover"`
	Commands         string             `json:"commands"`
	CommandsExecuted int                `json:"commands_executed"`
	Reset            bool               `json:"reset,omitempty"`

	// Start/end snapshot
	StartPos       engine.Position  `json:"start_pos"`
	StartDirection engine.Direction `json:"start_direction"`
	EndPos         engine.Position  `json:"end_pos"`
	EndDirection   engine.Direction `json:"end_direction"`
	Final          string           `json:"final"` // "<x> <y> <heading>"

	// Forward steps that were held at the world edge
	Clamped int `json:"clamped"`

	Steps      []engine.Step      `json:"steps,omitempty"`
	WorldState *engine.WorldState `json:"world_state"`
}

// PlanResult contains the result of running every rover's planned commands
type PlanResult struct {
	Runs       []*CommandResult   `json:"runs"`
	Final      []string           `json:"final"` // one "<x> <y> <heading>" per rover
	WorldState *engine.WorldState `json:"world_state"`
}

// HistoryOptions configures command history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated command history
type HistoryResponse struct {
	Runs        []engine.CommandHistoryEntry `json:"runs"`
	TotalRuns   int                          `json:"total_runs"`
	Page        int                          `json:"page"`
	PageSize    int                          `json:"page_size"`
	TotalPages  int                          `json:"total_pages"`
	HasNext     bool                         `json:"has_next"`
	HasPrevious bool                         `json:"has_previous"`
}

// SimulationResult is the outcome of a stateless mission run
type SimulationResult struct {
	World  engine.World    `json:"world"`
	Rovers []*engine.Rover `json:"rovers"`
	Output string          `json:"output"` // one "<x> <y> <heading>" line per rover
}

// ConfigInfo provides information about a mission preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	World       string `json:"world"`
	RoverCount  int    `json:"rover_count"`
}
