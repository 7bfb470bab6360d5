package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wricardo/mars-rover/game/engine"
)

const (
	// MaxSimulationInput bounds the size of a stateless mission input
	MaxSimulationInput = 1 << 20
	// SimulationConcurrency bounds how many rovers a simulation runs at once
	SimulationConcurrency = 8
)

// missionServiceImpl implements the MissionService interface
type missionServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewMissionService creates a new mission service instance
func NewMissionService(sessions SessionManager, configs ConfigManager) MissionService {
	return &missionServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *missionServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *missionServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		WorldState:     sess.Engine.GetState().Clone(),
		MissionConfig:  sess.Config,
	}
}

// getSession looks up a session and marks it as accessed. Callers must hold
// the write lock, since sessionInfo reads LastAccessedAt under the read lock.
func (s *missionServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, err
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, err
	}
	return sess, nil
}

// CreateSession creates a new mission session
func (s *missionServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.MissionConfig
	var err error
	configID := req.ConfigID

	switch {
	case req.World != "":
		config, err = engine.CustomMissionConfig(req.World)
		if err != nil {
			return nil, fmt.Errorf("invalid world: %w", err)
		}
		configID = "custom"
	case req.ConfigID != "":
		config, err = s.configs.LoadConfig(req.ConfigID)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: config '%s' not found. Available configs: %v", ErrConfigNotFound, req.ConfigID, configIDs)
				}
				return nil, fmt.Errorf("%w: config '%s' not found. Use /api/configs to list available configurations", ErrConfigNotFound, req.ConfigID)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", req.ConfigID, err)
		}
	default:
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *missionServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *missionServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *missionServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return err
	}
	return nil
}

// DeployRover places a new rover in a session's world
func (s *missionServiceImpl) DeployRover(ctx context.Context, sessionID, name, position string) (*engine.RoverState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	rover, err := sess.Engine.DeployRover(name, position)
	if err != nil {
		return nil, err
	}

	snapshot := *rover
	return &snapshot, nil
}

// RunCommands sends a command string to one rover. With reset the mission
// is reset first. A string with any invalid command leaves the rover where
// it was.
func (s *missionServiceImpl) RunCommands(ctx context.Context, sessionID, rover, commands string, reset bool) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	run := sess.Engine.Run
	if reset {
		run = sess.Engine.ResetAndRun
	}

	res, err := run(rover, commands)
	if err != nil {
		return nil, err
	}

	result := newCommandResult(res)
	result.Reset = reset
	result.WorldState = sess.Engine.GetState().Clone()
	return result, nil
}

// RunPlan runs every rover's planned commands in deployment order
func (s *missionServiceImpl) RunPlan(ctx context.Context, sessionID string) (*PlanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	runs, err := sess.Engine.RunPlan()
	if err != nil {
		return nil, err
	}

	result := &PlanResult{
		Runs:  make([]*CommandResult, 0, len(runs)),
		Final: make([]string, 0, len(sess.Engine.Rovers())),
	}
	for _, run := range runs {
		result.Runs = append(result.Runs, newCommandResult(run))
	}
	for _, r := range sess.Engine.Rovers() {
		result.Final = append(result.Final, formatRoverState(r))
	}
	result.WorldState = sess.Engine.GetState().Clone()

	return result, nil
}

// Reset returns every rover of a session to its starting position
func (s *missionServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.WorldState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.Reset().Clone(), nil
}

// GetWorldState retrieves the current world state
func (s *missionServiceImpl) GetWorldState(ctx context.Context, sessionID string) (*engine.WorldState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.GetState().Clone(), nil
}

// GetCommandHistory returns paginated command history
func (s *missionServiceImpl) GetCommandHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	runs := []engine.CommandHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				runs = append(runs, history[i])
			}
		} else {
			runs = append(runs, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Runs:        runs,
		TotalRuns:   total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available mission presets
func (s *missionServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific mission preset
func (s *missionServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.MissionConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a mission preset to disk
func (s *missionServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.MissionConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// ReloadConfigs drops cached presets so edits on disk are picked up, then
// lists what is available. Running sessions keep the preset they started with.
func (s *missionServiceImpl) ReloadConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	if err := s.configs.RefreshCache(); err != nil {
		return nil, fmt.Errorf("reload configs: %w", err)
	}
	return s.configs.ListConfigs()
}

// Simulate parses a complete mission input and runs it without touching any
// session. Rovers run concurrently; output keeps input order.
func (s *missionServiceImpl) Simulate(ctx context.Context, input string) (*SimulationResult, error) {
	if len(input) > MaxSimulationInput {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrInputTooLarge, len(input), MaxSimulationInput)
	}

	mission, err := engine.ParseMission(input)
	if err != nil {
		return nil, err
	}

	rovers, err := engine.RunMission(ctx, mission, SimulationConcurrency)
	if err != nil {
		return nil, err
	}

	return &SimulationResult{
		World:  mission.World,
		Rovers: rovers,
		Output: engine.FormatRovers(rovers),
	}, nil
}

func newCommandResult(run *engine.RunResult) *CommandResult {
	return &CommandResult{
		Rover:            run.Rover,
		Commands:         run.Commands,
		CommandsExecuted: len(run.Steps),
		StartPos:         run.FromPosition,
		StartDirection:   run.FromDirection,
		EndPos:           run.Rover.Position,
		EndDirection:     run.Rover.Direction,
		Final:            formatRoverState(run.Rover),
		Clamped:          run.Clamped,
		Steps:            run.Steps,
	}
}

func formatRoverState(r *engine.RoverState) string {
	return fmt.Sprintf("%d %d %s", r.Position.X, r.Position.Y, r.Direction.Code())
}
