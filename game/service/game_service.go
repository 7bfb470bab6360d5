package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mars-rover/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInputTooLarge   = errors.New("mission input too large")
)

// MissionService defines all rover mission operations
type MissionService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Fleet Operations
	DeployRover(ctx context.Context, sessionID, name, position string) (*engine.RoverState, error)
	RunCommands(ctx context.Context, sessionID, rover, commands string, reset bool) (*CommandResult, error)
	RunPlan(ctx context.Context, sessionID string) (*PlanResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.WorldState, error)

	// World State
	GetWorldState(ctx context.Context, sessionID string) (*engine.WorldState, error)
	GetCommandHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.MissionConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.MissionConfig) error
	ReloadConfigs(ctx context.Context) ([]*ConfigInfo, error)

	// Stateless runs
	Simulate(ctx context.Context, input string) (*SimulationResult, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.MissionConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles mission preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.MissionConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.MissionConfig
	SaveConfig(name string, config *engine.MissionConfig) error
	RefreshCache() error
}

// Session represents an active mission session
type Session struct {
	ID             string
	Engine         engine.Engine
	Config         *engine.MissionConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
