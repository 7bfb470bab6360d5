package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateMissionConfig validates a mission configuration
func ValidateMissionConfig(config *MissionConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	// Validate world
	world, err := ParseWorld(config.World)
	if err != nil {
		return fmt.Errorf("config validation: world: %w", err)
	}
	if world.X < 0 || world.Y < 0 {
		return fmt.Errorf("config validation: world must be non-negative, got %d %d", world.X, world.Y)
	}
	if world.X > MaxWorldSize || world.Y > MaxWorldSize {
		return fmt.Errorf("config validation: world must be at most %d on each axis, got %d %d", MaxWorldSize, world.X, world.Y)
	}

	// Validate rovers
	if len(config.Rovers) > MaxRovers {
		return fmt.Errorf("config validation: at most %d rovers allowed, got %d", MaxRovers, len(config.Rovers))
	}

	names := make(map[string]bool)
	for i, r := range config.Rovers {
		if _, _, err := ParsePosition(r.Position); err != nil {
			return fmt.Errorf("config validation: rover %d position: %w", i+1, err)
		}
		if _, err := DecodeCommands(r.Commands); err != nil {
			return fmt.Errorf("config validation: rover %d commands: %w", i+1, err)
		}
		if len(r.Commands) > MaxCommandLength {
			return fmt.Errorf("config validation: rover %d commands exceed %d characters", i+1, MaxCommandLength)
		}
		if r.Name != "" {
			key := strings.ToLower(r.Name)
			if names[key] {
				return fmt.Errorf("config validation: duplicate rover name '%s'", r.Name)
			}
			names[key] = true
		}
	}

	return nil
}

// LoadMissionConfig loads a mission configuration from a JSON file
func LoadMissionConfig(filename string) (*MissionConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config MissionConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateMissionConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultMissionConfig returns the built-in plateau mission with two rovers
func DefaultMissionConfig() *MissionConfig {
	return &MissionConfig{
		Name:        "plateau",
		Description: "A 5x5 plateau explored by two rovers",
		World:       "5 5",
		Rovers: []RoverPreset{
			{Name: "alpha", Position: "1 2 N", Commands: "LMLMLMLMM"},
			{Name: "bravo", Position: "3 3 E", Commands: "MMRMMRMRRM"},
		},
	}
}

// CustomMissionConfig builds a preset with the given world and no rovers
func CustomMissionConfig(worldLine string) (*MissionConfig, error) {
	world, err := ParseWorld(worldLine)
	if err != nil {
		return nil, err
	}

	return &MissionConfig{
		Name:        "custom",
		Description: fmt.Sprintf("Custom %dx%d world", world.X, world.Y),
		World:       fmt.Sprintf("%d %d", world.X, world.Y),
		Rovers:      []RoverPreset{},
	}, nil
}

// InitWorldStateFromConfig creates a new world state with the preset rovers
// deployed at their starting positions. Planned commands are not run.
func InitWorldStateFromConfig(config *MissionConfig) (*WorldState, error) {
	if config == nil {
		config = DefaultMissionConfig()
	}

	world, err := ParseWorld(config.World)
	if err != nil {
		return nil, err
	}

	state := &WorldState{
		World:            world,
		Rovers:           []*RoverState{},
		ConfigName:       config.Name,
		History:          []CommandHistoryEntry{},
		TotalRuns:        0,
		CurrentRuns:      []CommandHistoryEntry{},
		CurrentRunsCount: 0,
	}

	for i, preset := range config.Rovers {
		pos, dir, err := ParsePosition(preset.Position)
		if err != nil {
			return nil, fmt.Errorf("rover %d: %w", i+1, err)
		}
		if _, err := state.deploy(preset.Name, pos, dir, preset.Commands); err != nil {
			return nil, err
		}
	}

	return state, nil
}
