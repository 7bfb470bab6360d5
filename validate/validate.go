// Command validate checks mission preset JSON files. It reports:
//   - JSON structure and required fields
//   - World and rover position syntax, command vocabulary and limits
//   - Rovers that start outside the world
//   - Planned runs that press against the world edge
//
// Usage: validate [DIR] (default ../configs). Exits non-zero if any preset is invalid.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mars-rover/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.MissionConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateMissionConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}

	world, _ := engine.ParseWorld(config.World)
	result.info("World: %d x %d", world.X+1, world.Y+1)

	validateRovers(&config, world, &result)
	return result
}

// validateRovers checks starting positions and dry-runs every plan.
func validateRovers(config *engine.MissionConfig, world engine.World, result *ValidationResult) {
	if len(config.Rovers) == 0 {
		result.info("No preset rovers (deploy at runtime)")
		return
	}

	clampedTotal := 0
	for i, preset := range config.Rovers {
		label := preset.Name
		if label == "" {
			label = fmt.Sprintf("rover %d", i+1)
		}

		pos, dir, _ := engine.ParsePosition(preset.Position)
		if !world.Contains(pos) {
			result.fail("%s starts outside the world at (%d,%d)", label, pos.X, pos.Y)
			continue
		}

		rover := engine.NewRover(pos, dir, world)
		steps, err := rover.Trace(preset.Commands)
		if err != nil {
			result.fail("%s plan: %v", label, err)
			continue
		}

		if c := engine.CountClamped(steps); c > 0 {
			clampedTotal += c
			result.Errors = append(result.Errors, fmt.Sprintf("%s plan holds at the edge %d time(s)", label, c))
		}
	}

	if result.Valid {
		result.info("Rovers: %d, edge holds in plans: %d", len(config.Rovers), clampedTotal)
	}
}

func printResult(result ValidationResult) {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Println("✅ VALID")
		for _, info := range result.Errors {
			fmt.Println("  " + info)
		}
		return
	}

	fmt.Println("❌ INVALID")
	for _, err := range result.Errors {
		if !strings.HasPrefix(err, "✓") {
			fmt.Println("  ❌ " + err)
		}
	}
}

// main validates every *.json preset in the directory and exits with
// non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No presets found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)
		printResult(result)
		if !result.Valid {
			allValid = false
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All presets are valid!")
	} else {
		fmt.Println("❌ Some presets have errors")
		os.Exit(1)
	}
}
