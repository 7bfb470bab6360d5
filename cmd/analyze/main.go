// Command analyze prints quick, human-readable heuristics about the mission
// presets in a configs directory. For each preset it runs the planned
// commands and summarizes final positions, rovers that end on the same cell,
// edge holds and how much of the plateau the plans cover.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mars-rover/game/engine"
)

// Analysis is the outcome of dry-running one preset.
type Analysis struct {
	Name     string
	World    engine.World
	Final    []string // "<x> <y> <heading>" per rover, in preset order
	Clamped  int
	Visited  int // distinct cells touched by any rover, start included
	Shared   []engine.Position
	Coverage float64
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))

		config, err := engine.LoadMissionConfig(file)
		if err != nil {
			fmt.Printf("Error loading preset: %v\n", err)
			continue
		}

		analysis, err := analyzeConfig(config)
		if err != nil {
			fmt.Printf("Error running plans: %v\n", err)
			continue
		}
		fmt.Print(analysis.Report())
	}
}

func analyzeConfig(config *engine.MissionConfig) (*Analysis, error) {
	state, err := engine.InitWorldStateFromConfig(config)
	if err != nil {
		return nil, err
	}

	a := &Analysis{Name: config.Name, World: state.World}
	visited := make(map[engine.Position]bool)
	ends := make(map[engine.Position]int)

	for _, rs := range state.Rovers {
		visited[rs.Position] = true

		rover := engine.NewRover(rs.Position, rs.Direction, state.World)
		steps, err := rover.Trace(rs.Plan)
		if err != nil {
			return nil, fmt.Errorf("rover %s: %w", rs.Name, err)
		}

		for _, s := range steps {
			visited[s.To] = true
		}
		a.Clamped += engine.CountClamped(steps)
		a.Final = append(a.Final, rover.String())
		ends[rover.Position]++
	}

	for pos, n := range ends {
		if n > 1 {
			a.Shared = append(a.Shared, pos)
		}
	}
	sort.Slice(a.Shared, func(i, j int) bool {
		if a.Shared[i].Y != a.Shared[j].Y {
			return a.Shared[i].Y < a.Shared[j].Y
		}
		return a.Shared[i].X < a.Shared[j].X
	})

	a.Visited = len(visited)
	cells := (state.World.X + 1) * (state.World.Y + 1)
	if cells > 0 {
		a.Coverage = float64(a.Visited) / float64(cells)
	}

	return a, nil
}

// Report renders the analysis the way the command prints it.
func (a *Analysis) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", a.Name)
	fmt.Fprintf(&b, "World: %d x %d cells\n", a.World.X+1, a.World.Y+1)
	fmt.Fprintf(&b, "Rovers: %d\n", len(a.Final))
	for _, line := range a.Final {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	fmt.Fprintf(&b, "Cells visited: %d (%.0f%%)\n", a.Visited, a.Coverage*100)

	if a.Clamped > 0 {
		fmt.Fprintf(&b, "⚠️  Plans hold at the edge %d time(s)\n", a.Clamped)
	} else {
		b.WriteString("✅ No plan presses against the edge\n")
	}

	if len(a.Shared) > 0 {
		for _, p := range a.Shared {
			fmt.Fprintf(&b, "⚠️  Several rovers end at (%d, %d)\n", p.X, p.Y)
		}
	} else {
		b.WriteString("✅ Every rover ends on its own cell\n")
	}

	return b.String()
}
