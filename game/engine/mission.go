package engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// RoverPlan is one rover of a parsed mission: where it starts and what it runs
type RoverPlan struct {
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
	Commands  string    `json:"commands"`
	Line      int       `json:"line"`               // 1-based line of the position entry
	CmdLine   int       `json:"cmd_line,omitempty"` // 1-based line of the commands, 0 if absent
}

// Mission is a parsed mission input: one world shared by a list of rovers
type Mission struct {
	World  World       `json:"world"`
	Rovers []RoverPlan `json:"rovers"`
}

// ParseMission reads the line-oriented mission format: a world line followed
// by pairs of position and command lines. Blank lines before a position line
// are skipped, but a blank line right after one is that rover's empty plan.
// A final position line without a command line also yields an empty plan.
func ParseMission(input string) (*Mission, error) {
	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	// trailing blank lines carry no plan
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}

	i := 0
	for i < end && lines[i] == "" {
		i++
	}
	if i == end {
		return nil, &ParseError{Line: "", Field: "world", Err: ErrMissingToken}
	}

	world, err := ParseWorld(lines[i])
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", i+1, err)
	}

	mission := &Mission{World: world, Rovers: []RoverPlan{}}
	for i++; i < end; i++ {
		if lines[i] == "" {
			continue
		}

		pos, dir, err := ParsePosition(lines[i])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		plan := RoverPlan{Position: pos, Direction: dir, Line: i + 1}
		if i+1 < end {
			i++
			plan.Commands = lines[i]
			plan.CmdLine = i + 1
		}
		mission.Rovers = append(mission.Rovers, plan)
	}

	return mission, nil
}

// Run executes every rover in input order and returns them in that order.
// It stops at the first rover whose commands fail to decode.
func (m *Mission) Run() ([]*Rover, error) {
	rovers := make([]*Rover, len(m.Rovers))
	for i, plan := range m.Rovers {
		r := NewRover(plan.Position, plan.Direction, m.World)
		if err := r.RunToEnd(plan.Commands); err != nil {
			return nil, fmt.Errorf("rover %d (line %d): %w", i+1, plan.CmdLine, err)
		}
		rovers[i] = r
	}
	return rovers, nil
}

// RunMission executes the rovers of m concurrently, at most limit at a time
// (limit <= 0 means no limit). Rovers share no state; each gets its own copy
// of the world. Results keep input order.
func RunMission(ctx context.Context, m *Mission, limit int) ([]*Rover, error) {
	rovers := make([]*Rover, len(m.Rovers))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, plan := range m.Rovers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := NewRover(plan.Position, plan.Direction, m.World)
			if err := r.RunToEnd(plan.Commands); err != nil {
				return fmt.Errorf("rover %d (line %d): %w", i+1, plan.CmdLine, err)
			}
			rovers[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rovers, nil
}
