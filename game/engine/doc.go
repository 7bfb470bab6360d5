// Package engine provides the core rover simulation for the Mars Rover server.
//
// The engine package implements:
//   - Compass headings with left/right rotation
//   - A bounded world and per-axis clamped forward movement
//   - Parsers for world and position lines
//   - Decoding of L/R/M command strings
//   - Rovers that apply a whole command string, all or nothing
//   - Mission input parsing and concurrent mission runs
//   - A session-level MissionEngine with a fleet of rovers and run history
//
// Core Types:
//
// Rover owns a Position, a Direction and a copy of its World. RunToEnd decodes
// the entire command string before the first command executes, so an invalid
// character leaves the rover exactly where it was. MissionEngine wraps a set of
// deployed rovers for one world and records every run in its history.
//
// Usage:
//
//	world, err := engine.ParseWorld("5 5")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pos, dir, err := engine.ParsePosition("1 2 N")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rover := engine.NewRover(pos, dir, world)
//	if err := rover.RunToEnd("LMLMLMLMM"); err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(rover) // 1 3 N
//
// Movement Rules:
//
// The world spans (0,0) to (X,Y) inclusive, North is +Y and East is +X. A
// forward step that would leave the world on an axis is ignored on that axis
// only; this is not an error. An unknown heading code in a position line
// reads as North, while an unknown command character is an error.
package engine
