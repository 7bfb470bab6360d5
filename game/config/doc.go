// Package config provides mission preset management for the rover service.
//
// Presets are JSON files in a config directory (default "configs"). Each one
// names a world and the rovers deployed in it, with an optional planned
// command string per rover:
//
//	{
//	  "name": "plateau",
//	  "description": "A 5x5 plateau explored by two rovers",
//	  "world": "5 5",
//	  "rovers": [
//	    {"name": "alpha", "position": "1 2 N", "commands": "LMLMLMLMM"},
//	    {"name": "bravo", "position": "3 3 E", "commands": "MMRMMRMRRM"}
//	  ]
//	}
//
// Presets are validated with engine.ValidateMissionConfig before they are
// cached or saved. Invalid files are skipped when listing.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadConfig("ridge")
//	defaultPreset := manager.GetDefault()
//	presets, err := manager.ListConfigs()
//
// The default preset is "plateau" when present, otherwise the first valid
// preset, otherwise the built-in plateau mission.
package config
