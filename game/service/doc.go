// Package service provides the business logic layer for the rover mission server.
//
// The service package implements:
//   - Multi-session mission management
//   - Rover deployment and command execution
//   - Paginated command history
//   - Preset listing, loading and saving
//   - Stateless mission simulation
//
// Core Interfaces:
//
// MissionService is the main service interface used by every transport.
// SessionManager stores sessions and ConfigManager loads mission presets;
// both are implemented by the session and config packages.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the engine. Every session owns an engine.MissionEngine; the service
// serializes access to them and hands out copies of the world state, never
// the live one.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	missionService := service.NewMissionService(sessionMgr, configMgr)
//
//	info, err := missionService.CreateSession(ctx, service.CreateSessionRequest{ConfigID: "plateau"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := missionService.RunCommands(ctx, info.ID, "alpha", "LMLMLMLMM", false)
//
// Errors:
//
// Lookups fail with ErrSessionNotFound or ErrConfigNotFound. Parse and
// command errors from the engine are passed through unchanged so callers can
// match engine.ErrParse and engine.ErrInvalidCommand with errors.Is.
package service
