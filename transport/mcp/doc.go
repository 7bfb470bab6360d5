// Package mcp exposes mission control to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API, so MCP agents, browsers and WebSocket viewers all see the same
// sessions.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - world_state: plateau grid with rover headings
//   - deploy_rover, run_commands, run_plan, reset_mission
//   - command_history: paginated runs
//   - list_configs: mission presets
//   - simulate: stateless run of a complete mission text
//   - mission_instructions: movement rules and input format
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// or mounted over HTTP with server.NewStreamableHTTPServer.
package mcp
