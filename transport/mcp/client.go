package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mars-rover/game/engine"
	"github.com/wricardo/mars-rover/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Mars Rover Mission Control",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mars Rover Mission Control - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Rovers sit on a rectangular plateau from (0,0) to the world's upper-right corner.
They turn with L and R and move one cell forward with M. A rover that would leave
the plateau stays on the edge.

AVAILABLE TOOLS:
- create_session: Create a mission session from a preset or an ad hoc world
- list_sessions / get_session: Inspect sessions
- world_state: Current plateau with every rover drawn on it
- deploy_rover: Place a new rover ("1 2 N")
- run_commands: Send a command string to one rover
- run_plan: Run every rover's planned commands
- reset_mission: Return rovers to where they were deployed
- command_history: Past runs
- list_configs: Available mission presets
- simulate: Run a complete mission text without a session
- mission_instructions: Full rules and input format`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func sessionSchema(extra map[string]interface{}, required ...string) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": stringProp("Session ID"),
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"session_id"}, required...),
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new mission session from a preset, or from an empty world of the given size",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": stringProp("Preset to use (optional, defaults to the server default)"),
				"world":     stringProp(`Ad hoc world "<x> <y>" with no rovers (optional)`),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active mission sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	// Mission operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "world_state",
		Description: "Get the plateau and every rover on it",
		InputSchema: sessionSchema(nil),
	}, c.handleWorldState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "deploy_rover",
		Description: "Deploy a new rover at a position",
		InputSchema: sessionSchema(map[string]interface{}{
			"name":     stringProp("Rover name (optional, defaults to rover-N)"),
			"position": stringProp(`Landing position "<x> <y> <N|E|S|W>"`),
		}, "position"),
	}, c.handleDeployRover)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_commands",
		Description: "Send a command string of L, R and M to one rover",
		InputSchema: sessionSchema(map[string]interface{}{
			"rover":    stringProp("Rover name or ID"),
			"commands": stringProp("Commands, e.g. LMLMLMLMM"),
			"intent": stringProp("Brief explanation of what this run should achieve " +
				"(serves as a rubber duck to help explain your reasoning)"),
			"reset": map[string]interface{}{
				"type":        "boolean",
				"description": "Reset the mission before running",
			},
		}, "rover", "commands"),
	}, c.handleRunCommands)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_plan",
		Description: "Run every rover's planned commands in deployment order",
		InputSchema: sessionSchema(nil),
	}, c.handleRunPlan)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_mission",
		Description: "Return every rover to the position and heading it was deployed with",
		InputSchema: sessionSchema(nil),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command_history",
		Description: "Get paginated run history",
		InputSchema: sessionSchema(map[string]interface{}{
			"page": map[string]interface{}{
				"type":        "number",
				"description": "Page number (default 1)",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Runs per page (default 20, max 100)",
			},
			"order": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"asc", "desc"},
				"description": "Sort order (default desc)",
			},
		}),
	}, c.handleCommandHistory)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available mission presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulate",
		Description: "Run a complete mission text (world line, then position and command line pairs) and return final positions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"input": stringProp("Mission text"),
			},
			Required: []string{"input"},
		},
	}, c.handleSimulate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mission_instructions",
		Description: "Get the rules of rover movement and the mission input format",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleMissionInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID string, parts ...string) string {
	p := "/api/sessions/" + url.PathEscape(sessionID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	configID, _ := args["config_id"].(string)
	world, _ := args["world"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}
	if world != "" {
		body["world"] = world
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatWorldState(session.WorldState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		rovers := 0
		if s.WorldState != nil {
			rovers = len(s.WorldState.Rovers)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Rovers: %d, Created: %s)\n",
			s.ID, s.ConfigName, rovers, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleWorldState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var state engine.WorldState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatWorldState(&state)), nil
}

func (c *Client) handleDeployRover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	name, _ := args["name"].(string)
	position, _ := args["position"].(string)

	body := map[string]string{"name": name, "position": position}

	var rover engine.RoverState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "rovers"), body, &rover); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deployed %s at %s", rover.Name, formatRover(&rover))), nil
}

func (c *Client) handleRunCommands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	rover, _ := args["rover"].(string)
	commands, _ := args["commands"].(string)
	reset, _ := args["reset"].(bool)

	// intent is only there to make the caller state its reasoning

	body := map[string]interface{}{
		"commands": commands,
		"reset":    reset,
	}

	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "rovers", rover, "commands"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleRunPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var result service.PlanResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "plan"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan complete (%d runs)\n\nFinal positions:\n", len(result.Runs))
	for _, line := range result.Final {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + formatWorldState(result.WorldState))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var response struct {
		Message string             `json:"message"`
		State   *engine.WorldState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatWorldState(response.State))), nil
}

func (c *Client) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  World: %s, Rovers: %d\n\n",
			config.ConfigID, config.Name, config.Description, config.World, config.RoverCount)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, _ := request.GetArguments()["input"].(string)

	var result service.SimulationResult
	if err := c.apiCall(ctx, "POST", "/api/simulate", map[string]string{"input": input}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result.Output), nil
}

func (c *Client) handleMissionInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Mars Rover Mission - Complete Instructions

THE PLATEAU:
The world is a grid from (0,0) in the lower-left corner to (X,Y) in the
upper-right corner, both inclusive. North is +Y, East is +X.

ROVERS:
Each rover has a position and a heading: N, E, S or W.

COMMANDS:
- L: turn 90 degrees left, stay in place
- R: turn 90 degrees right, stay in place
- M: move one cell forward in the current heading

EDGES:
A rover never leaves the plateau. A move that would cross the edge is
clamped: the rover stays on the edge cell and keeps its heading. The run
continues with the next command.

INVALID COMMANDS:
Any character other than L, R or M rejects the whole command string before
the rover moves. The rover stays where it was.

MISSION INPUT FORMAT (simulate tool):
  5 5          <- world: upper-right corner
  1 2 N        <- rover 1 position and heading
  LMLMLMLMM    <- rover 1 commands
  3 3 E        <- rover 2 position and heading
  MMRMMRMRRM   <- rover 2 commands

Output is one "<x> <y> <heading>" line per rover, in input order:
  1 3 N
  5 1 E

Rovers do not block each other; several may share a cell.

SESSIONS:
1. create_session picks a preset (list_configs) or an empty world.
2. deploy_rover adds rovers; run_commands drives one rover.
3. run_plan runs the preset's planned commands for every rover.
4. reset_mission returns rovers to their deploy positions. History is kept.

GRID LEGEND (world_state):
  ^ > v <  rover heading N, E, S, W
  *        several rovers on one cell
  .        empty cell
`
	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatWorldState(session.WorldState))
}

func formatRover(r *engine.RoverState) string {
	return fmt.Sprintf("%d %d %s", r.Position.X, r.Position.Y, r.Direction.Code())
}

func formatWorldState(state *engine.WorldState) string {
	if state == nil {
		return "No world state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "World: %d %d | Rovers: %d | Runs: %d\n\n",
		state.World.X, state.World.Y, len(state.Rovers), state.TotalRuns)

	for _, r := range state.Rovers {
		fmt.Fprintf(&b, "- %s: %s", r.Name, formatRover(r))
		if r.Plan != "" {
			fmt.Fprintf(&b, " (plan: %s)", r.Plan)
		}
		b.WriteString("\n")
	}

	if lines, ok := engine.RenderGrid(state); ok {
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
	} else {
		b.WriteString("\n(world too large to draw)\n")
	}

	return b.String()
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder
	name := ""
	if result.Rover != nil {
		name = result.Rover.Name
	}

	fmt.Fprintf(&b, "✓ %s ran %q\n", name, result.Commands)
	if result.Reset {
		b.WriteString("(mission reset first)\n")
	}
	fmt.Fprintf(&b, "Start: (%d,%d) %s → End: (%d,%d) %s\n",
		result.StartPos.X, result.StartPos.Y, result.StartDirection.Code(),
		result.EndPos.X, result.EndPos.Y, result.EndDirection.Code())
	fmt.Fprintf(&b, "Executed: %d commands", result.CommandsExecuted)
	if result.Clamped > 0 {
		fmt.Fprintf(&b, ", %d moves held at the edge", result.Clamped)
	}
	fmt.Fprintf(&b, "\nFinal: %s\n", result.Final)

	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run History (Page %d/%d, Total: %d runs)\n\n",
		history.Page, history.TotalPages, history.TotalRuns)

	for _, run := range history.Runs {
		status := "✓"
		if !run.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "#%d %s rover=%s %q (%d,%d) %s → (%d,%d) %s",
			run.RunNumber, status, shortID(run.RoverID), run.Commands,
			run.FromPosition.X, run.FromPosition.Y, run.FromDirection.Code(),
			run.ToPosition.X, run.ToPosition.Y, run.ToDirection.Code())
		if run.Error != "" {
			fmt.Fprintf(&b, " error: %s", run.Error)
		}
		b.WriteString("\n")
	}

	if history.HasNext {
		b.WriteString("\n(more runs on the next page)\n")
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
