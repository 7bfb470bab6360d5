package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/mars-rover/game/engine"
	"github.com/wricardo/mars-rover/game/service"
	"github.com/wricardo/mars-rover/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.MissionService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(missionService service.MissionService, hub *websocket.Hub) *Server {
	s := &Server{
		service: missionService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	// Unified sessions for multi-session view (must be before {id} pattern)
	api.HandleFunc("/sessions/unified", s.handleUnifiedSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Mission operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetWorldState).Methods("GET")
	api.HandleFunc("/sessions/{id}/rovers", s.handleListRovers).Methods("GET")
	api.HandleFunc("/sessions/{id}/rovers", s.handleDeployRover).Methods("POST")
	api.HandleFunc("/sessions/{id}/rovers/{rover}", s.handleGetRover).Methods("GET")
	api.HandleFunc("/sessions/{id}/rovers/{rover}/commands", s.handleRunCommands).Methods("POST")
	api.HandleFunc("/sessions/{id}/plan", s.handleRunPlan).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/reload", s.handleReloadConfigs).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// Stateless runs
	api.HandleFunc("/simulate", s.handleSimulate).Methods("POST")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service and engine errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrConfigNotFound),
		errors.Is(err, engine.ErrRoverNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrParse),
		errors.Is(err, engine.ErrInvalidCommand),
		errors.Is(err, engine.ErrCommandTooLong),
		errors.Is(err, engine.ErrDuplicateRover),
		errors.Is(err, engine.ErrTooManyRovers),
		errors.Is(err, service.ErrInvalidConfig),
		errors.Is(err, service.ErrInputTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) broadcast(sessionID string, state *engine.WorldState) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastToSession(strings.ToLower(sessionID), state)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
		World      string `json:"world,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	// Support both new and old parameter names, but prefer config_id
	configID := req.ConfigID
	if configID == "" && req.ConfigName != "" {
		configID = req.ConfigName
	}

	session, err := s.service.CreateSession(r.Context(), service.CreateSessionRequest{
		ConfigID: configID,
		World:    req.World,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[SESSION] created id=%s config=%s rovers=%d", session.ID, session.ConfigName, len(session.WorldState.Rovers))
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	limit := total
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < total {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Mission Operation Handlers

func (s *Server) handleGetWorldState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetWorldState(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleListRovers(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetWorldState(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"world":  state.World,
		"count":  len(state.Rovers),
		"rovers": state.Rovers,
	})
}

func (s *Server) handleGetRover(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	state, err := s.service.GetWorldState(r.Context(), vars["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	rover, err := state.FindRover(vars["rover"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rover)
}

func (s *Server) handleDeployRover(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Name     string `json:"name,omitempty"`
		Position string `json:"position"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rover, err := s.service.DeployRover(r.Context(), sessionID, req.Name, req.Position)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[DEPLOY] session=%s rover=%s at (%d,%d) %s",
		sessionID, rover.Name, rover.Position.X, rover.Position.Y, rover.Direction.Code())

	if state, err := s.service.GetWorldState(r.Context(), sessionID); err == nil {
		s.broadcast(sessionID, state)
	}

	respondJSON(w, http.StatusCreated, rover)
}

func (s *Server) handleRunCommands(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, roverRef := vars["id"], vars["rover"]

	var req struct {
		Commands string `json:"commands"`
		Reset    bool   `json:"reset,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.RunCommands(r.Context(), sessionID, roverRef, req.Commands, req.Reset)
	if err != nil {
		log.Printf("[RUN] session=%s rover=%s REJECTED: %v", sessionID, roverRef, err)
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.WorldState)

	// Compact server log for observability
	log.Printf("[RUN] session=%s rover=%s (%d,%d)->(%d,%d) exec=%d clamped=%d final=%s",
		sessionID, result.Rover.Name, result.StartPos.X, result.StartPos.Y,
		result.EndPos.X, result.EndPos.Y, result.CommandsExecuted, result.Clamped, result.Final)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRunPlan(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.RunPlan(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.WorldState)

	log.Printf("[PLAN] session=%s runs=%d final=%s", sessionID, len(result.Runs), strings.Join(result.Final, ", "))

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, state)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Mission reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetCommandHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
		engine.MissionConfig
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.Name
	}

	config := req.MissionConfig
	if err := s.service.SaveConfig(r.Context(), configID, &config); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

func (s *Server) handleReloadConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ReloadConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[CONFIG] Reloaded %d presets", len(configs))
	respondJSON(w, http.StatusOK, configs)
}

// handleSimulate runs a complete mission input. The body is either the raw
// mission text or JSON {"input": "..."}.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, service.MaxSimulationInput+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := string(body)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Input string `json:"input"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		input = req.Input
	}

	result, err := s.service.Simulate(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[SIMULATE] world=%dx%d rovers=%d", result.World.X, result.World.Y, len(result.Rovers))

	respondJSON(w, http.StatusOK, result)
}

// Unified Sessions Handler

func (s *Server) handleUnifiedSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var sessions []*service.SessionInfo

	if sessionIDs := query.Get("sessionIds"); sessionIDs != "" {
		ids := strings.Split(sessionIDs, ",")
		sessions = make([]*service.SessionInfo, 0, len(ids))
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id != "" {
				session, err := s.service.GetSession(r.Context(), id)
				if err == nil {
					sessions = append(sessions, session)
				}
			}
		}
	} else {
		allSessions, err := s.service.ListSessions(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if configName := query.Get("configName"); configName != "" {
			sessions = make([]*service.SessionInfo, 0)
			for _, session := range allSessions {
				if session.ConfigName == configName {
					sessions = append(sessions, session)
				}
			}
		} else {
			sessions = allSessions
		}
	}

	configName := ""
	if len(sessions) > 0 {
		configName = sessions[0].ConfigName
	}

	totalRovers := 0
	list := make([]map[string]interface{}, 0, len(sessions))
	for _, session := range sessions {
		totalRovers += len(session.WorldState.Rovers)
		list = append(list, map[string]interface{}{
			"session_id":    session.ID,
			"config_name":   session.ConfigName,
			"world_state":   session.WorldState,
			"created_at":    session.CreatedAt,
			"last_accessed": session.LastAccessedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"config_name":  configName,
		"total_rovers": totalRovers,
		"sessions":     list,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if s.hub == nil {
		http.Error(w, "WebSocket updates are disabled", http.StatusServiceUnavailable)
		return
	}

	// Verify session exists
	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, strings.ToLower(sessionID))
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
