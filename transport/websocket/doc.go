// Package websocket pushes live world state to browser and tool clients.
//
// A central Hub owns every connection. Each client gets a read pump and a
// write pump goroutine; the hub event loop is the only place the session
// client sets are touched.
//
// Message Protocol:
//
// Clients connect to /ws?session=<id>. Incoming frames are ignored apart
// from keeping the connection alive. Outgoing frames are JSON:
//
//	{"session_id": "a1b2", "event": "state_update", "world_state": {...}}
//
// A state_update is sent after every deploy, run, plan run and reset in the
// session. Updates only reach clients of the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
