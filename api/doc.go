// Package api provides the HTTP REST API for mission sessions.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                          create a session ({"config_id"} or {"world": "5 5"})
//   - GET    /api/sessions                          list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/unified                  several sessions at once (?sessionIds=a,b or ?configName=plateau)
//   - GET    /api/sessions/{id}                     session details
//   - DELETE /api/sessions/{id}                     delete a session
//
// Fleet:
//   - GET    /api/sessions/{id}/state               world state
//   - GET    /api/sessions/{id}/rovers              deployed rovers
//   - POST   /api/sessions/{id}/rovers              deploy {"name", "position": "1 2 N"}
//   - GET    /api/sessions/{id}/rovers/{rover}      one rover, by ID or name
//   - POST   /api/sessions/{id}/rovers/{rover}/commands   run {"commands": "LMLMM", "reset": false}
//   - POST   /api/sessions/{id}/plan                run every rover's planned commands
//   - POST   /api/sessions/{id}/reset               return rovers to their deploy positions
//   - GET    /api/sessions/{id}/history             paginated run history (?page&limit&order)
//
// Configuration:
//   - GET    /api/configs                           list presets
//   - GET    /api/configs/{name}                    one preset
//   - POST   /api/configs                           save a preset
//   - POST   /api/configs/reload                    re-read presets from disk
//
// Stateless:
//   - POST   /api/simulate                          run a complete mission text, raw or {"input": "..."}
//
// Every state change is pushed to WebSocket subscribers on /ws?session={id}.
//
// Errors are returned as {"error": "message"}. Unknown sessions, presets and
// rovers map to 404; malformed input and rejected commands map to 400.
package api
