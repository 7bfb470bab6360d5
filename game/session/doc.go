// Package session keeps mission sessions in memory.
//
// Each session owns its own engine.MissionEngine, so rovers and command
// history never leak between sessions. Session IDs are 4-character hex
// strings generated from crypto/rand and are matched case-insensitively.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", preset)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//	sessions := manager.List()
//
// Sessions that have not been touched for a while can be dropped with
// CleanupExpiredSessions. Nothing is persisted; a restart starts empty.
package session
