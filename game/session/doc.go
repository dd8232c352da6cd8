// Package session provides session management for the Snakes & Ladders server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short session ID generation
//   - Optional persistence to disk or Redis
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager owns the in-memory session table. Each session carries its own
// turn engine, created with the player kinds of the session's mode and any
// engine options the manager was built with.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs drawn from crypto/rand. Lookups are
// case-insensitive and persisted keys are stored in lower case.
//
// Persistence:
//
// FilePersistence writes one JSON document per session; RedisPersistence
// stores the same document under a key prefix with an optional TTL. Both
// rebuild the engine from the board config on load, so a session survives
// a restart or eviction from memory.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", configMgr, engine.WithAckRequired(true))
//	manager := session.NewManagerWithPersistence(persistence,
//		session.WithEngineOptions(engine.WithAckRequired(true)),
//		session.WithLogger(logger))
//
//	sess, err := manager.Create("", "classic", board, service.ModeVsComputer)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Cleanup:
//
// CleanupExpiredSessions drops idle sessions from memory only; a persisted
// copy is reloaded on the next Get.
package session
