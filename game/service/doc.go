// Package service provides the business logic layer for the Snakes & Ladders server.
//
// The service package implements:
//   - Multi-session game management
//   - Board configuration access
//   - Roll processing, acknowledgement and reset
//   - Computer opponent turns in vs-computer mode
//   - Roll history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the turn engine. Each session owns its own engine; a service-wide mutex
// serializes every call so no two rolls on one engine interleave. Returned
// game states are snapshots and may be encoded after the lock is released.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", service.ModeVsComputer)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Roll(ctx, info.ID, service.RollOptions{AutoAck: true})
//
// Computer Turns:
//
// After a roll is acknowledged, either explicitly or through AutoAck, the
// service rolls for every computer-controlled player until a human is to
// move or the game is over. Those outcomes are returned in ComputerRolls.
package service
