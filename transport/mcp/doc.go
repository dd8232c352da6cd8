// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes a REST request against a
// running server and the JSON reply is rendered as plain text an agent can
// read. No game logic lives here.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state: board grid, both positions, whose turn, winning roll
//   - roll: roll for the active player, optionally with a chosen face
//   - acknowledge: confirm an outcome when the session gates rolls
//   - reset_game, set_player_kind, set_mode
//   - roll_history: paginated rolls, optionally only since the last reset
//   - list_configs, describe_cell, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
