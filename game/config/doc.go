// Package config provides board configuration management for the Snakes & Ladders server.
//
// The config package handles:
//   - Loading boards from YAML or JSON files
//   - Board validation through the engine
//   - Default board management
//   - Board discovery and listing
//
// Board Format:
//
// Boards live in the configs directory as <id>.yaml, <id>.yml or <id>.json.
// The file name without extension is the config ID used to create sessions.
//
//	name: classic
//	description: Classic 10x10 board
//	size: 10
//	win_rule: exact
//	snakes:
//	  99: 76
//	ladders:
//	  20: 58
//
// The classic board is built in, so "classic" always resolves even when no
// file defines it.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := manager.LoadConfig("small")
//	boards, err := manager.ListConfigs()
package config
