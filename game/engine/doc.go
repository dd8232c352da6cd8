// Package engine provides the core rule logic for Snakes & Ladders.
//
// The engine package implements the turn/roll resolution mechanics:
//   - Exact-roll finishing (overshooting rolls are rejected)
//   - Bonus rolls on a six, accumulating a multi-roll turn
//   - Forfeiture of the whole turn on a third consecutive six
//   - One snake or ladder relocation after the token lands
//   - Board configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by TurnEngine. GameState holds both players' positions and
// counters, BoardConfig defines the board and is loaded from YAML or JSON
// files, and TurnOutcome describes what a single roll did.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultBoardConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	die := engine.NewCryptoDie()
//	outcome, err := eng.ApplyRoll(die.Roll())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(outcome.Kind, outcome.Steps, outcome.NextPlayer)
//
// Randomness:
//
// The engine never rolls dice itself. Callers draw a value from a DieSource
// (crypto, seeded or scripted) and hand it to ApplyRoll, which keeps rule
// resolution deterministic and testable.
//
// Concurrency:
//
// A TurnEngine is not safe for concurrent use. Each ApplyRoll completes
// synchronously; callers that share an engine must serialize access.
package engine
