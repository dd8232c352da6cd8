package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidateBoardConfig validates a board configuration for correctness and playability
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidBoard)
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidBoard)
	}

	// Validate board size
	if config.Size < MinBoardSize || config.Size > MaxBoardSize {
		return fmt.Errorf("%w: size must be between %d and %d, got %d", ErrInvalidBoard, MinBoardSize, MaxBoardSize, config.Size)
	}

	if config.WinRule == "" {
		config.WinRule = WinRuleExact
	}
	if config.WinRule != WinRuleExact {
		return fmt.Errorf("%w: win_rule must be %q, got %q", ErrInvalidBoard, WinRuleExact, config.WinRule)
	}

	total := config.Cells()
	inRange := func(cell int) bool {
		return cell >= StartCell && cell <= total
	}

	for _, src := range sortedKeys(config.Snakes) {
		dest := config.Snakes[src]
		if !inRange(src) || !inRange(dest) {
			return fmt.Errorf("%w: snake %d->%d lies outside cells 1..%d", ErrInvalidBoard, src, dest, total)
		}
		if dest >= src {
			return fmt.Errorf("%w: snake %d->%d must lead to a lower cell", ErrInvalidBoard, src, dest)
		}
		if _, clash := config.Ladders[src]; clash {
			return fmt.Errorf("%w: cell %d is both a snake and a ladder", ErrInvalidBoard, src)
		}
	}

	for _, src := range sortedKeys(config.Ladders) {
		dest := config.Ladders[src]
		if !inRange(src) || !inRange(dest) {
			return fmt.Errorf("%w: ladder %d->%d lies outside cells 1..%d", ErrInvalidBoard, src, dest, total)
		}
		if dest <= src {
			return fmt.Errorf("%w: ladder %d->%d must lead to a higher cell", ErrInvalidBoard, src, dest)
		}
	}

	// Start and finish cells carry no snake or ladder
	for _, cell := range []int{StartCell, total} {
		if _, ok := config.Snakes[cell]; ok {
			return fmt.Errorf("%w: cell %d cannot hold a snake", ErrInvalidBoard, cell)
		}
		if _, ok := config.Ladders[cell]; ok {
			return fmt.Errorf("%w: cell %d cannot hold a ladder", ErrInvalidBoard, cell)
		}
	}

	// No chaining: a destination is never itself a source
	for _, edges := range []map[int]int{config.Snakes, config.Ladders} {
		for _, src := range sortedKeys(edges) {
			dest := edges[src]
			if _, ok := config.Snakes[dest]; ok {
				return fmt.Errorf("%w: %d->%d ends on the snake at %d", ErrInvalidBoard, src, dest, dest)
			}
			if _, ok := config.Ladders[dest]; ok {
				return fmt.Errorf("%w: %d->%d ends on the ladder at %d", ErrInvalidBoard, src, dest, dest)
			}
		}
	}

	return nil
}

// ValidateGameState checks that a restored state fits the board
func ValidateGameState(state *GameState, config *BoardConfig) error {
	if !state.ActivePlayer.Valid() {
		return fmt.Errorf("%w: active player %d", ErrInvalidState, state.ActivePlayer)
	}
	total := config.Cells()
	for _, p := range []Player{Player1, Player2} {
		ps, ok := state.Players[p]
		if !ok || ps == nil {
			return fmt.Errorf("%w: missing player %d", ErrInvalidState, p)
		}
		if ps.Position < StartCell || ps.Position > total {
			return fmt.Errorf("%w: player %d position %d outside 1..%d", ErrInvalidState, p, ps.Position, total)
		}
		if ps.TurnAccumulator < 0 || ps.ConsecutiveSixes < 0 || ps.ConsecutiveSixes >= MaxSixesInARow {
			return fmt.Errorf("%w: player %d counters out of range", ErrInvalidState, p)
		}
	}
	if state.IsTerminal != state.Winner.Valid() {
		return fmt.Errorf("%w: winner must be set iff the game is over", ErrInvalidState)
	}
	if state.PlayerKinds == nil {
		state.PlayerKinds = map[Player]PlayerKind{Player1: Human, Player2: Human}
	}
	return nil
}

// LoadBoardConfig loads a board configuration from a YAML or JSON file
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeBoardConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// DecodeBoardConfig parses a board file body. JSON object keys are strings,
// so .json files go through encoding/json; everything else is YAML.
func DecodeBoardConfig(data []byte, ext string) (*BoardConfig, error) {
	var config BoardConfig
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse board: %w", err)
		}
		return &config, nil
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse board: %w", err)
	}
	return &config, nil
}

// DefaultBoardConfig returns the classic 10x10 board
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Name:        DefaultBoardName,
		Description: "Classic 10x10 board with six snakes and five ladders",
		Size:        DefaultBoardSize,
		WinRule:     WinRuleExact,
		Snakes:      map[int]int{99: 76, 89: 66, 80: 57, 51: 34, 35: 12, 22: 5},
		Ladders:     map[int]int{20: 58, 47: 68, 55: 76, 69: 90, 78: 97},
	}
}

// NewGameState creates a fresh game: both tokens on the start cell, player 1 to roll
func NewGameState(config *BoardConfig, kinds map[Player]PlayerKind) *GameState {
	playerKinds := map[Player]PlayerKind{Player1: Human, Player2: Human}
	for p, k := range kinds {
		if p.Valid() {
			playerKinds[p] = k
		}
	}

	boardName := ""
	if config != nil {
		boardName = config.Name
	}

	return &GameState{
		Players: map[Player]*PlayerState{
			Player1: {Position: StartCell},
			Player2: {Position: StartCell},
		},
		PlayerKinds:       playerKinds,
		ActivePlayer:      Player1,
		BoardName:         boardName,
		Message:           "Ready",
		RollHistory:       []RollHistoryEntry{},
		CurrentRolls:      []RollHistoryEntry{},
		TotalRolls:        0,
		CurrentRollsCount: 0,
	}
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
