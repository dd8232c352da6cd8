package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Rule resolution
	ApplyRoll(die int) (*TurnOutcome, error)
	Acknowledge() error
	Reset() *GameState

	// Player metadata
	SetPlayerKind(player Player, kind PlayerKind) error
	PlayerKind(player Player) PlayerKind
	IsComputerTurn() bool

	// Game state
	State() *GameState
	SetState(state *GameState) error
	ActivePlayer() Player
	Position(player Player) int
	IsTerminal() bool
	Winner() Player
	LastOutcome() *TurnOutcome

	// Configuration
	Config() *BoardConfig

	// History
	RollHistory() []RollHistoryEntry
}

// Option customises a TurnEngine at construction time
type Option func(*TurnEngine)

// WithAckRequired makes ApplyRoll fail with ErrRollInProgress until the
// previous outcome has been acknowledged.
func WithAckRequired(required bool) Option {
	return func(e *TurnEngine) {
		e.ackRequired = required
	}
}

// WithPlayerKinds sets the initial controller of each player
func WithPlayerKinds(p1, p2 PlayerKind) Option {
	return func(e *TurnEngine) {
		e.initialKinds = map[Player]PlayerKind{Player1: p1, Player2: p2}
	}
}

// TurnEngine implements the Engine interface
type TurnEngine struct {
	state        *GameState
	config       *BoardConfig
	ackRequired  bool
	initialKinds map[Player]PlayerKind
}

// NewEngine creates a new turn engine for the provided board
func NewEngine(config *BoardConfig, opts ...Option) (*TurnEngine, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	e := &TurnEngine{
		config:       config,
		initialKinds: map[Player]PlayerKind{Player1: Human, Player2: Human},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = NewGameState(config, e.initialKinds)

	return e, nil
}

// NewEngineWithDefaults creates a new turn engine on the classic board
func NewEngineWithDefaults(opts ...Option) *TurnEngine {
	e, err := NewEngine(DefaultBoardConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("engine: default board is invalid: %v", err))
	}
	return e
}

// State returns the current game state
func (e *TurnEngine) State() *GameState {
	return e.state
}

// SetState replaces the game state (used for persistence loading)
func (e *TurnEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if err := ValidateGameState(state, e.config); err != nil {
		return err
	}
	e.state = state
	return nil
}

// Reset restores both tokens to the start cell. Player kinds and the
// cumulative roll history survive; the current segment is cleared.
func (e *TurnEngine) Reset() *GameState {
	prevHistory := e.state.RollHistory
	prevTotal := e.state.TotalRolls
	prevKinds := e.state.PlayerKinds

	e.state = NewGameState(e.config, prevKinds)

	e.state.RollHistory = prevHistory
	e.state.TotalRolls = prevTotal
	e.state.CurrentRolls = []RollHistoryEntry{}
	e.state.CurrentRollsCount = 0

	return e.state
}

// Acknowledge marks the last outcome as fully presented, allowing the next roll
func (e *TurnEngine) Acknowledge() error {
	if !e.state.AwaitingAck {
		return ErrNothingToAcknowledge
	}
	e.state.AwaitingAck = false
	return nil
}

// AckRequired reports whether rolls are gated on acknowledgement
func (e *TurnEngine) AckRequired() bool {
	return e.ackRequired
}

// SetPlayerKind records who controls a player. It has no effect on rule resolution.
func (e *TurnEngine) SetPlayerKind(player Player, kind PlayerKind) error {
	if !player.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	if kind != Human && kind != Computer {
		return fmt.Errorf("%w: %q", ErrInvalidPlayerKind, kind)
	}
	e.state.PlayerKinds[player] = kind
	return nil
}

// PlayerKind returns who controls the given player
func (e *TurnEngine) PlayerKind(player Player) PlayerKind {
	if kind, ok := e.state.PlayerKinds[player]; ok {
		return kind
	}
	return Human
}

// IsComputerTurn reports whether the next roll belongs to a computer-controlled player
func (e *TurnEngine) IsComputerTurn() bool {
	return !e.state.IsTerminal && e.PlayerKind(e.state.ActivePlayer) == Computer
}

// ActivePlayer returns the player whose roll is next
func (e *TurnEngine) ActivePlayer() Player {
	return e.state.ActivePlayer
}

// Position returns the cell a player currently occupies
func (e *TurnEngine) Position(player Player) int {
	if ps, ok := e.state.Players[player]; ok {
		return ps.Position
	}
	return 0
}

// IsTerminal returns whether a winner has been decided
func (e *TurnEngine) IsTerminal() bool {
	return e.state.IsTerminal
}

// Winner returns the winning player, or 0 while the game is live
func (e *TurnEngine) Winner() Player {
	return e.state.Winner
}

// LastOutcome returns the most recent outcome, or nil before the first roll
func (e *TurnEngine) LastOutcome() *TurnOutcome {
	return e.state.LastOutcome
}

// Config returns the board configuration
func (e *TurnEngine) Config() *BoardConfig {
	return e.config
}

// RollHistory returns the complete roll history
func (e *TurnEngine) RollHistory() []RollHistoryEntry {
	return e.state.RollHistory
}
