package service

import (
	"fmt"
	"time"

	"github.com/wricardo/snakes-ladders/game/engine"
)

// Mode selects who controls player 2
type Mode string

const (
	ModeTwoPlayer  Mode = "two_player"
	ModeVsComputer Mode = "vs_computer"
)

// ParseMode maps a request value to a Mode; empty means two players
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeTwoPlayer:
		return ModeTwoPlayer, nil
	case ModeVsComputer:
		return ModeVsComputer, nil
	default:
		return "", fmt.Errorf("%w: %q (use %s or %s)", ErrInvalidMode, s, ModeTwoPlayer, ModeVsComputer)
	}
}

// PlayerKinds returns the controller of each player in this mode
func (m Mode) PlayerKinds() (engine.PlayerKind, engine.PlayerKind) {
	if m == ModeVsComputer {
		return engine.Human, engine.Computer
	}
	return engine.Human, engine.Human
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	Mode           Mode                `json:"mode"`
	AckRequired    bool                `json:"ack_required"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	Board          *engine.BoardConfig `json:"board"`
}

// RollOptions controls a single roll request
type RollOptions struct {
	// Die is the face to resolve; nil draws from the service's die source.
	Die *int `json:"die,omitempty"`
	// AutoAck acknowledges the outcome immediately, letting a computer opponent play on.
	AutoAck bool `json:"auto_ack"`
}

// RollResult contains the result of a roll or acknowledgement
type RollResult struct {
	Outcome       *engine.TurnOutcome   `json:"outcome,omitempty"`
	ComputerRolls []*engine.TurnOutcome `json:"computer_rolls,omitempty"`
	GameState     *engine.GameState     `json:"game_state"`
	Events        []GameEvent           `json:"events"`
	Message       string                `json:"message"`
}

// Event types reported in RollResult.Events and over WebSocket
const (
	EventRoll     = "roll"
	EventBonus    = "bonus"
	EventLadder   = "ladder"
	EventSnake    = "snake"
	EventForfeit  = "forfeit"
	EventOvershot = "overshoot"
	EventVictory  = "victory"
	EventAck      = "ack"
	EventReset    = "reset"
	EventMode     = "mode"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type       string            `json:"type"`
	Message    string            `json:"message"`
	Timestamp  time.Time         `json:"timestamp"`
	Player     engine.Player     `json:"player,omitempty"`
	PlayerKind engine.PlayerKind `json:"player_kind,omitempty"`
	Die        int               `json:"die,omitempty"`
	From       int               `json:"from,omitempty"`
	To         int               `json:"to,omitempty"`
}

// HistoryOptions configures roll history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
	// Current restricts the result to rolls made since the last reset.
	Current bool `json:"current"`
}

// HistoryResponse contains paginated roll history
type HistoryResponse struct {
	Rolls       []engine.RollHistoryEntry `json:"rolls"`
	TotalRolls  int                       `json:"total_rolls"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename    string `json:"filename,omitempty"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Size        int    `json:"size"`
	Cells       int    `json:"cells"`
	Snakes      int    `json:"snakes"`
	Ladders     int    `json:"ladders"`
}
