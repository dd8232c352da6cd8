package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/snakes-ladders/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrComputerTurn    = errors.New("active player is computer-controlled")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, mode Mode) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Roll(ctx context.Context, sessionID string, opts RollOptions) (*RollResult, error)
	Acknowledge(ctx context.Context, sessionID string) (*RollResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	SetPlayerKind(ctx context.Context, sessionID string, player engine.Player, kind engine.PlayerKind) (*RollResult, error)
	SetMode(ctx context.Context, sessionID string, mode Mode) (*RollResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetRollHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.BoardConfig, mode Mode) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	LastAccessed(id string) (time.Time, error)
	Save(id string) error
}

// ConfigManager handles board configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
	SaveConfig(name string, config *engine.BoardConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	ConfigID       string
	Mode           Mode
	Engine         *engine.TurnEngine
	Config         *engine.BoardConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
