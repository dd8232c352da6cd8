package session

import (
	"fmt"
	"time"

	"github.com/wricardo/snakes-ladders/game/engine"
	"github.com/wricardo/snakes-ladders/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions
type PersistedSessionData struct {
	ID             string            `json:"id"`
	ConfigName     string            `json:"config_name"`
	Mode           service.Mode      `json:"mode"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

func newPersistedData(session *service.Session) (*PersistedSessionData, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	return &PersistedSessionData{
		ID:             session.ID,
		ConfigName:     session.ConfigID,
		Mode:           session.Mode,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.State().Clone(),
	}, nil
}

// restoreSession rebuilds a live session from its persisted form
func restoreSession(data *PersistedSessionData, configs service.ConfigManager, opts []engine.Option) (*service.Session, error) {
	if data.GameState == nil {
		return nil, fmt.Errorf("persisted session %s has no game state", data.ID)
	}

	boardConfig, err := configs.LoadConfig(data.ConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
	}

	gameEngine, err := engine.NewEngine(boardConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}

	if err := gameEngine.SetState(data.GameState); err != nil {
		return nil, fmt.Errorf("failed to set game state: %w", err)
	}

	mode := data.Mode
	if mode == "" {
		mode = service.ModeTwoPlayer
	}

	return &service.Session{
		ID:             data.ID,
		ConfigID:       data.ConfigName,
		Mode:           mode,
		Engine:         gameEngine,
		Config:         boardConfig,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}
