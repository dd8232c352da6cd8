package session

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/wricardo/snakes-ladders/game/config"
	"github.com/wricardo/snakes-ladders/game/engine"
	"github.com/wricardo/snakes-ladders/game/service"
)

func newTestConfigManager(t *testing.T) *config.Manager {
	t.Helper()
	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	return configManager
}

func newClassicSession(t *testing.T, configs *config.Manager, id string, mode service.Mode, opts ...engine.Option) *service.Session {
	t.Helper()
	board, err := configs.LoadConfig("classic")
	if err != nil {
		t.Fatalf("Failed to load classic board: %v", err)
	}
	p1, p2 := mode.PlayerKinds()
	eng, err := engine.NewEngine(board, append(opts, engine.WithPlayerKinds(p1, p2))...)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	now := time.Now()
	return &service.Session{
		ID:             id,
		ConfigID:       "classic",
		Mode:           mode,
		Engine:         eng,
		Config:         board,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

func TestFilePersistence(t *testing.T) {
	tempDir := t.TempDir()
	configManager := newTestConfigManager(t)

	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	session := newClassicSession(t, configManager, "Test1", service.ModeVsComputer)

	// Player 1 moves 1 -> 4
	if _, err := session.Engine.ApplyRoll(3); err != nil {
		t.Fatalf("ApplyRoll failed: %v", err)
	}

	t.Run("Save and Load Session", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		if !persistence.Exists("test1") || !persistence.Exists("TEST1") {
			t.Error("Session file should exist after save, regardless of ID case")
		}

		if _, err := os.Stat(filepath.Join(tempDir, "test1.json")); err != nil {
			t.Errorf("expected lowercase session file: %v", err)
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}

		if loaded.ID != session.ID {
			t.Errorf("ID mismatch: expected %s, got %s", session.ID, loaded.ID)
		}
		if loaded.ConfigID != "classic" {
			t.Errorf("expected config classic, got %s", loaded.ConfigID)
		}
		if loaded.Mode != service.ModeVsComputer {
			t.Errorf("expected mode vs_computer, got %s", loaded.Mode)
		}
		if loaded.Engine.Position(engine.Player1) != 4 {
			t.Errorf("expected player 1 on 4, got %d", loaded.Engine.Position(engine.Player1))
		}
		if loaded.Engine.ActivePlayer() != engine.Player2 {
			t.Errorf("expected player 2 to move, got %d", loaded.Engine.ActivePlayer())
		}
		if loaded.Engine.PlayerKind(engine.Player2) != engine.Computer {
			t.Errorf("player kinds should survive persistence")
		}
		if len(loaded.Engine.RollHistory()) != 1 {
			t.Errorf("expected 1 history entry, got %d", len(loaded.Engine.RollHistory()))
		}
		if !loaded.CreatedAt.Equal(session.CreatedAt) {
			t.Errorf("CreatedAt mismatch: %v vs %v", loaded.CreatedAt, session.CreatedAt)
		}
	})

	t.Run("Loaded engine keeps playing", func(t *testing.T) {
		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		outcome, err := loaded.Engine.ApplyRoll(2)
		if err != nil {
			t.Fatalf("ApplyRoll on restored engine failed: %v", err)
		}
		if outcome.Player != engine.Player2 || outcome.FinalPosition != 3 {
			t.Errorf("unexpected outcome: %+v", outcome)
		}
	})

	t.Run("Persisted state is a snapshot", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		// Mutating the live engine after saving must not leak into the file
		if _, err := session.Engine.ApplyRoll(1); err != nil {
			t.Fatalf("ApplyRoll failed: %v", err)
		}
		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if loaded.Engine.Position(engine.Player2) != engine.StartCell {
			t.Errorf("expected player 2 on start cell, got %d", loaded.Engine.Position(engine.Player2))
		}
	})

	t.Run("List All Sessions", func(t *testing.T) {
		other := newClassicSession(t, configManager, "test2", service.ModeTwoPlayer)
		if err := persistence.Save(other); err != nil {
			t.Fatalf("Failed to save second session: %v", err)
		}
		// Stray files are ignored
		if err := os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		ids, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}
		sort.Strings(ids)
		if len(ids) != 2 || ids[0] != "test1" || ids[1] != "test2" {
			t.Errorf("expected [test1 test2], got %v", ids)
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		if err := persistence.Delete("test2"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if persistence.Exists("test2") {
			t.Error("Session should not exist after delete")
		}
		if err := persistence.Delete("test2"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Load Missing Session", func(t *testing.T) {
		if _, err := persistence.Load("ghost"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Save Nil Session", func(t *testing.T) {
		if err := persistence.Save(nil); err == nil {
			t.Error("expected error saving nil session")
		}
	})
}

func TestFilePersistence_LoadCorrupted(t *testing.T) {
	tempDir := t.TempDir()
	configManager := newTestConfigManager(t)

	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", "{not json"},
		{"missing state", `{"id":"bad","config_name":"classic"}`},
		{"unknown board", `{"id":"bad","config_name":"nowhere","game_state":{}}`},
		{"position off board", `{"id":"bad","config_name":"classic","game_state":{"players":{"1":{"position":500},"2":{"position":1}},"active_player":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(filepath.Join(tempDir, "bad.json"), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := persistence.Load("bad"); err == nil {
				t.Error("expected load error")
			}
		})
	}
}

func TestFilePersistence_RestoresAckGating(t *testing.T) {
	tempDir := t.TempDir()
	configManager := newTestConfigManager(t)

	persistence, err := NewFilePersistence(tempDir, configManager, engine.WithAckRequired(true))
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	session := newClassicSession(t, configManager, "gate", service.ModeTwoPlayer, engine.WithAckRequired(true))
	if _, err := session.Engine.ApplyRoll(2); err != nil {
		t.Fatalf("ApplyRoll failed: %v", err)
	}
	if err := persistence.Save(session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := persistence.Load("gate")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := loaded.Engine.ApplyRoll(2); !errors.Is(err, engine.ErrRollInProgress) {
		t.Errorf("expected ErrRollInProgress after reload, got %v", err)
	}
	if err := loaded.Engine.Acknowledge(); err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}
	if _, err := loaded.Engine.ApplyRoll(2); err != nil {
		t.Errorf("ApplyRoll after acknowledge failed: %v", err)
	}
}
