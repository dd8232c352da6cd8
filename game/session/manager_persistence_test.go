package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wricardo/snakes-ladders/game/engine"
	"github.com/wricardo/snakes-ladders/game/service"
)

func TestManagerWithPersistence(t *testing.T) {
	tempDir := t.TempDir()
	configManager := newTestConfigManager(t)

	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)
	board := configManager.GetDefault()

	t.Run("Create Session Auto-Saves", func(t *testing.T) {
		session, err := manager.Create("auto1", "classic", board, service.ModeTwoPlayer)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if !persistence.Exists(session.ID) {
			t.Error("Session should be auto-saved on creation")
		}
	})

	t.Run("Save Persists Engine Progress", func(t *testing.T) {
		session, err := manager.Get("auto1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if _, err := session.Engine.ApplyRoll(5); err != nil {
			t.Fatalf("ApplyRoll failed: %v", err)
		}
		if err := manager.Save("auto1"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := persistence.Load("auto1")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Engine.Position(engine.Player1) != 6 {
			t.Errorf("expected player 1 on 6, got %d", loaded.Engine.Position(engine.Player1))
		}
	})

	t.Run("Get Falls Back To Persistence", func(t *testing.T) {
		if err := manager.DeleteFromMemory("auto1"); err != nil {
			t.Fatalf("DeleteFromMemory failed: %v", err)
		}
		if manager.Count() != 0 {
			t.Fatalf("expected empty memory, got %d", manager.Count())
		}

		session, err := manager.Get("AUTO1")
		if err != nil {
			t.Fatalf("Get should reload from persistence: %v", err)
		}
		if session.Engine.Position(engine.Player1) != 6 {
			t.Errorf("reloaded session lost progress")
		}
		if manager.Count() != 1 {
			t.Errorf("reloaded session should be cached, count %d", manager.Count())
		}
	})

	t.Run("Delete Removes Persisted Copy", func(t *testing.T) {
		if err := manager.Delete("auto1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists("auto1") {
			t.Error("persisted copy should be removed")
		}
		if _, err := manager.Get("auto1"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Delete Persisted-Only Session", func(t *testing.T) {
		if _, err := manager.Create("disk", "classic", board, service.ModeTwoPlayer); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		_ = manager.DeleteFromMemory("disk")
		if err := manager.Delete("disk"); err != nil {
			t.Errorf("Delete of persisted-only session failed: %v", err)
		}
	})
}

func TestManager_LoadPersistedSessions(t *testing.T) {
	tempDir := t.TempDir()
	configManager := newTestConfigManager(t)

	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	first := NewManagerWithPersistence(persistence)
	board := configManager.GetDefault()
	for _, id := range []string{"p1", "p2", "p3"} {
		if _, err := first.Create(id, "classic", board, service.ModeVsComputer); err != nil {
			t.Fatalf("Create(%s) failed: %v", id, err)
		}
	}
	if err := first.SaveAllSessions(); err != nil {
		t.Fatalf("SaveAllSessions failed: %v", err)
	}

	// A corrupt file is skipped rather than aborting the load
	if err := os.WriteFile(filepath.Join(tempDir, "zz.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	second := NewManagerWithPersistence(persistence)
	if err := second.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions failed: %v", err)
	}
	if second.Count() != 3 {
		t.Errorf("expected 3 restored sessions, got %d", second.Count())
	}

	restored, err := second.Get("p2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if restored.Mode != service.ModeVsComputer {
		t.Errorf("expected vs_computer mode, got %s", restored.Mode)
	}
}

func TestManager_PruneOrphaned(t *testing.T) {
	tempDir := t.TempDir()
	configManager := newTestConfigManager(t)

	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)
	board := configManager.GetDefault()
	for _, id := range []string{"keep", "gone"} {
		if _, err := manager.Create(id, "classic", board, service.ModeTwoPlayer); err != nil {
			t.Fatalf("Create(%s) failed: %v", id, err)
		}
	}

	if err := os.Remove(filepath.Join(tempDir, "gone.json")); err != nil {
		t.Fatal(err)
	}

	if pruned := manager.PruneOrphaned(); pruned != 1 {
		t.Errorf("expected 1 pruned session, got %d", pruned)
	}
	if _, err := manager.Get("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := manager.Get("keep"); err != nil {
		t.Errorf("kept session missing: %v", err)
	}
}
