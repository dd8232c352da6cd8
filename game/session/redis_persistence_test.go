package session

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/wricardo/snakes-ladders/game/engine"
	"github.com/wricardo/snakes-ladders/game/service"
)

const testRedisPrefix = "snakes:test:"

// newTestRedisPersistence runs an in-process Redis for the duration of the test
func newTestRedisPersistence(t *testing.T, ttl time.Duration) (*RedisPersistence, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("NewRedisClient failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewRedisPersistence(client, testRedisPrefix, ttl, newTestConfigManager(t)), mr
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisClient(addr, "", 0); err == nil {
		t.Error("expected an error for a stopped server")
	}
}

func TestRedisPersistence(t *testing.T) {
	persistence, mr := newTestRedisPersistence(t, time.Minute)
	configManager := newTestConfigManager(t)

	session := newClassicSession(t, configManager, "Red1", service.ModeVsComputer)
	if _, err := session.Engine.ApplyRoll(4); err != nil {
		t.Fatalf("ApplyRoll failed: %v", err)
	}

	if err := persistence.Save(session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !mr.Exists(testRedisPrefix + "red1") {
		t.Fatalf("expected key %sred1, have %v", testRedisPrefix, mr.Keys())
	}
	if !persistence.Exists("red1") {
		t.Fatal("session should exist after save")
	}

	loaded, err := persistence.Load("RED1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Engine.Position(engine.Player1) != 5 {
		t.Errorf("expected player 1 on 5, got %d", loaded.Engine.Position(engine.Player1))
	}
	if loaded.Mode != service.ModeVsComputer {
		t.Errorf("expected vs_computer, got %s", loaded.Mode)
	}

	if err := persistence.Delete("red1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := persistence.Load("red1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if err := persistence.Delete("red1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound deleting twice, got %v", err)
	}
	if persistence.Exists("red1") {
		t.Error("session should be gone after delete")
	}
}

func TestRedisPersistence_TTL(t *testing.T) {
	t.Run("save sets and refreshes the ttl", func(t *testing.T) {
		persistence, mr := newTestRedisPersistence(t, time.Minute)
		session := newClassicSession(t, newTestConfigManager(t), "ttl", service.ModeTwoPlayer)

		if err := persistence.Save(session); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if got := mr.TTL(testRedisPrefix + "ttl"); got != time.Minute {
			t.Errorf("expected a one minute TTL, got %v", got)
		}

		mr.FastForward(40 * time.Second)
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		mr.FastForward(40 * time.Second)
		if !persistence.Exists("ttl") {
			t.Fatal("saving again should refresh the TTL")
		}

		mr.FastForward(time.Minute)
		if persistence.Exists("ttl") {
			t.Error("session should expire after its TTL")
		}
		if _, err := persistence.Load("ttl"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after expiry, got %v", err)
		}
	})

	t.Run("zero ttl keeps sessions", func(t *testing.T) {
		persistence, mr := newTestRedisPersistence(t, 0)
		session := newClassicSession(t, newTestConfigManager(t), "keep", service.ModeTwoPlayer)

		if err := persistence.Save(session); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if got := mr.TTL(testRedisPrefix + "keep"); got != 0 {
			t.Errorf("expected no TTL, got %v", got)
		}
		mr.FastForward(24 * time.Hour)
		if !persistence.Exists("keep") {
			t.Error("session without TTL should not expire")
		}
	})
}

func TestRedisPersistence_ListAll(t *testing.T) {
	persistence, mr := newTestRedisPersistence(t, time.Minute)
	configManager := newTestConfigManager(t)

	ids, err := persistence.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no sessions, got %v", ids)
	}

	for _, id := range []string{"b2", "A1", "c3"} {
		if err := persistence.Save(newClassicSession(t, configManager, id, service.ModeTwoPlayer)); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}
	// Keys outside the prefix belong to someone else
	if err := mr.Set("snakes:prod:zz99", "{}"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := mr.Set("unrelated", "x"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	ids, err = persistence.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	sort.Strings(ids)
	if len(ids) != 3 || ids[0] != "a1" || ids[1] != "b2" || ids[2] != "c3" {
		t.Errorf("expected [a1 b2 c3], got %v", ids)
	}
}

func TestRedisPersistence_LoadCorrupted(t *testing.T) {
	persistence, mr := newTestRedisPersistence(t, time.Minute)

	if err := mr.Set(testRedisPrefix+"bad1", "{not json"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, err := persistence.Load("bad1")
	if err == nil {
		t.Fatal("expected an error for corrupted data")
	}
	if errors.Is(err, ErrSessionNotFound) {
		t.Error("corrupted data should not look like a missing session")
	}
}

func TestRedisPersistence_ServerDown(t *testing.T) {
	persistence, mr := newTestRedisPersistence(t, time.Minute)
	mr.Close()

	session := newClassicSession(t, newTestConfigManager(t), "down", service.ModeTwoPlayer)
	if err := persistence.Save(session); err == nil {
		t.Error("expected Save to fail with Redis down")
	}
	if _, err := persistence.ListAll(); err == nil {
		t.Error("expected ListAll to fail with Redis down")
	}
	if persistence.Exists("down") {
		t.Error("Exists should report false when Redis is unreachable")
	}
}

func TestManager_RedisBacked(t *testing.T) {
	persistence, _ := newTestRedisPersistence(t, time.Minute)
	configManager := newTestConfigManager(t)

	manager := NewManagerWithPersistence(persistence)
	session, err := manager.Create("r3d1", "classic", configManager.GetDefault(), service.ModeTwoPlayer)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := session.Engine.ApplyRoll(5); err != nil {
		t.Fatalf("ApplyRoll failed: %v", err)
	}
	if err := manager.Save(session.ID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	restarted := NewManagerWithPersistence(persistence)
	if err := restarted.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions failed: %v", err)
	}
	loaded, err := restarted.Get("R3D1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.Engine.Position(engine.Player1) != 6 {
		t.Errorf("expected player 1 on 6, got %d", loaded.Engine.Position(engine.Player1))
	}

	if err := restarted.Delete("r3d1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if persistence.Exists("r3d1") {
		t.Error("Delete should remove the Redis key")
	}
}
