package engine

import (
	"encoding/json"
	"testing"
)

func TestOutcomeKindConstants(t *testing.T) {
	tests := []struct {
		name     string
		kind     OutcomeKind
		expected string
		switches bool
	}{
		{"Moved", Moved, "moved", true},
		{"HazardTriggered", HazardTriggered, "hazard_triggered", true},
		{"ShortcutTriggered", ShortcutTriggered, "shortcut_triggered", true},
		{"BonusRoll", BonusRoll, "bonus_roll", false},
		{"Forfeited", Forfeited, "forfeited", true},
		{"RejectedOvershoot", RejectedOvershoot, "rejected_overshoot", true},
		{"Win", Win, "win", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.kind) != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, string(tt.kind))
			}
			if tt.kind.SwitchesTurn() != tt.switches {
				t.Errorf("SwitchesTurn() = %v, want %v", tt.kind.SwitchesTurn(), tt.switches)
			}
		})
	}
}

func TestValidationConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		expected int
	}{
		{"MinBoardSize", MinBoardSize, 3},
		{"MaxBoardSize", MaxBoardSize, 20},
		{"MinDie", MinDie, 1},
		{"MaxDie", MaxDie, 6},
		{"StartCell", StartCell, 1},
		{"MaxSixesInARow", MaxSixesInARow, 3},
		{"MaxComputerRolls", MaxComputerRolls, 4},
		{"DefaultBoardSize", DefaultBoardSize, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != tt.expected {
				t.Errorf("Expected %s to be %d, got %d", tt.name, tt.expected, tt.value)
			}
		})
	}
}

func TestPlayer(t *testing.T) {
	if Player1.Other() != Player2 || Player2.Other() != Player1 {
		t.Error("Other() must swap the two players")
	}
	for _, p := range []Player{0, 3, -1} {
		if p.Valid() {
			t.Errorf("Player %d should be invalid", p)
		}
	}
	if !Player1.Valid() || !Player2.Valid() {
		t.Error("Players 1 and 2 must be valid")
	}
}

func TestBoardConfigCells(t *testing.T) {
	config := &BoardConfig{Size: 7}
	if config.Cells() != 49 {
		t.Errorf("Expected 49 cells, got %d", config.Cells())
	}
}

func TestGameStateJSON(t *testing.T) {
	engine := newTestEngine(t, WithPlayerKinds(Human, Computer))
	if _, err := engine.ApplyRoll(4); err != nil {
		t.Fatalf("ApplyRoll failed: %v", err)
	}

	data, err := json.Marshal(engine.State())
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}

	var restored GameState
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal state: %v", err)
	}

	if restored.Players[Player1].Position != 5 {
		t.Errorf("Expected player 1 at 5, got %d", restored.Players[Player1].Position)
	}
	if restored.PlayerKinds[Player2] != Computer {
		t.Errorf("Expected player 2 computer, got %s", restored.PlayerKinds[Player2])
	}
	if restored.LastOutcome == nil || restored.LastOutcome.Kind != Moved {
		t.Errorf("Expected last outcome to survive, got %+v", restored.LastOutcome)
	}
	if err := ValidateGameState(&restored, engine.Config()); err != nil {
		t.Errorf("Restored state should validate: %v", err)
	}
}

func TestTurnOutcomeJSON(t *testing.T) {
	outcome := TurnOutcome{
		Kind:          ShortcutTriggered,
		Player:        Player1,
		Die:           1,
		Steps:         7,
		From:          13,
		Landed:        20,
		HazardFrom:    20,
		HazardTo:      58,
		FinalPosition: 58,
		NextPlayer:    Player2,
	}

	data, err := json.Marshal(outcome)
	if err != nil {
		t.Fatalf("Failed to marshal outcome: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Failed to unmarshal outcome: %v", err)
	}

	if fields["kind"] != "shortcut_triggered" {
		t.Errorf("Expected kind shortcut_triggered, got %v", fields["kind"])
	}
	if fields["hazard_to"] != float64(58) {
		t.Errorf("Expected hazard_to 58, got %v", fields["hazard_to"])
	}
	if _, ok := fields["winner"]; ok {
		t.Error("winner should be omitted when unset")
	}
}

func TestGameStateClone(t *testing.T) {
	engine := newTestEngine(t)
	if _, err := engine.ApplyRoll(3); err != nil {
		t.Fatalf("ApplyRoll failed: %v", err)
	}

	clone := engine.State().Clone()
	clone.Players[Player1].Position = 50
	clone.PlayerKinds[Player2] = Computer
	clone.LastOutcome.Die = 6
	clone.RollHistory[0].Die = 6

	if engine.Position(Player1) != 4 {
		t.Error("Clone shares player state with the engine")
	}
	if engine.PlayerKind(Player2) != Human {
		t.Error("Clone shares player kinds with the engine")
	}
	if engine.LastOutcome().Die != 3 || engine.RollHistory()[0].Die != 3 {
		t.Error("Clone shares outcome or history with the engine")
	}

	var nilState *GameState
	if nilState.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
