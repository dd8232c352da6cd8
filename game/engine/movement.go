package engine

import (
	"fmt"
	"time"
)

// ApplyRoll resolves one die outcome for the active player.
//
// The call is atomic: on error nothing changes, on success the state is
// fully updated before the outcome is returned.
func (e *TurnEngine) ApplyRoll(die int) (*TurnOutcome, error) {
	if die < MinDie || die > MaxDie {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDie, die)
	}
	if e.state.IsTerminal {
		return nil, ErrGameOver
	}
	if e.ackRequired && e.state.AwaitingAck {
		return nil, ErrRollInProgress
	}

	var outcome *TurnOutcome
	if die == MaxDie {
		outcome = e.state.resolveSix(e.config)
	} else {
		outcome = e.state.resolveNonSix(die, e.config)
	}

	e.state.LastOutcome = outcome
	e.state.Message = outcome.Message
	e.state.AddRollToHistory(outcome)
	if e.ackRequired {
		e.state.AwaitingAck = true
	}

	return outcome, nil
}

// resolveSix handles a six: overshoot rejection, accumulated win, the
// three-sixes forfeit, or a bonus roll.
func (gs *GameState) resolveSix(config *BoardConfig) *TurnOutcome {
	active := gs.ActivePlayer
	ps := gs.Players[active]
	start := ps.Position
	total := config.Cells()

	outcome := &TurnOutcome{
		Player: active,
		Die:    MaxDie,
		From:   start,
	}

	if start+ps.TurnAccumulator+MaxDie > total {
		return gs.rejectOvershoot(outcome, total)
	}

	ps.TurnAccumulator += MaxDie

	// A winning six ends the turn; it never grants a bonus roll.
	if start+ps.TurnAccumulator == total {
		outcome.Steps = ps.TurnAccumulator
		ps.TurnAccumulator = 0
		ps.ConsecutiveSixes = 0
		return gs.win(outcome, total)
	}

	ps.ConsecutiveSixes++

	if ps.ConsecutiveSixes == MaxSixesInARow {
		outcome.SixesInARow = ps.ConsecutiveSixes
		ps.TurnAccumulator = 0
		ps.ConsecutiveSixes = 0
		gs.ActivePlayer = active.Other()

		outcome.Kind = Forfeited
		outcome.FinalPosition = start
		outcome.NextPlayer = gs.ActivePlayer
		outcome.Message = fmt.Sprintf("Player %d rolled three sixes! Turn skipped.", active)
		return outcome
	}

	outcome.Kind = BonusRoll
	outcome.Accumulated = ps.TurnAccumulator
	outcome.SixesInARow = ps.ConsecutiveSixes
	outcome.FinalPosition = start
	outcome.NextPlayer = active
	outcome.Message = fmt.Sprintf("Player %d rolled a 6, roll again!", active)
	return outcome
}

// resolveNonSix handles a 1-5: it always ends the turn, applying the whole
// accumulated total at once.
func (gs *GameState) resolveNonSix(die int, config *BoardConfig) *TurnOutcome {
	active := gs.ActivePlayer
	ps := gs.Players[active]
	start := ps.Position
	total := config.Cells()

	outcome := &TurnOutcome{
		Player: active,
		Die:    die,
		From:   start,
	}

	if start+ps.TurnAccumulator+die > total {
		return gs.rejectOvershoot(outcome, total)
	}

	steps := ps.TurnAccumulator + die
	ps.TurnAccumulator = 0
	ps.ConsecutiveSixes = 0
	ps.Position = start + steps
	outcome.Steps = steps
	outcome.Landed = ps.Position

	if ps.Position == total {
		return gs.win(outcome, total)
	}

	landed := ps.Position
	gs.ActivePlayer = active.Other()
	outcome.NextPlayer = gs.ActivePlayer

	// One relocation per roll; the destination is never looked up again.
	if dest, ok := config.Ladders[landed]; ok {
		ps.Position = dest
		outcome.Kind = ShortcutTriggered
		outcome.HazardFrom = landed
		outcome.HazardTo = dest
		outcome.FinalPosition = dest
		outcome.Message = fmt.Sprintf("Ladder! up to %d", dest)
		return outcome
	}
	if dest, ok := config.Snakes[landed]; ok {
		ps.Position = dest
		outcome.Kind = HazardTriggered
		outcome.HazardFrom = landed
		outcome.HazardTo = dest
		outcome.FinalPosition = dest
		outcome.Message = fmt.Sprintf("Snake! down to %d", dest)
		return outcome
	}

	outcome.Kind = Moved
	outcome.FinalPosition = landed
	outcome.Message = fmt.Sprintf("Player %d moved %d to %d", active, steps, landed)
	return outcome
}

// rejectOvershoot discards the whole accumulated turn and passes the turn on
func (gs *GameState) rejectOvershoot(outcome *TurnOutcome, total int) *TurnOutcome {
	active := gs.ActivePlayer
	ps := gs.Players[active]
	ps.TurnAccumulator = 0
	ps.ConsecutiveSixes = 0
	gs.ActivePlayer = active.Other()

	outcome.Kind = RejectedOvershoot
	outcome.FinalPosition = ps.Position
	outcome.NextPlayer = gs.ActivePlayer
	outcome.Message = fmt.Sprintf("Need exact roll to reach %d.", total)
	return outcome
}

// win places the active token on the final cell and freezes the game
func (gs *GameState) win(outcome *TurnOutcome, total int) *TurnOutcome {
	active := gs.ActivePlayer
	gs.Players[active].Position = total
	gs.IsTerminal = true
	gs.Winner = active

	outcome.Kind = Win
	outcome.Landed = total
	outcome.FinalPosition = total
	outcome.NextPlayer = active
	outcome.Winner = active
	outcome.Message = fmt.Sprintf("Player %d wins!", active)
	return outcome
}

// AddRollToHistory appends a resolved roll to the game's roll history
func (gs *GameState) AddRollToHistory(outcome *TurnOutcome) {
	entry := RollHistoryEntry{
		RollNumber: gs.TotalRolls + 1,
		Player:     outcome.Player,
		Kind:       gs.PlayerKinds[outcome.Player],
		Die:        outcome.Die,
		Outcome:    outcome.Kind,
		From:       outcome.From,
		To:         outcome.FinalPosition,
		Timestamp:  time.Now().Unix(),
	}
	// Cumulative history is never cleared by reset
	gs.RollHistory = append(gs.RollHistory, entry)
	gs.TotalRolls++

	gs.CurrentRolls = append(gs.CurrentRolls, entry)
	gs.CurrentRollsCount++
}
