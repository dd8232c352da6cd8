package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/snakes-ladders/game/engine"
	"github.com/wricardo/snakes-ladders/game/service"
)

const gameInstructions = `Snakes & Ladders - Complete Instructions

OBJECTIVE:
Be the first player to land exactly on the last cell (size x size).

TURN RULES:
• Roll one six-sided die and move forward that many cells.
• Landing on the foot of a ladder climbs to its top.
• Landing on the head of a snake slides down to its tail.
• Ladders and snakes never chain: after one jump the token stays put.
• A roll that would pass the last cell is forfeited; the token does not move.

BONUS ROLLS:
• Rolling a 6 earns another roll in the same turn.
• Three 6s in a row forfeit the whole turn: the token returns to where
  the turn started and play passes to the opponent.

ACKNOWLEDGEMENT:
Sessions may require each outcome to be acknowledged before the next roll.
The roll tool acknowledges automatically unless auto_ack is false; use the
acknowledge tool otherwise.

MODES:
• two_player: both players are human; call roll for whoever is active.
• vs_computer: player 2 rolls by itself right after your turn ends.

BOARD DISPLAY:
Cells are numbered from the bottom-left, snaking upward. In game_state:
• 1 / 2  - a player token (B when both share a cell)
• L      - foot of a ladder
• S      - head of a snake
• .      - plain cell

TIPS:
• Use describe_cell to see where a snake or ladder leads.
• Near the finish, only exact rolls count; game_state lists them.`

// boardSymbol returns the single-character glyph for a cell
func boardSymbol(board *engine.BoardConfig, state *engine.GameState, cell int) string {
	if state != nil {
		p1 := state.Players[engine.Player1]
		p2 := state.Players[engine.Player2]
		on1 := p1 != nil && p1.Position == cell
		on2 := p2 != nil && p2.Position == cell
		switch {
		case on1 && on2:
			return "B"
		case on1:
			return "1"
		case on2:
			return "2"
		}
	}
	if _, ok := board.Ladders[cell]; ok {
		return "L"
	}
	if _, ok := board.Snakes[cell]; ok {
		return "S"
	}
	return "."
}

// formatBoard draws the board top row first, as it appears on a printed board
func formatBoard(board *engine.BoardConfig, state *engine.GameState) string {
	if board == nil {
		return ""
	}
	var b strings.Builder
	for row := board.Size - 1; row >= 0; row-- {
		for col := 0; col < board.Size; col++ {
			b.WriteString(boardSymbol(board, state, engine.CellAt(row, col, board.Size)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatSessionLine(s *service.SessionInfo) string {
	line := fmt.Sprintf("• %s  board=%s mode=%s", s.ID, s.ConfigName, s.Mode)
	if s.GameState != nil {
		line += " " + strings.ReplaceAll(formatPositions(s.GameState), "\n", " ")
	}
	return line
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nBoard: %s\nMode: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Mode,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState, session.Board))
}

// formatPositions summarises both tokens and the turn in one or two lines
func formatPositions(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}
	pos := func(p engine.Player) int {
		if ps := state.Players[p]; ps != nil {
			return ps.Position
		}
		return 0
	}
	line := fmt.Sprintf("P1 (%s): %d | P2 (%s): %d",
		state.PlayerKinds[engine.Player1], pos(engine.Player1),
		state.PlayerKinds[engine.Player2], pos(engine.Player2))
	if state.IsTerminal {
		return line + fmt.Sprintf("\nGAME OVER - player %d wins", state.Winner)
	}
	line += fmt.Sprintf("\nTurn: player %d", state.ActivePlayer)
	if state.AwaitingAck {
		line += " (awaiting acknowledgement)"
	}
	return line
}

func formatGameState(state *engine.GameState, board *engine.BoardConfig) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder
	if board != nil {
		result.WriteString(fmt.Sprintf("Board: %s (%dx%d, finish at %d) | Rolls: %d\n\n",
			board.Name, board.Size, board.Size, board.Cells(), state.TotalRolls))
		result.WriteString(formatBoard(board, state))
		result.WriteString("\n")
	}

	result.WriteString(formatPositions(state))

	if board != nil && !state.IsTerminal {
		if ps := state.Players[state.ActivePlayer]; ps != nil {
			if exact := engine.ExactRollsToFinish(board, ps.Position); len(exact) > 0 {
				result.WriteString(fmt.Sprintf("\nWinning roll: %v", exact))
			} else {
				result.WriteString(fmt.Sprintf("\nDistance to finish: %d", engine.DistanceToFinish(board, ps.Position)))
			}
		}
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatOutcome(o *engine.TurnOutcome) string {
	if o == nil {
		return ""
	}
	switch o.Kind {
	case engine.ShortcutTriggered:
		return fmt.Sprintf("P%d rolled %d: %d -> %d, ladder up to %d", o.Player, o.Die, o.From, o.Landed, o.FinalPosition)
	case engine.HazardTriggered:
		return fmt.Sprintf("P%d rolled %d: %d -> %d, snake down to %d", o.Player, o.Die, o.From, o.Landed, o.FinalPosition)
	case engine.BonusRoll:
		return fmt.Sprintf("P%d rolled %d: now on %d, rolls again (%d six(es) in a row)", o.Player, o.Die, o.FinalPosition, o.SixesInARow)
	case engine.Forfeited:
		return fmt.Sprintf("P%d rolled a third 6: turn forfeited, back to %d", o.Player, o.FinalPosition)
	case engine.RejectedOvershoot:
		return fmt.Sprintf("P%d rolled %d: overshoots the finish, stays on %d", o.Player, o.Die, o.FinalPosition)
	case engine.Win:
		return fmt.Sprintf("P%d rolled %d: reaches %d and WINS", o.Player, o.Die, o.FinalPosition)
	default:
		return fmt.Sprintf("P%d rolled %d: %d -> %d", o.Player, o.Die, o.From, o.FinalPosition)
	}
}

func formatRollResult(result *service.RollResult) string {
	var b strings.Builder
	if line := formatOutcome(result.Outcome); line != "" {
		b.WriteString(line + "\n")
	} else {
		b.WriteString("Outcome acknowledged\n")
	}
	for _, o := range result.ComputerRolls {
		b.WriteString("  computer: " + formatOutcome(o) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formatPositions(result.GameState))
	return b.String()
}

// formatControlChange lists the turns the computer took after a mode or kind change
func formatControlChange(result *service.RollResult) string {
	var b strings.Builder
	for _, o := range result.ComputerRolls {
		b.WriteString("  computer: " + formatOutcome(o) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formatPositions(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Roll History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalRolls))

	if len(history.Rolls) == 0 {
		b.WriteString("(no rolls)")
		return b.String()
	}
	for _, r := range history.Rolls {
		b.WriteString(fmt.Sprintf("#%d P%d (%s) rolled %d: %d -> %d [%s]\n",
			r.RollNumber, r.Player, r.Kind, r.Die, r.From, r.To, r.Outcome))
	}
	return b.String()
}

func formatCellInfo(info engine.CellInfo, board *engine.BoardConfig, state *engine.GameState) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Cell %d (row %d, column %d from bottom-left)\n", info.Cell, info.Row, info.Column))

	switch info.Type {
	case engine.Ladder:
		b.WriteString(fmt.Sprintf("Type: ladder - landing here climbs to %d\n", info.Destination))
	case engine.Snake:
		b.WriteString(fmt.Sprintf("Type: snake - landing here slides to %d\n", info.Destination))
	case engine.Start:
		b.WriteString("Type: start\n")
	case engine.Finish:
		b.WriteString("Type: finish - must be reached exactly\n")
	default:
		b.WriteString("Type: plain\n")
	}

	if state != nil {
		for _, p := range []engine.Player{engine.Player1, engine.Player2} {
			if ps := state.Players[p]; ps != nil && ps.Position == info.Cell {
				b.WriteString(fmt.Sprintf("Player %d is here\n", p))
			}
		}
	}
	b.WriteString(fmt.Sprintf("Distance to finish: %d", engine.DistanceToFinish(board, info.Cell)))
	return b.String()
}
