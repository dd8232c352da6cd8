package engine

// Player identifies one of the two tokens on the board
type Player int

const (
	Player1 Player = 1
	Player2 Player = 2
)

// Valid reports whether p names one of the two players
func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}

// Other returns the opponent of p
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// PlayerKind tells collaborators who drives a player's rolls
type PlayerKind string

const (
	Human    PlayerKind = "human"
	Computer PlayerKind = "computer"
)

// WinRule selects how the final cell must be reached
type WinRule string

const (
	// WinRuleExact requires landing on the last cell exactly; overshooting rolls are rejected.
	WinRuleExact WinRule = "exact"
)

// OutcomeKind classifies the result of a single roll
type OutcomeKind string

const (
	Moved             OutcomeKind = "moved"
	HazardTriggered   OutcomeKind = "hazard_triggered"
	ShortcutTriggered OutcomeKind = "shortcut_triggered"
	BonusRoll         OutcomeKind = "bonus_roll"
	Forfeited         OutcomeKind = "forfeited"
	RejectedOvershoot OutcomeKind = "rejected_overshoot"
	Win               OutcomeKind = "win"
)

// SwitchesTurn reports whether an outcome of this kind hands the turn to the opponent
func (k OutcomeKind) SwitchesTurn() bool {
	switch k {
	case Moved, HazardTriggered, ShortcutTriggered, Forfeited, RejectedOvershoot:
		return true
	default:
		return false
	}
}

const (
	// Validation constants
	MinBoardSize      = 3
	MaxBoardSize      = 20
	MinDie            = 1
	MaxDie            = 6
	StartCell         = 1
	MaxSixesInARow    = 3
	MaxComputerRolls  = MaxSixesInARow + 1
	DefaultBoardName  = "classic"
	DefaultBoardSize  = 10
	WebSocketBuffSize = 256
)

// BoardConfig represents an immutable board definition loaded from YAML or JSON
type BoardConfig struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Size        int         `json:"size" yaml:"size"`
	WinRule     WinRule     `json:"win_rule" yaml:"win_rule"`
	Snakes      map[int]int `json:"snakes" yaml:"snakes"`
	Ladders     map[int]int `json:"ladders" yaml:"ladders"`
}

// Cells returns the number of the final cell (size squared)
func (c *BoardConfig) Cells() int {
	return c.Size * c.Size
}

// PlayerState holds the per-player counters mutated by the engine
type PlayerState struct {
	Position         int `json:"position"`
	TurnAccumulator  int `json:"turn_accumulator"`
	ConsecutiveSixes int `json:"consecutive_sixes"`
}

// GameState represents the complete game state
type GameState struct {
	Players      map[Player]*PlayerState `json:"players"`
	PlayerKinds  map[Player]PlayerKind   `json:"player_kinds"`
	ActivePlayer Player                  `json:"active_player"`
	IsTerminal   bool                    `json:"is_terminal"`
	Winner       Player                  `json:"winner,omitempty"`
	AwaitingAck  bool                    `json:"awaiting_ack"`
	LastOutcome  *TurnOutcome            `json:"last_outcome,omitempty"`
	BoardName    string                  `json:"board_name"`
	Message      string                  `json:"message"`

	// RollHistory is cumulative across resets; CurrentRolls only covers the running game.
	RollHistory       []RollHistoryEntry `json:"roll_history"`
	TotalRolls        int                `json:"total_rolls"`
	CurrentRolls      []RollHistoryEntry `json:"current_rolls"`
	CurrentRollsCount int                `json:"current_rolls_count"`
}

// TurnOutcome describes everything a presenter needs to animate one roll
type TurnOutcome struct {
	Kind          OutcomeKind `json:"kind"`
	Player        Player      `json:"player"`
	Die           int         `json:"die"`
	Steps         int         `json:"steps,omitempty"`
	From          int         `json:"from"`
	Landed        int         `json:"landed,omitempty"`
	HazardFrom    int         `json:"hazard_from,omitempty"`
	HazardTo      int         `json:"hazard_to,omitempty"`
	FinalPosition int         `json:"final_position"`
	Accumulated   int         `json:"accumulated,omitempty"`
	SixesInARow   int         `json:"sixes_in_a_row,omitempty"`
	NextPlayer    Player      `json:"next_player"`
	Winner        Player      `json:"winner,omitempty"`
	Message       string      `json:"message"`
}

// RollHistoryEntry represents a single resolved roll in the game history
type RollHistoryEntry struct {
	RollNumber int         `json:"roll_number"`
	Player     Player      `json:"player"`
	Kind       PlayerKind  `json:"player_kind"`
	Die        int         `json:"die"`
	Outcome    OutcomeKind `json:"outcome"`
	From       int         `json:"from"`
	To         int         `json:"to"`
	Timestamp  int64       `json:"timestamp"`
}

// Clone returns a deep copy that shares nothing with the receiver
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	c := *gs
	c.Players = make(map[Player]*PlayerState, len(gs.Players))
	for p, ps := range gs.Players {
		if ps == nil {
			continue
		}
		cp := *ps
		c.Players[p] = &cp
	}
	c.PlayerKinds = make(map[Player]PlayerKind, len(gs.PlayerKinds))
	for p, k := range gs.PlayerKinds {
		c.PlayerKinds[p] = k
	}
	if gs.LastOutcome != nil {
		lo := *gs.LastOutcome
		c.LastOutcome = &lo
	}
	c.RollHistory = append([]RollHistoryEntry{}, gs.RollHistory...)
	c.CurrentRolls = append([]RollHistoryEntry{}, gs.CurrentRolls...)
	return &c
}
