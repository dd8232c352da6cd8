package engine

import "errors"

var (
	ErrInvalidDie           = errors.New("die value must be between 1 and 6")
	ErrGameOver             = errors.New("game is over")
	ErrRollInProgress       = errors.New("previous roll has not been acknowledged")
	ErrNothingToAcknowledge = errors.New("no roll awaiting acknowledgement")
	ErrInvalidPlayer        = errors.New("invalid player")
	ErrInvalidPlayerKind    = errors.New("invalid player kind")
	ErrInvalidBoard         = errors.New("invalid board configuration")
	ErrInvalidState         = errors.New("invalid game state")
)
