package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/snakes-ladders/game/engine"
	"github.com/wricardo/snakes-ladders/observability"
)

// Option customises the game service
type Option func(*gameServiceImpl)

// WithDieSource sets where server-side rolls come from
func WithDieSource(die engine.DieSource) Option {
	return func(s *gameServiceImpl) {
		s.die = die
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *gameServiceImpl) {
		s.logger = logger
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	die      engine.DieSource
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		die:      engine.NewCryptoDie(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, mode Mode) (*SessionInfo, error) {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BoardConfig
	configID := configName
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				return nil, s.configNotFound(configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", configID, config, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session", sess.ID),
		zap.String("board", configID),
		zap.String("mode", string(mode)),
	)

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return err
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// Roll resolves one die for the active player. With AutoAck, or when the
// session does not gate rolls, computer-controlled players then take their turns.
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string, opts RollOptions) (*RollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	eng := sess.Engine

	die := 0
	if opts.Die != nil {
		// Computer turns always draw from the server die
		if eng.IsComputerTurn() && !eng.State().AwaitingAck {
			observability.RollErrors.WithLabelValues(rollErrorReason(ErrComputerTurn)).Inc()
			return nil, fmt.Errorf("%w: player %d", ErrComputerTurn, eng.ActivePlayer())
		}
		die = *opts.Die
	} else {
		die = s.die.Roll()
	}

	kind := eng.PlayerKind(eng.ActivePlayer())
	outcome, err := eng.ApplyRoll(die)
	if err != nil {
		observability.RollErrors.WithLabelValues(rollErrorReason(err)).Inc()
		s.logger.Debug("roll rejected",
			zap.String("session", sess.ID),
			zap.Int("die", die),
			zap.Error(err),
		)
		return nil, err
	}
	s.recordOutcome(sess, outcome, kind)

	result := &RollResult{
		Outcome: outcome,
		Events:  outcomeEvents(outcome, kind),
	}

	if opts.AutoAck || !eng.AckRequired() {
		if eng.State().AwaitingAck {
			_ = eng.Acknowledge()
		}
		s.playComputerTurns(sess, result)
	}

	s.finish(sess, result)
	return result, nil
}

// Acknowledge clears the in-flight outcome and lets a computer opponent play
func (s *gameServiceImpl) Acknowledge(ctx context.Context, sessionID string) (*RollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.Acknowledge(); err != nil {
		return nil, err
	}

	result := &RollResult{
		Events: []GameEvent{{
			Type:      EventAck,
			Message:   "Outcome acknowledged",
			Timestamp: time.Now(),
		}},
	}
	s.playComputerTurns(sess, result)

	s.finish(sess, result)
	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.Reset()
	s.logger.Info("game reset", zap.String("session", sess.ID))

	s.save(sess.ID)
	return sess.Engine.State().Clone(), nil
}

// SetPlayerKind records who controls a player. Handing the active player
// to the computer lets it take its turn straight away.
func (s *gameServiceImpl) SetPlayerKind(ctx context.Context, sessionID string, player engine.Player, kind engine.PlayerKind) (*RollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.SetPlayerKind(player, kind); err != nil {
		return nil, err
	}
	sess.Mode = modeOf(sess.Engine)

	s.logger.Info("player kind changed",
		zap.String("session", sess.ID),
		zap.Int("player", int(player)),
		zap.String("kind", string(kind)),
	)

	result := &RollResult{
		Events: []GameEvent{{
			Type:      EventMode,
			Player:    player,
			Message:   fmt.Sprintf("Player %d is now %s", player, kind),
			Timestamp: time.Now(),
		}},
	}
	s.resumeComputer(sess, result)

	s.finish(sess, result)
	return result, nil
}

// SetMode switches between two-player and vs-computer play
func (s *gameServiceImpl) SetMode(ctx context.Context, sessionID string, mode Mode) (*RollResult, error) {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	p1, p2 := mode.PlayerKinds()
	if err := sess.Engine.SetPlayerKind(engine.Player1, p1); err != nil {
		return nil, err
	}
	if err := sess.Engine.SetPlayerKind(engine.Player2, p2); err != nil {
		return nil, err
	}
	sess.Mode = mode

	s.logger.Info("mode changed", zap.String("session", sess.ID), zap.String("mode", string(mode)))

	result := &RollResult{
		Events: []GameEvent{{
			Type:      EventMode,
			Message:   "Mode set to " + string(mode),
			Timestamp: time.Now(),
		}},
	}
	s.resumeComputer(sess, result)

	s.finish(sess, result)
	return result, nil
}

// resumeComputer plays pending computer turns unless an outcome still
// waits for its acknowledgement; Acknowledge picks those up instead.
func (s *gameServiceImpl) resumeComputer(sess *Session, result *RollResult) {
	if sess.Engine.State().AwaitingAck {
		return
	}
	s.playComputerTurns(sess, result)
}

// GetGameState retrieves a snapshot of the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.State().Clone(), nil
}

// GetRollHistory returns paginated roll history
func (s *gameServiceImpl) GetRollHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.State().RollHistory
	if opts.Current {
		history = sess.Engine.State().CurrentRolls
	}
	return paginate(history, opts), nil
}

// ListConfigs returns available boards
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a board to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Info("board saved", zap.String("board", configName))
	return nil
}

// playComputerTurns rolls for computer-controlled players until a human is
// active or the game ends. Three sixes always end a turn, so the loop is bounded.
func (s *gameServiceImpl) playComputerTurns(sess *Session, result *RollResult) {
	eng := sess.Engine
	for i := 0; i < engine.MaxComputerRolls && eng.IsComputerTurn(); i++ {
		die := s.die.Roll()
		outcome, err := eng.ApplyRoll(die)
		if err != nil {
			s.logger.Warn("computer roll failed",
				zap.String("session", sess.ID),
				zap.Int("die", die),
				zap.Error(err),
			)
			return
		}
		s.recordOutcome(sess, outcome, engine.Computer)

		result.ComputerRolls = append(result.ComputerRolls, outcome)
		result.Events = append(result.Events, outcomeEvents(outcome, engine.Computer)...)

		if eng.State().AwaitingAck {
			_ = eng.Acknowledge()
		}
	}
}

// recordOutcome logs and counts one resolved roll
func (s *gameServiceImpl) recordOutcome(sess *Session, outcome *engine.TurnOutcome, kind engine.PlayerKind) {
	observability.RollsTotal.WithLabelValues(string(outcome.Kind)).Inc()
	if outcome.Kind == engine.Win {
		observability.GamesWon.WithLabelValues(string(kind)).Inc()
	}

	s.logger.Debug("roll resolved",
		zap.String("session", sess.ID),
		zap.Int("player", int(outcome.Player)),
		zap.String("player_kind", string(kind)),
		zap.Int("die", outcome.Die),
		zap.String("kind", string(outcome.Kind)),
		zap.Int("position", outcome.FinalPosition),
	)
	if outcome.Kind == engine.Win {
		s.logger.Info("game won",
			zap.String("session", sess.ID),
			zap.Int("player", int(outcome.Player)),
			zap.String("player_kind", string(kind)),
		)
	}
}

// finish attaches the final state to a result and persists the session
func (s *gameServiceImpl) finish(sess *Session, result *RollResult) {
	state := sess.Engine.State()
	result.GameState = state.Clone()
	result.Message = state.Message
	if result.Events == nil {
		result.Events = []GameEvent{}
	}
	s.save(sess.ID)
}

// save persists a session; failures are logged, never returned
func (s *gameServiceImpl) save(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn("failed to persist session", zap.String("session", sessionID), zap.Error(err))
	}
}

// getSession looks a session up and marks it accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// getConfigID returns the config_id for a board display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return engine.DefaultBoardName
	}
	return configName
}

// configNotFound builds a not-found error listing the available boards
func (s *gameServiceImpl) configNotFound(configName string) error {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil && len(availableConfigs) > 0 {
		var configIDs []string
		for _, cfg := range availableConfigs {
			configIDs = append(configIDs, cfg.ConfigID)
		}
		return fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
	}
	return fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
}

// sessionInfo summarizes a session. The access time is read through the
// manager, which owns it, since read-locked callers touch it concurrently.
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	lastAccessed, err := s.sessions.LastAccessed(sess.ID)
	if err != nil {
		lastAccessed = sess.CreatedAt
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		Mode:           sess.Mode,
		AckRequired:    sess.Engine.AckRequired(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: lastAccessed,
		GameState:      sess.Engine.State().Clone(),
		Board:          sess.Config,
	}
}

// modeOf derives the mode from the current player kinds
func modeOf(eng *engine.TurnEngine) Mode {
	if eng.PlayerKind(engine.Player1) == engine.Human && eng.PlayerKind(engine.Player2) == engine.Computer {
		return ModeVsComputer
	}
	return ModeTwoPlayer
}

func rollErrorReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidDie):
		return "invalid_die"
	case errors.Is(err, engine.ErrGameOver):
		return "game_over"
	case errors.Is(err, engine.ErrRollInProgress):
		return "roll_in_progress"
	case errors.Is(err, ErrComputerTurn):
		return "computer_turn"
	default:
		return "other"
	}
}

// outcomeEvents turns one outcome into the events a client displays
func outcomeEvents(o *engine.TurnOutcome, kind engine.PlayerKind) []GameEvent {
	now := time.Now()
	roll := GameEvent{
		Type:       EventRoll,
		Message:    fmt.Sprintf("Player %d rolled %d", o.Player, o.Die),
		Timestamp:  now,
		Player:     o.Player,
		PlayerKind: kind,
		Die:        o.Die,
		From:       o.From,
		To:         o.FinalPosition,
	}
	events := []GameEvent{roll}

	follow := GameEvent{
		Message:    o.Message,
		Timestamp:  now,
		Player:     o.Player,
		PlayerKind: kind,
		Die:        o.Die,
		From:       o.From,
		To:         o.FinalPosition,
	}
	switch o.Kind {
	case engine.BonusRoll:
		follow.Type = EventBonus
	case engine.ShortcutTriggered:
		follow.Type = EventLadder
		follow.From = o.HazardFrom
	case engine.HazardTriggered:
		follow.Type = EventSnake
		follow.From = o.HazardFrom
	case engine.Forfeited:
		follow.Type = EventForfeit
	case engine.RejectedOvershoot:
		follow.Type = EventOvershot
	case engine.Win:
		follow.Type = EventVictory
	default:
		return events
	}
	return append(events, follow)
}

// paginate applies the history paging rules: page >= 1, limit 20 by default
// and at most 100, newest first unless order is "asc".
func paginate(history []engine.RollHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	rolls := []engine.RollHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			for i := total - 1 - start; i >= total-end; i-- {
				rolls = append(rolls, history[i])
			}
		} else {
			rolls = append(rolls, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Rolls:       rolls,
		TotalRolls:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}
