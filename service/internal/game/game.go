// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alphags/alphags/engine"
	"github.com/alphags/alphags/service/internal/cache"
	"github.com/alphags/alphags/service/internal/database"
	"github.com/alphags/alphags/service/internal/models"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OnGameEndFunc defines the signature for a callback executed when a match ends.
// It receives the match ID, the winner's ID (Nil on a nagari) and the settled scores.
type OnGameEndFunc func(matchID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int)

// GameEventType represents the type of a match event broadcast via WebSockets.
type GameEventType string

const (
	EventPlayerThrow           GameEventType = "player_throw"            // Public: card thrown and what the turn captured so far.
	EventPlayerFlip            GameEventType = "player_flip"             // Public: deck card flipped and the turn's result.
	EventPlayerPick            GameEventType = "player_pick"             // Public: which of two board cards was taken.
	EventPlayerSpecial         GameEventType = "player_special"          // Public: shake, bomb, kiss, sweep, clear or joker.
	EventPlayerPresident       GameEventType = "player_president"        // Public: president stop or continue.
	EventPlayerDoublePi        GameEventType = "player_double_pi"        // Public: double pi choice.
	EventPlayerGo              GameEventType = "player_go"               // Public: go called.
	EventPlayerStop            GameEventType = "player_stop"             // Public: stop called.
	EventPlayerTimeout         GameEventType = "player_timeout"          // Public: the server answered for an idle player.
	EventGamePlayerTurn        GameEventType = "game_player_turn"        // Public: who must answer which question.
	EventPrivateSyncState      GameEventType = "private_sync_state"      // Private: full sight of the match for one player.
	EventPrivateAnswerRejected GameEventType = "private_answer_rejected" // Private: the last answer was refused.
	EventGameEnd               GameEventType = "game_end"                // Public: match result.
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// GameEvent is the standard structure for broadcasting match changes.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Card    string                 `json:"card,omitempty"`
	Special string                 `json:"special,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *ObfGameState          `json:"state,omitempty"`
}

// ActionPublisher receives the action log of a match.
type ActionPublisher interface {
	PublishGameAction(ctx context.Context, rec cache.GameActionRecord) error
}

// SnapshotStore keeps the latest checkpoint of a running match.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, matchID uuid.UUID, data []byte) error
	DeleteSnapshot(ctx context.Context, matchID uuid.UUID) error
}

// ResultStore persists deals and outcomes.
type ResultStore interface {
	UpsertMatchDeal(ctx context.Context, deal database.MatchDeal) error
	StoreMatchResult(ctx context.Context, res database.MatchResult) error
}

// Errors returned by match operations.
var (
	ErrMatchFull       = errors.New("match is full")
	ErrMatchStarted    = errors.New("match already started")
	ErrMatchNotStarted = errors.New("match not started")
	ErrMatchOver       = errors.New("match is over")
	ErrUnknownPlayer   = errors.New("player is not seated in this match")
)

// Match is one hand of Matgo played by connected users. The engine state is
// authoritative; Match maps seats to users and turns answers into events.
type Match struct {
	ID           uuid.UUID
	Seed         uint64
	Rules        engine.HouseRules
	PasswordHash string

	Players []*models.Player

	Engine       engine.GameState
	PlayerToSeat map[uuid.UUID]uint8
	SeatToPlayer [engine.MaxPlayers]uuid.UUID

	// TurnID increments every time a new question is asked.
	TurnID       int
	TurnDuration time.Duration
	turnTimer    *time.Timer
	actionIndex  int

	Started  bool
	GameOver bool

	Mu sync.Mutex

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc

	Publisher ActionPublisher
	Snapshots SnapshotStore
	Results   ResultStore

	Log logrus.FieldLogger

	// wg tracks background store writes.
	wg sync.WaitGroup

	// Checkpoint writes run in the background; snapMu orders them so an
	// older write never lands after a newer one or after the delete.
	snapMu      sync.Mutex
	snapSeq     uint64
	snapWritten uint64
	snapDropped bool
}

// NewMatch creates a match that will deal with seed under rules.
func NewMatch(rules engine.HouseRules, seed uint64) *Match {
	id, _ := uuid.NewRandom()
	if rules.NumPlayers == 0 {
		rules.NumPlayers = 2
	}
	m := &Match{
		ID:           id,
		Seed:         seed,
		Rules:        rules,
		PlayerToSeat: make(map[uuid.UUID]uint8),
		TurnDuration: 30 * time.Second,
	}
	m.SetLogger(logrus.StandardLogger())
	return m
}

// SetLogger replaces the match logger, tagging it with the match id.
func (g *Match) SetLogger(l logrus.FieldLogger) {
	g.Log = l.WithField("match", g.ID)
}

// AddPlayer seats p at the next free seat.
// Assumes lock is held by caller.
func (g *Match) AddPlayer(p *models.Player) error {
	if g.Started {
		return ErrMatchStarted
	}
	if _, ok := g.PlayerToSeat[p.ID]; ok {
		return nil
	}
	if len(g.Players) >= int(g.Rules.NumPlayers) {
		return ErrMatchFull
	}
	p.Seat = uint8(len(g.Players))
	g.Players = append(g.Players, p)
	g.PlayerToSeat[p.ID] = p.Seat
	g.SeatToPlayer[p.Seat] = p.ID
	g.Log.WithField("player", p.ID).Infof("Seated at %d.", p.Seat)
	return nil
}

// Start deals the hand and asks the first question.
// Assumes lock is held by caller.
func (g *Match) Start() error {
	if g.Started {
		return ErrMatchStarted
	}
	if len(g.Players) != int(g.Rules.NumPlayers) {
		return fmt.Errorf("%w: %d of %d seats taken", ErrMatchNotStarted, len(g.Players), g.Rules.NumPlayers)
	}
	eng, err := engine.NewGame(g.Seed, g.Rules)
	if err != nil {
		return fmt.Errorf("start match %s: %w", g.ID, err)
	}
	eng.Deal()
	g.Engine = eng
	g.Started = true

	g.Log.Infof("Started with %d players.", len(g.Players))
	g.logAction(uuid.Nil, "game_start", map[string]interface{}{"seed": g.Seed})
	g.persistDeal()

	if g.Engine.IsTerminal() {
		g.EndGame()
		return nil
	}
	g.onQuestionAdvanced()
	return nil
}

// fireEvent broadcasts an event to all connected players via the BroadcastFn callback.
// Assumes lock is held by caller.
func (g *Match) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	} else {
		g.Log.Warnf("BroadcastFn is nil, cannot broadcast event type %s.", ev.Type)
	}
}

// fireEventToPlayer sends an event to one connected player.
// Assumes lock is held by caller.
func (g *Match) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		g.Log.Warnf("BroadcastToPlayerFn is nil, cannot send private event type %s to player %s.", ev.Type, playerID)
		return
	}
	if p := g.getPlayerByID(playerID); p != nil && p.Connected {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// HandleDisconnect marks a player as disconnected. A disconnected player's
// questions are answered by the timeout policy.
// Assumes lock is held by caller.
func (g *Match) HandleDisconnect(playerID uuid.UUID) {
	p := g.getPlayerByID(playerID)
	if p == nil {
		g.Log.WithField("player", playerID).Warn("Disconnected player not found.")
		return
	}
	if !p.Connected {
		return
	}
	p.Connected = false
	p.Conn = nil
	g.Log.WithField("player", playerID).Info("Player disconnected.")
	g.logAction(playerID, "player_disconnect", nil)

	if !g.Started || g.GameOver {
		return
	}
	g.broadcastSyncStateToAll()
	if g.currentPlayerID() == playerID {
		g.handleTimeout(playerID)
	}
}

// HandleReconnect marks a player as connected and sends them the current state.
// Assumes lock is held by caller.
func (g *Match) HandleReconnect(playerID uuid.UUID, conn *websocket.Conn) error {
	p := g.getPlayerByID(playerID)
	if p == nil {
		g.logAction(playerID, "player_reconnect_fail", map[string]interface{}{"reason": "player not found"})
		return ErrUnknownPlayer
	}
	if old := p.Conn; old != nil && old != conn {
		go old.Close(websocket.StatusPolicyViolation, "replaced by a new connection")
	}
	p.Connected = true
	p.Conn = conn
	g.Log.WithField("player", playerID).Info("Player connected.")
	g.logAction(playerID, "player_reconnect", map[string]interface{}{"username": p.User.Username})

	if g.Started {
		g.sendSyncState(playerID)
		// A resumed match has no timer until someone connects.
		if !g.GameOver && (g.turnTimer == nil || g.currentPlayerID() == playerID) {
			g.scheduleNextTurnTimer()
		}
	}
	return nil
}

// AllConnected reports whether every seat is taken by a connected player.
// Assumes lock is held by caller.
func (g *Match) AllConnected() bool {
	if len(g.Players) != int(g.Rules.NumPlayers) {
		return false
	}
	return g.countConnectedPlayers() == len(g.Players)
}

// sendSyncState sends the player's sight of the match.
// Assumes lock is held by caller.
func (g *Match) sendSyncState(playerID uuid.UUID) {
	state, err := g.GetObfuscatedState(playerID)
	if err != nil {
		g.Log.WithError(err).WithField("player", playerID).Warn("Cannot build sync state.")
		return
	}
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// broadcastSyncStateToAll sends every connected player their own sight.
// Assumes lock is held by caller.
func (g *Match) broadcastSyncStateToAll() {
	for _, p := range g.Players {
		if p.Connected {
			g.sendSyncState(p.ID)
		}
	}
}

// countConnectedPlayers returns the number of players currently connected.
// Assumes lock is held by caller.
func (g *Match) countConnectedPlayers() int {
	count := 0
	for _, p := range g.Players {
		if p.Connected {
			count++
		}
	}
	return count
}

// HandlePlayerAction answers the pending question on behalf of playerID.
// Rejected answers are reported privately and leave the match unchanged.
// Assumes lock is held by the caller.
func (g *Match) HandlePlayerAction(playerID uuid.UUID, action models.GameAction) error {
	log := g.Log.WithFields(logrus.Fields{"player": playerID, "action": action.ActionType})
	var err error
	switch {
	case g.GameOver:
		err = ErrMatchOver
	case !g.Started:
		err = ErrMatchNotStarted
	}
	seat, ok := g.PlayerToSeat[playerID]
	if err == nil && !ok {
		err = ErrUnknownPlayer
	}
	if err != nil {
		log.Debugf("Action ignored: %v.", err)
		g.rejectAnswer(playerID, err)
		return err
	}

	answer, err := parseAnswer(action)
	if err != nil {
		log.Debugf("Malformed action: %v.", err)
		g.rejectAnswer(playerID, err)
		return err
	}
	return g.applyAnswer(playerID, seat, answer, false)
}

// rejectAnswer tells playerID why their answer was refused.
// Assumes lock is held by caller.
func (g *Match) rejectAnswer(playerID uuid.UUID, err error) {
	g.fireEventToPlayer(playerID, GameEvent{
		Type:    EventPrivateAnswerRejected,
		Payload: map[string]interface{}{"message": err.Error()},
	})
}

// EndGame settles the match, notifies everyone and persists the result.
// Assumes lock is held by caller.
func (g *Match) EndGame() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}

	scores := g.finalScores()
	winner := uuid.Nil
	if w := g.Engine.Winner(); w >= 0 {
		winner = g.SeatToPlayer[w]
	}
	nagari := g.Engine.IsNagari()
	g.Log.WithFields(logrus.Fields{"winner": winner, "nagari": nagari}).Infof("Ended. Scores: %v", scores)

	payload := map[string]interface{}{
		"winner": winner,
		"nagari": nagari,
		"scores": scoresByString(scores),
	}
	g.logAction(uuid.Nil, string(EventGameEnd), payload)
	g.fireEvent(GameEvent{Type: EventGameEnd, Payload: payload})
	g.broadcastSyncStateToAll()
	g.persistResult(winner, nagari, scores)
	g.dropCheckpoint()

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winner, scores)
	}
}

// finalScores returns the winner's score as a gain and every payment as a loss.
// Assumes lock is held by caller.
func (g *Match) finalScores() map[uuid.UUID]int {
	scores := make(map[uuid.UUID]int, len(g.Players))
	w := g.Engine.Winner()
	for seat := uint8(0); seat < g.Engine.NumActivePlayers(); seat++ {
		id := g.SeatToPlayer[seat]
		switch {
		case w < 0:
			scores[id] = 0
		case int8(seat) == w:
			scores[id] = g.Engine.Score(seat)
		default:
			scores[id] = -g.Engine.Payment(seat)
		}
	}
	return scores
}

func scoresByString(scores map[uuid.UUID]int) map[string]int {
	out := make(map[string]int, len(scores))
	for id, s := range scores {
		out[id.String()] = s
	}
	return out
}

// getPlayerByID returns the seated player with playerID, or nil.
func (g *Match) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// currentPlayerID returns the user who must answer the pending question.
func (g *Match) currentPlayerID() uuid.UUID {
	if !g.Started || g.Engine.IsTerminal() {
		return uuid.Nil
	}
	return g.SeatToPlayer[g.Engine.ActingPlayer()]
}

// logAction sends match action details to the historian via the publisher.
// Increments the internal action index for ordering.
// Assumes lock is held by caller.
func (g *Match) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	if g.Publisher == nil {
		return
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	g.background(func(ctx context.Context) {
		if err := g.Publisher.PublishGameAction(ctx, record); err != nil {
			g.Log.WithError(err).Errorf("Failed publishing action %d (%s).", record.ActionIndex, record.ActionType)
		}
	})
}

// persistDeal records the seed and seating of the match.
// Assumes lock is held by caller.
func (g *Match) persistDeal() {
	if g.Results == nil {
		return
	}
	deal := database.MatchDeal{MatchID: g.ID, Seed: g.Seed}
	for seat := uint8(0); seat < g.Engine.NumActivePlayers(); seat++ {
		deal.Players = append(deal.Players, g.SeatToPlayer[seat])
	}
	g.background(func(ctx context.Context) {
		if err := g.Results.UpsertMatchDeal(ctx, deal); err != nil {
			g.Log.WithError(err).Error("Failed storing deal.")
		}
	})
}

// persistResult stores the outcome and the final engine state.
// Assumes lock is held by caller.
func (g *Match) persistResult(winner uuid.UUID, nagari bool, scores map[uuid.UUID]int) {
	if g.Results == nil {
		return
	}
	final, err := g.Engine.MarshalBinary()
	if err != nil {
		g.Log.WithError(err).Error("Cannot encode final state.")
	}
	res := database.MatchResult{
		MatchID:    g.ID,
		WinnerID:   winner,
		Nagari:     nagari,
		Scores:     scores,
		FinalState: final,
		FinishedAt: time.Now(),
	}
	g.background(func(ctx context.Context) {
		if err := g.Results.StoreMatchResult(ctx, res); err != nil {
			g.Log.WithError(err).Error("Failed storing result.")
		}
	})
}

// background runs fn outside the match lock with a short timeout.
func (g *Match) background(fn func(ctx context.Context)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until background store writes have finished.
func (g *Match) Wait() {
	g.wg.Wait()
}
