// engine_adapter.go: bridge between engine.GameState and Match.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/alphags/alphags/engine"
	"github.com/alphags/alphags/service/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// parseAnswer converts a client action into an engine answer.
func parseAnswer(action models.GameAction) (engine.Answer, error) {
	switch action.ActionType {
	case models.ActionThrow:
		c, err := payloadCard(action.Payload, "card")
		if err != nil {
			return nil, err
		}
		return engine.ThrowAnswer{
			Card:  c,
			Shake: payloadBool(action.Payload, "shake"),
			Bomb:  payloadBool(action.Payload, "bomb"),
		}, nil
	case models.ActionFlip:
		return engine.FlipAnswer{}, nil
	case models.ActionPick:
		c, err := payloadCard(action.Payload, "card")
		if err != nil {
			return nil, err
		}
		return engine.PickAnswer{Card: c}, nil
	case models.ActionPresident:
		return engine.PresidentAnswer{Stop: payloadBool(action.Payload, "stop")}, nil
	case models.ActionDoublePi:
		return engine.DoublePiAnswer{Use: payloadBool(action.Payload, "use")}, nil
	case models.ActionGo:
		return engine.GoAnswer{Go: payloadBool(action.Payload, "go")}, nil
	}
	return nil, fmt.Errorf("%w: unknown action type %q", engine.ErrProtocolMismatch, action.ActionType)
}

func payloadCard(payload map[string]interface{}, key string) (engine.Card, error) {
	name, ok := payload[key].(string)
	if !ok {
		return engine.EmptyCard, fmt.Errorf("%w: missing %q", engine.ErrProtocolMismatch, key)
	}
	c, err := engine.ParseCard(name)
	if err != nil || c == engine.EmptyCard {
		return engine.EmptyCard, fmt.Errorf("%w: bad card %q", engine.ErrProtocolMismatch, name)
	}
	return c, nil
}

func payloadBool(payload map[string]interface{}, key string) bool {
	b, _ := payload[key].(bool)
	return b
}

// answerPayload describes an answer for the action log.
func answerPayload(a engine.Answer) map[string]interface{} {
	switch a := a.(type) {
	case engine.ThrowAnswer:
		return map[string]interface{}{"card": a.Card.String(), "shake": a.Shake, "bomb": a.Bomb}
	case engine.PickAnswer:
		return map[string]interface{}{"card": a.Card.String()}
	case engine.PresidentAnswer:
		return map[string]interface{}{"stop": a.Stop}
	case engine.DoublePiAnswer:
		return map[string]interface{}{"use": a.Use}
	case engine.GoAnswer:
		return map[string]interface{}{"go": a.Go}
	}
	return nil
}

// timeoutAnswer picks the answer given on behalf of an idle player: stop on
// go/stop, decline the optional choices, otherwise the first legal answer.
func timeoutAnswer(g *engine.GameState) engine.Answer {
	switch g.Question().(type) {
	case nil:
		return nil
	case engine.SayGo:
		return engine.GoAnswer{Go: false}
	case engine.ClaimPresident:
		return engine.PresidentAnswer{Stop: false}
	case engine.UseAsDoublePi:
		return engine.DoublePiAnswer{Use: false}
	}
	legal := g.LegalAnswers()
	if len(legal) == 0 {
		return nil
	}
	return legal[0]
}

// applyAnswer applies an answer to the engine, emits events and moves the
// match on. Rejected answers leave the engine untouched.
// Assumes lock is held by caller.
func (g *Match) applyAnswer(playerID uuid.UUID, seat uint8, answer engine.Answer, timedOut bool) error {
	prev := g.Engine
	if err := g.Engine.Apply(seat, answer); err != nil {
		g.Log.WithFields(logrus.Fields{"player": playerID, "answer": fmt.Sprintf("%#v", answer)}).
			Debugf("Answer rejected: %v", err)
		g.rejectAnswer(playerID, err)
		return err
	}

	actionType := answer.Kind().String()
	if timedOut {
		actionType = "timeout_" + actionType
	}
	g.logAction(playerID, actionType, answerPayload(answer))
	g.emitEventsForAnswer(playerID, answer, &prev)
	g.saveCheckpoint()

	if g.Engine.IsTerminal() {
		g.EndGame()
		return nil
	}
	g.onQuestionAdvanced()
	return nil
}

// emitEventsForAnswer broadcasts the public effect of an accepted answer.
// Assumes lock is held by caller.
func (g *Match) emitEventsForAnswer(playerID uuid.UUID, answer engine.Answer, prev *engine.GameState) {
	user := &EventUser{ID: playerID}
	turn := g.Engine.LastTurn

	switch a := answer.(type) {
	case engine.ThrowAnswer:
		g.fireEvent(GameEvent{Type: EventPlayerThrow, User: user, Card: a.Card.String(), Payload: turnPayload(turn)})
	case engine.FlipAnswer:
		g.fireEvent(GameEvent{Type: EventPlayerFlip, User: user, Card: turn.Flipped.String(), Payload: turnPayload(turn)})
	case engine.PickAnswer:
		g.fireEvent(GameEvent{Type: EventPlayerPick, User: user, Card: a.Card.String(), Payload: turnPayload(turn)})
	case engine.PresidentAnswer:
		g.fireEvent(GameEvent{Type: EventPlayerPresident, User: user, Payload: map[string]interface{}{"stop": a.Stop}})
	case engine.DoublePiAnswer:
		g.fireEvent(GameEvent{Type: EventPlayerDoublePi, User: user, Payload: map[string]interface{}{"use": a.Use}})
	case engine.GoAnswer:
		typ := EventPlayerStop
		if a.Go {
			typ = EventPlayerGo
		}
		g.fireEvent(GameEvent{Type: typ, User: user, Payload: map[string]interface{}{"go_count": g.Engine.Players[g.PlayerToSeat[playerID]].GoCount}})
	}
	g.announceSpecials(user, prev)
}

func turnPayload(t engine.TurnSummary) map[string]interface{} {
	return map[string]interface{}{
		"turn":     t.Turn,
		"placed":   t.Placed,
		"captured": t.Captured,
		"stolen":   t.Stolen,
	}
}

// onQuestionAdvanced runs after every new question: players get their new
// sight, and the asked player either gets a timer or, if disconnected, an
// automatic answer.
// Assumes lock is held by caller.
func (g *Match) onQuestionAdvanced() {
	g.TurnID++
	g.broadcastSyncStateToAll()
	if g.GameOver || g.Engine.IsTerminal() {
		return
	}

	actor := g.currentPlayerID()
	if p := g.getPlayerByID(actor); p == nil || !p.Connected {
		g.handleTimeout(actor)
		return
	}
	g.scheduleNextTurnTimer()
	g.broadcastPlayerTurn()
}

// scheduleNextTurnTimer arms the timer for the pending question.
// Assumes lock is held by caller.
func (g *Match) scheduleNextTurnTimer() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	if g.TurnDuration <= 0 || g.GameOver || !g.Started || g.Engine.IsTerminal() {
		return
	}

	curTurnID := g.TurnID
	actor := g.currentPlayerID()
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if !g.GameOver && g.Started && g.TurnID == curTurnID {
			g.Log.WithField("player", actor).Infof("Timer fired on question %d.", curTurnID)
			g.handleTimeout(actor)
		}
	})
}

// broadcastPlayerTurn tells everyone who must answer what.
// Assumes lock is held by caller.
func (g *Match) broadcastPlayerTurn() {
	q := g.Engine.Question()
	if q == nil {
		return
	}
	actor := g.currentPlayerID()
	g.fireEvent(GameEvent{
		Type: EventGamePlayerTurn,
		User: &EventUser{ID: actor},
		Payload: map[string]interface{}{
			"turn":     g.TurnID,
			"question": q.Kind().String(),
		},
	})
}

// handleTimeout answers the pending question for playerID with the timeout policy.
// Assumes lock is held by caller.
func (g *Match) handleTimeout(playerID uuid.UUID) {
	seat, ok := g.PlayerToSeat[playerID]
	if !ok || g.currentPlayerID() != playerID {
		g.Log.WithField("player", playerID).Warn("Timeout for a player who is not being asked.")
		return
	}
	answer := timeoutAnswer(&g.Engine)
	if answer == nil {
		return
	}
	g.Log.WithField("player", playerID).Infof("Answering %s on timeout.", answer.Kind())
	g.fireEvent(GameEvent{
		Type:    EventPlayerTimeout,
		User:    &EventUser{ID: playerID},
		Payload: map[string]interface{}{"question": answer.Kind().String()},
	})
	if err := g.applyAnswer(playerID, seat, answer, true); err != nil {
		g.Log.WithError(err).Error("Timeout answer rejected.")
	}
}

// saveCheckpoint stores the match so it can be resumed after a restart.
// Assumes lock is held by caller.
func (g *Match) saveCheckpoint() {
	if g.Snapshots == nil {
		return
	}
	data, err := g.Checkpoint()
	if err != nil {
		g.Log.WithError(err).Error("Cannot encode checkpoint.")
		return
	}
	g.snapSeq++
	seq := g.snapSeq
	g.background(func(ctx context.Context) {
		g.snapMu.Lock()
		defer g.snapMu.Unlock()
		if g.snapDropped || seq < g.snapWritten {
			return
		}
		if err := g.Snapshots.SaveSnapshot(ctx, g.ID, data); err != nil {
			g.Log.WithError(err).Error("Failed saving checkpoint.")
			return
		}
		g.snapWritten = seq
	})
}

// dropCheckpoint removes the stored checkpoint of a finished match. Writes
// still in flight are discarded.
// Assumes lock is held by caller.
func (g *Match) dropCheckpoint() {
	if g.Snapshots == nil {
		return
	}
	g.background(func(ctx context.Context) {
		g.snapMu.Lock()
		defer g.snapMu.Unlock()
		g.snapDropped = true
		if err := g.Snapshots.DeleteSnapshot(ctx, g.ID); err != nil {
			g.Log.WithError(err).Error("Failed deleting checkpoint.")
		}
	})
}
