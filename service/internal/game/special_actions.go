// internal/game/special_actions.go
package game

import "github.com/alphags/alphags/engine"

// specialNames maps turn event bits to the names clients receive.
var specialNames = []struct {
	bit  uint16
	name string
}{
	{engine.EventShake, "shake"},
	{engine.EventBomb, "bomb"},
	{engine.EventBombToken, "bomb_token"},
	{engine.EventJoker, "joker"},
	{engine.EventKiss, "kiss"},
	{engine.EventSweep, "sweep"},
	{engine.EventClear, "clear"},
}

// freshSpecials returns the event bits the last answer added to the turn.
func freshSpecials(prev, cur engine.TurnSummary) uint16 {
	if prev.Turn != cur.Turn {
		return cur.Events
	}
	return cur.Events &^ prev.Events
}

// specialList names the special moves set in bits.
func specialList(bits uint16) []string {
	var out []string
	for _, s := range specialNames {
		if bits&s.bit != 0 {
			out = append(out, s.name)
		}
	}
	return out
}

// announceSpecials broadcasts each special move the last answer triggered,
// with the pi stolen so far this turn.
// Assumes lock is held by caller.
func (g *Match) announceSpecials(user *EventUser, prev *engine.GameState) {
	cur := g.Engine.LastTurn
	for _, name := range specialList(freshSpecials(prev.LastTurn, cur)) {
		g.fireEvent(GameEvent{
			Type:    EventPlayerSpecial,
			User:    user,
			Special: name,
			Payload: map[string]interface{}{"stolen": cur.Stolen},
		})
		g.logAction(user.ID, "special_"+name, nil)
	}
}
