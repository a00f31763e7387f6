// internal/models/models.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// User is the identity behind a seat.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Player is a seated participant of a match and its live connection, if any.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	User      *User           `json:"user"`
	Seat      uint8           `json:"seat"`
	Conn      *websocket.Conn `json:"-"`
	Connected bool            `json:"connected"`
}

// GameAction is a message sent by a client answering the pending question.
type GameAction struct {
	ActionType string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// Action types accepted from clients.
const (
	ActionThrow     = "action_throw"
	ActionFlip      = "action_flip"
	ActionPick      = "action_pick"
	ActionPresident = "action_president"
	ActionDoublePi  = "action_double_pi"
	ActionGo        = "action_go"
)
