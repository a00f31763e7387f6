package engine

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"fmt"
)

// persistVersion is bumped whenever GameState changes shape.
const persistVersion = 1

type persistedGame struct {
	Version  int
	Payload  []byte
	Checksum [sha256.Size]byte
}

// MarshalBinary serializes the full game state, deck order and RNG
// included.
func (g *GameState) MarshalBinary() ([]byte, error) {
	// Encoded as a Snapshot, which has no marshal methods of its own.
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(g.Save()); err != nil {
		return nil, fmt.Errorf("encode game state: %w", err)
	}
	rec := persistedGame{
		Version:  persistVersion,
		Payload:  payload.Bytes(),
		Checksum: sha256.Sum256(payload.Bytes()),
	}
	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(rec); err != nil {
		return nil, fmt.Errorf("encode game record: %w", err)
	}
	return out.Bytes(), nil
}

// UnmarshalBinary replaces g with a state produced by MarshalBinary.
// g is left untouched on error.
func (g *GameState) UnmarshalBinary(data []byte) error {
	var rec persistedGame
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return fmt.Errorf("decode game record: %w", err)
	}
	if rec.Version != persistVersion {
		return fmt.Errorf("unsupported game record version %d", rec.Version)
	}
	if sha256.Sum256(rec.Payload) != rec.Checksum {
		return fmt.Errorf("game record checksum mismatch")
	}
	var restored Snapshot
	if err := gob.NewDecoder(bytes.NewReader(rec.Payload)).Decode(&restored); err != nil {
		return fmt.Errorf("decode game state: %w", err)
	}
	if n := restored.Rules.numPlayers(); n < 2 || n > MaxPlayers {
		return fmt.Errorf("%w: restored game has %d players", ErrConfiguration, n)
	}
	g.Restore(restored)
	return nil
}

// Decode restores a game serialized with MarshalBinary.
func Decode(data []byte) (GameState, error) {
	var g GameState
	err := g.UnmarshalBinary(data)
	return g, err
}
