package engine

import "errors"

// Errors returned by NewGame and Apply. All are recoverable: the game state is
// left untouched and the caller may retry with a corrected request.
var (
	ErrConfiguration    = errors.New("unsupported game configuration")
	ErrIllegalAction    = errors.New("illegal action")
	ErrProtocolMismatch = errors.New("answer does not match pending question")
)
