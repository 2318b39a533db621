package game

import "errors"

var (
	// ErrInvalidAction reports an action index outside the action set.
	// The environment state is untouched.
	ErrInvalidAction = errors.New("game: invalid action")

	// ErrInvalidState reports a Step on a finished episode.
	ErrInvalidState = errors.New("game: episode already done")

	// ErrConfiguration reports an unplayable configuration or layout.
	ErrConfiguration = errors.New("game: invalid configuration")
)
