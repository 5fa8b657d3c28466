package domain

import "errors"

var (
	// ErrUnauthorized is returned for a bad posting key or an invalid,
	// expired or missing session token.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrUserNotFound is returned when no progress record exists for an
	// otherwise-authenticated identity.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidLevel is returned for levels outside [MinLevel, MaxLevel].
	ErrInvalidLevel = errors.New("invalid level")
	// ErrLevelLocked is returned for access beyond the unlocked frontier.
	ErrLevelLocked = errors.New("level not unlocked yet")
	// ErrAnswerCountMismatch is returned when a submission's answer count
	// differs from the level's question count.
	ErrAnswerCountMismatch = errors.New("invalid number of answers")
)
