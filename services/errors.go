package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	// Lookups
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrShareNotFound      = errors.New("share not found")

	// Validation and business rules
	ErrValidationFailed          = errors.New("validation failed")
	ErrRosterEmpty               = errors.New("team roster requires at least one player name")
	ErrPlayerBothSides           = errors.New("a player cannot be on both sides of the match")
	ErrTournamentDetailsRequired = errors.New("tournament name and date are required")
	ErrNoMatchesSubmitted        = errors.New("submission contains no matches")
	ErrPasswordTooWeak           = errors.New("password does not meet the strength policy")

	// Conflicts
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserUsernameConflict = errors.New("username is already in use")
	ErrShareConflict        = errors.New("tournament is already shared with this user")
	ErrShareSelf            = errors.New("cannot share a tournament with yourself")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)
