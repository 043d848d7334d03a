package service

import "errors"

var (
	ErrMissingEventContext = errors.New("event and season context required")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrBundleNotFound      = errors.New("no tickets found for bundle")

	// Transition guards, checked before any remote call.
	ErrInvalidTransition   = errors.New("ticket status does not allow this transition")
	ErrParentRequired      = errors.New("adult/priority ticket required first")
	ErrChildLimitReached   = errors.New("child ticket limit reached")
	ErrNoParentTickets     = errors.New("no adult/priority tickets in bundle")
	ErrBundleLimitExceeded = errors.New("would exceed per-parent child limit")

	ErrTokenInvalid        = errors.New("invalid device token")
	ErrTokenExpired        = errors.New("device token expired")
	ErrProvisionKeyInvalid = errors.New("invalid provision key")
)
