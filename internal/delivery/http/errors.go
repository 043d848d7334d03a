package http

import (
	"errors"
	"net/http"

	"github.com/vogiaan1904/ticketbottle-scangate/internal/service"
)

// mapError translates service errors into HTTP status codes. Guard
// failures are unprocessable; anything unrecognized is assumed to be
// a ticket store failure.
func mapError(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingEventContext):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTicketNotFound),
		errors.Is(err, service.ErrBundleNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrParentRequired),
		errors.Is(err, service.ErrChildLimitReached),
		errors.Is(err, service.ErrNoParentTickets),
		errors.Is(err, service.ErrBundleLimitExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrTokenInvalid),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrProvisionKeyInvalid):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}
