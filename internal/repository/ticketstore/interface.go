package ticketstore

import (
	"context"

	"github.com/vogiaan1904/ticketbottle-scangate/internal/models"
)

// Repository is the boundary to the remote ticket store. The store
// applies each status write atomically per ticket id but offers no
// multi-ticket transaction.
type Repository interface {
	// FetchTickets returns the tickets for an event/season. An empty
	// ids slice means all tickets.
	FetchTickets(ctx context.Context, eventID, seasonID string, ids []string) ([]models.Ticket, error)
	// UpdateStatus writes one ticket's status.
	UpdateStatus(ctx context.Context, eventID, seasonID, ticketID string, st models.TicketStatus) error
	// ConfirmBatch writes one status across many tickets in a single
	// store call.
	ConfirmBatch(ctx context.Context, eventID, seasonID string, ids []string, st models.TicketStatus) error
}
