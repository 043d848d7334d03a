package kafka

import (
	"time"

	"github.com/vogiaan1904/ticketbottle-scangate/internal/models"
)

// TicketScanEvent is published after a single-ticket transition.
// CascadedTicketIDs lists children that changed alongside the ticket.
type TicketScanEvent struct {
	ScanID            string              `json:"scan_id"`
	EventID           string              `json:"event_id"`
	SeasonID          string              `json:"season_id"`
	TicketID          string              `json:"ticket_id"`
	BundleID          string              `json:"bundle_id,omitempty"`
	Status            models.TicketStatus `json:"status"`
	CascadedTicketIDs []string            `json:"cascaded_ticket_ids,omitempty"`
	Timestamp         time.Time           `json:"timestamp"`
}

// BundleScanEvent is published after a bulk bundle transition.
type BundleScanEvent struct {
	ScanID    string              `json:"scan_id"`
	EventID   string              `json:"event_id"`
	SeasonID  string              `json:"season_id"`
	BundleID  string              `json:"bundle_id"`
	TicketIDs []string            `json:"ticket_ids"`
	Status    models.TicketStatus `json:"status"`
	Timestamp time.Time           `json:"timestamp"`
}
