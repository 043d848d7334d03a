package service

import (
	"github.com/vogiaan1904/ticketbottle-scangate/internal/bundle"
	"github.com/vogiaan1904/ticketbottle-scangate/internal/models"
)

// ScanContext identifies which event/season's tickets an operation
// runs against. Both ids are required.
type ScanContext struct {
	EventID  string `json:"event_id"`
	SeasonID string `json:"season_id"`
}

func (sc ScanContext) validate() error {
	if sc.EventID == "" || sc.SeasonID == "" {
		return ErrMissingEventContext
	}
	return nil
}

// TransitionOutput reports a single-ticket operation. Changed carries
// every ticket the call wrote, cascaded children included.
type TransitionOutput struct {
	Ticket  models.Ticket   `json:"ticket"`
	Changed []models.Ticket `json:"changed"`
	Row     *bundle.Row     `json:"row,omitempty"`
}

// BulkTransitionOutput reports a whole-bundle operation. NoOp means
// the bundle had nothing in the source status; nothing was written.
type BulkTransitionOutput struct {
	BundleID string          `json:"bundle_id"`
	Changed  []models.Ticket `json:"changed"`
	NoOp     bool            `json:"no_op"`
	Message  string          `json:"message,omitempty"`
	Row      *bundle.Row     `json:"row,omitempty"`
}

// DeviceTokenOutput is the issued scanner credential.
type DeviceTokenOutput struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
