package models

import "strings"

type TicketType string

const (
	TicketTypeAdult    TicketType = "adult"
	TicketTypePriority TicketType = "priority"
	TicketTypeChild    TicketType = "child"
)

// Rank orders ticket types for display and tie-break sorting.
// Parent types sort before children; unknown types sort last.
func (t TicketType) Rank() int {
	switch t {
	case TicketTypeAdult:
		return 0
	case TicketTypePriority:
		return 1
	case TicketTypeChild:
		return 2
	default:
		return 3
	}
}

// IsParent reports whether this type can sponsor child tickets in a bundle.
func (t TicketType) IsParent() bool {
	return t == TicketTypeAdult || t == TicketTypePriority
}

type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusActive   TicketStatus = "active"
	TicketStatusRedeemed TicketStatus = "redeemed"
	TicketStatusInvalid  TicketStatus = "invalid"
	TicketStatusExpired  TicketStatus = "expired"
)

// ParseStatus normalizes a raw status string from the ticket store.
// "cancelled" collapses into "expired" on ingestion.
func ParseStatus(raw string) TicketStatus {
	s := TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
	if s == "cancelled" {
		return TicketStatusExpired
	}
	return s
}

type Ticket struct {
	ID             string       `json:"id"`
	Type           TicketType   `json:"type"`
	Status         TicketStatus `json:"status"`
	BundleID       string       `json:"bundle_id,omitempty"`
	ParentTicketID string       `json:"parent_ticket_id,omitempty"`
	Price          float64      `json:"price"`
	AssignedName   string       `json:"assigned_name,omitempty"`
	SectionName    string       `json:"section_name,omitempty"`
	SideLabel      string       `json:"side_label,omitempty"`
}

func (t *Ticket) IsParent() bool {
	return t.Type.IsParent()
}

// InBundle reports whether the ticket carries a bundle id.
func (t *Ticket) InBundle() bool {
	return strings.TrimSpace(t.BundleID) != ""
}
