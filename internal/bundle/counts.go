package bundle

import "github.com/vogiaan1904/ticketbottle-scangate/internal/models"

// MaxChildrenPerParent caps how many child tickets each redeemed
// parent sponsors within a bundle.
const MaxChildrenPerParent = 3

// StatusCounts is the derived aggregate the transition guards run on.
// Always recomputed from the full ticket set, never cached.
type StatusCounts struct {
	RedeemedParents  int
	ActiveParents    int
	RedeemedChildren int
	ActiveChildren   int
}

func CountStatuses(members []models.Ticket) StatusCounts {
	var c StatusCounts
	for _, t := range members {
		switch {
		case t.IsParent() && t.Status == models.TicketStatusRedeemed:
			c.RedeemedParents++
		case t.IsParent() && t.Status == models.TicketStatusActive:
			c.ActiveParents++
		case t.Type == models.TicketTypeChild && t.Status == models.TicketStatusRedeemed:
			c.RedeemedChildren++
		case t.Type == models.TicketTypeChild && t.Status == models.TicketStatusActive:
			c.ActiveChildren++
		}
	}
	return c
}

// AllParentsInvalid reports whether the bundle holds at least one
// parent ticket and every one of them is invalid. A parentless set is
// never "all invalid"; nothing can flip there.
func AllParentsInvalid(members []models.Ticket) bool {
	parents := 0
	for _, t := range members {
		if !t.IsParent() {
			continue
		}
		parents++
		if t.Status != models.TicketStatusInvalid {
			return false
		}
	}
	return parents > 0
}

// WithStatus returns a copy of members with one ticket's status
// replaced, for simulating a transition before committing it.
func WithStatus(members []models.Ticket, ticketID string, st models.TicketStatus) []models.Ticket {
	out := make([]models.Ticket, len(members))
	copy(out, members)
	for i := range out {
		if out[i].ID == ticketID {
			out[i].Status = st
		}
	}
	return out
}
