package service

import (
	"github.com/vogiaan1904/ticketbottle-scangate/internal/bundle"
	"github.com/vogiaan1904/ticketbottle-scangate/internal/models"
)

// statusChange is one pending remote write.
type statusChange struct {
	TicketID string
	From     models.TicketStatus
	To       models.TicketStatus
}

// The planners below are pure: they look at a ticket plus its bundle
// members and decide which writes the operation needs, without
// touching the store. Guards run here, before any remote call.
// Aggregates are recomputed from the member set on every invocation.

// planRedeem guards and plans active -> redeemed for one ticket.
// A child in a known bundle needs a redeemed parent and a free
// child slot; parents and un-bundled tickets redeem unconditionally.
func planRedeem(t models.Ticket, members []models.Ticket) ([]statusChange, error) {
	if t.Status != models.TicketStatusActive {
		return nil, ErrInvalidTransition
	}

	if t.Type == models.TicketTypeChild && t.InBundle() && len(members) > 1 {
		c := bundle.CountStatuses(members)
		if c.RedeemedParents < 1 {
			return nil, ErrParentRequired
		}
		if c.RedeemedChildren+1 > c.RedeemedParents*bundle.MaxChildrenPerParent {
			return nil, ErrChildLimitReached
		}
	}

	return []statusChange{{TicketID: t.ID, From: t.Status, To: models.TicketStatusRedeemed}}, nil
}

// planInvalidate plans active -> invalid. When knocking out a parent
// leaves the bundle with no valid parent at all, every active child
// is parked invalid in the same batch. Pending and expired children
// are outside this engine's state machine and never written. The
// cascade fires only on the predicate flip: parents not all invalid
// before, all invalid after.
func planInvalidate(t models.Ticket, members []models.Ticket) ([]statusChange, error) {
	if t.Status != models.TicketStatusActive {
		return nil, ErrInvalidTransition
	}

	changes := []statusChange{{TicketID: t.ID, From: t.Status, To: models.TicketStatusInvalid}}

	if !t.IsParent() || !t.InBundle() || len(members) < 2 {
		return changes, nil
	}

	before := bundle.AllParentsInvalid(members)
	after := bundle.AllParentsInvalid(bundle.WithStatus(members, t.ID, models.TicketStatusInvalid))
	if before || !after {
		return changes, nil
	}

	for _, m := range members {
		if m.Type != models.TicketTypeChild || m.Status != models.TicketStatusActive {
			continue
		}
		changes = append(changes, statusChange{TicketID: m.ID, From: m.Status, To: models.TicketStatusInvalid})
	}

	return changes, nil
}

// planRevert plans invalid/redeemed -> active. Reverting the parent
// that breaks an all-parents-invalid bundle also revives the invalid
// children; redeemed children stay redeemed.
func planRevert(t models.Ticket, members []models.Ticket) ([]statusChange, error) {
	if t.Status != models.TicketStatusInvalid && t.Status != models.TicketStatusRedeemed {
		return nil, ErrInvalidTransition
	}

	changes := []statusChange{{TicketID: t.ID, From: t.Status, To: models.TicketStatusActive}}

	if !t.IsParent() || !t.InBundle() || len(members) < 2 {
		return changes, nil
	}

	before := bundle.AllParentsInvalid(members)
	after := bundle.AllParentsInvalid(bundle.WithStatus(members, t.ID, models.TicketStatusActive))
	if !before || after {
		return changes, nil
	}

	for _, m := range members {
		if m.Type != models.TicketTypeChild || m.Status != models.TicketStatusInvalid {
			continue
		}
		changes = append(changes, statusChange{TicketID: m.ID, From: m.Status, To: models.TicketStatusActive})
	}

	return changes, nil
}

// planRedeemAll plans the bulk redemption of every active ticket in a
// bundle. Guards run against the final shape of the bundle: at least
// one parent ends up redeemed, and the redeemed children fit the
// per-parent limit. An empty plan means nothing was active.
func planRedeemAll(members []models.Ticket) ([]statusChange, error) {
	c := bundle.CountStatuses(members)

	finalParents := c.RedeemedParents + c.ActiveParents
	if finalParents == 0 {
		return nil, ErrNoParentTickets
	}

	finalChildren := c.RedeemedChildren + c.ActiveChildren
	if finalChildren > finalParents*bundle.MaxChildrenPerParent {
		return nil, ErrBundleLimitExceeded
	}

	var changes []statusChange
	for _, m := range members {
		if m.Status == models.TicketStatusActive {
			changes = append(changes, statusChange{TicketID: m.ID, From: m.Status, To: models.TicketStatusRedeemed})
		}
	}

	return changes, nil
}

// planRevertAll plans redeemed -> active across a bundle. Reversion
// only shrinks constraints, so there is nothing to guard.
func planRevertAll(members []models.Ticket) []statusChange {
	var changes []statusChange
	for _, m := range members {
		if m.Status == models.TicketStatusRedeemed {
			changes = append(changes, statusChange{TicketID: m.ID, From: m.Status, To: models.TicketStatusActive})
		}
	}
	return changes
}
