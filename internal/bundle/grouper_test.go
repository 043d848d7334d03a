package bundle

import (
	"math"
	"testing"

	"github.com/vogiaan1904/ticketbottle-scangate/internal/models"
)

func ticket(id string, typ models.TicketType, st models.TicketStatus, bundleID string) models.Ticket {
	return models.Ticket{
		ID:       id,
		Type:     typ,
		Status:   st,
		BundleID: bundleID,
		Price:    10,
	}
}

func TestGroup(t *testing.T) {
	t.Run("ticket without bundle id becomes a single row", func(t *testing.T) {
		rows := Group([]models.Ticket{
			ticket("t1", models.TicketTypeAdult, models.TicketStatusActive, ""),
		})

		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		if rows[0].Kind != RowKindSingle {
			t.Errorf("expected single row, got %s", rows[0].Kind)
		}
		if rows[0].Ticket.ID != "t1" {
			t.Errorf("expected ticket t1, got %s", rows[0].Ticket.ID)
		}
	})

	t.Run("bundle of size one degrades to a single row", func(t *testing.T) {
		rows := Group([]models.Ticket{
			ticket("t1", models.TicketTypeAdult, models.TicketStatusActive, "B1"),
		})

		if len(rows) != 1 || rows[0].Kind != RowKindSingle {
			t.Fatalf("expected one single row, got %+v", rows)
		}
	})

	t.Run("bundle members sort by rank then holder name", func(t *testing.T) {
		c := ticket("c1", models.TicketTypeChild, models.TicketStatusActive, "B1")
		c.AssignedName = "Alice"
		c2 := ticket("c2", models.TicketTypeChild, models.TicketStatusActive, "B1")
		c2.AssignedName = "Bob"
		p := ticket("p1", models.TicketTypePriority, models.TicketStatusActive, "B1")
		a := ticket("a1", models.TicketTypeAdult, models.TicketStatusActive, "B1")

		rows := Group([]models.Ticket{c2, p, c, a})

		if len(rows) != 1 || rows[0].Kind != RowKindBundle {
			t.Fatalf("expected one bundle row, got %+v", rows)
		}
		got := []string{}
		for _, m := range rows[0].Tickets {
			got = append(got, m.ID)
		}
		want := []string{"a1", "p1", "c1", "c2"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected order %v, got %v", want, got)
			}
		}
	})

	t.Run("bundle aggregates", func(t *testing.T) {
		p := ticket("p1", models.TicketTypeAdult, models.TicketStatusRedeemed, "B1")
		p.Price = 50
		c := ticket("c1", models.TicketTypeChild, models.TicketStatusActive, "B1")
		c.Price = 20

		rows := Group([]models.Ticket{p, c})

		row := rows[0]
		if row.Count != 2 {
			t.Errorf("expected count 2, got %d", row.Count)
		}
		if row.PriceTotal == nil || *row.PriceTotal != 70 {
			t.Errorf("expected price total 70, got %v", row.PriceTotal)
		}
		if row.AllSameStatus {
			t.Error("expected mixed statuses")
		}
		if row.Status != models.TicketStatusRedeemed {
			t.Errorf("expected parent status as representative, got %s", row.Status)
		}
	})

	t.Run("non-finite price total reports null", func(t *testing.T) {
		p := ticket("p1", models.TicketTypeAdult, models.TicketStatusActive, "B1")
		p.Price = math.Inf(1)
		c := ticket("c1", models.TicketTypeChild, models.TicketStatusActive, "B1")

		rows := Group([]models.Ticket{p, c})

		if rows[0].PriceTotal != nil {
			t.Errorf("expected nil price total, got %v", *rows[0].PriceTotal)
		}
	})

	t.Run("representative status falls back to first ticket when no parent", func(t *testing.T) {
		c1 := ticket("c1", models.TicketTypeChild, models.TicketStatusInvalid, "B1")
		c1.AssignedName = "Alice"
		c2 := ticket("c2", models.TicketTypeChild, models.TicketStatusActive, "B1")
		c2.AssignedName = "Bob"

		rows := Group([]models.Ticket{c2, c1})

		if rows[0].Status != models.TicketStatusInvalid {
			t.Errorf("expected status of first sorted ticket, got %s", rows[0].Status)
		}
	})

	t.Run("rows order by minimum rank", func(t *testing.T) {
		lonelyChild := ticket("c9", models.TicketTypeChild, models.TicketStatusActive, "")
		p := ticket("p1", models.TicketTypeAdult, models.TicketStatusActive, "B1")
		c := ticket("c1", models.TicketTypeChild, models.TicketStatusActive, "B1")

		rows := Group([]models.Ticket{lonelyChild, p, c})

		if rows[0].Kind != RowKindBundle {
			t.Fatalf("expected bundle row first, got %s", rows[0].Kind)
		}
		if rows[1].Ticket.ID != "c9" {
			t.Errorf("expected lone child last, got %s", rows[1].Ticket.ID)
		}
	})

	t.Run("child with dangling parent reference stays in its bundle", func(t *testing.T) {
		c := ticket("c1", models.TicketTypeChild, models.TicketStatusActive, "B1")
		c.ParentTicketID = "ghost"
		c2 := ticket("c2", models.TicketTypeChild, models.TicketStatusActive, "B1")

		rows := Group([]models.Ticket{c, c2})

		if len(rows) != 1 || rows[0].Count != 2 {
			t.Fatalf("expected bundle of 2, got %+v", rows)
		}
		if got := ParentOf(rows[0].Tickets, c); got != nil {
			t.Errorf("expected nil guardian, got %+v", got)
		}
	})
}

func TestParentOf(t *testing.T) {
	p := ticket("p1", models.TicketTypeAdult, models.TicketStatusActive, "B1")
	c := ticket("c1", models.TicketTypeChild, models.TicketStatusActive, "B1")
	c.ParentTicketID = "p1"

	members := []models.Ticket{p, c}

	if got := ParentOf(members, c); got == nil || got.ID != "p1" {
		t.Fatalf("expected parent p1, got %+v", got)
	}
	if got := ParentOf(members, p); got != nil {
		t.Errorf("expected nil for ticket without parent reference, got %+v", got)
	}
}

func TestCountStatuses(t *testing.T) {
	members := []models.Ticket{
		ticket("p1", models.TicketTypeAdult, models.TicketStatusRedeemed, "B1"),
		ticket("p2", models.TicketTypePriority, models.TicketStatusActive, "B1"),
		ticket("p3", models.TicketTypeAdult, models.TicketStatusInvalid, "B1"),
		ticket("c1", models.TicketTypeChild, models.TicketStatusRedeemed, "B1"),
		ticket("c2", models.TicketTypeChild, models.TicketStatusActive, "B1"),
		ticket("c3", models.TicketTypeChild, models.TicketStatusPending, "B1"),
	}

	c := CountStatuses(members)

	if c.RedeemedParents != 1 || c.ActiveParents != 1 {
		t.Errorf("unexpected parent counts: %+v", c)
	}
	if c.RedeemedChildren != 1 || c.ActiveChildren != 1 {
		t.Errorf("unexpected child counts: %+v", c)
	}
}

func TestAllParentsInvalid(t *testing.T) {
	t.Run("no parents is never all invalid", func(t *testing.T) {
		members := []models.Ticket{
			ticket("c1", models.TicketTypeChild, models.TicketStatusInvalid, "B1"),
		}
		if AllParentsInvalid(members) {
			t.Error("expected false for parentless bundle")
		}
	})

	t.Run("one valid parent blocks the predicate", func(t *testing.T) {
		members := []models.Ticket{
			ticket("p1", models.TicketTypeAdult, models.TicketStatusInvalid, "B1"),
			ticket("p2", models.TicketTypePriority, models.TicketStatusActive, "B1"),
		}
		if AllParentsInvalid(members) {
			t.Error("expected false while a parent is still valid")
		}
	})

	t.Run("all parents invalid", func(t *testing.T) {
		members := []models.Ticket{
			ticket("p1", models.TicketTypeAdult, models.TicketStatusInvalid, "B1"),
			ticket("c1", models.TicketTypeChild, models.TicketStatusActive, "B1"),
		}
		if !AllParentsInvalid(members) {
			t.Error("expected true")
		}
	})
}

func TestWithStatus(t *testing.T) {
	members := []models.Ticket{
		ticket("p1", models.TicketTypeAdult, models.TicketStatusActive, "B1"),
		ticket("c1", models.TicketTypeChild, models.TicketStatusActive, "B1"),
	}

	sim := WithStatus(members, "p1", models.TicketStatusInvalid)

	if sim[0].Status != models.TicketStatusInvalid {
		t.Errorf("expected simulated status, got %s", sim[0].Status)
	}
	if members[0].Status != models.TicketStatusActive {
		t.Error("original slice must not change")
	}
}
