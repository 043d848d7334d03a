package bundle

import (
	"math"
	"sort"
	"strings"

	"github.com/vogiaan1904/ticketbottle-scangate/internal/models"
)

type RowKind string

const (
	RowKindSingle RowKind = "single"
	RowKindBundle RowKind = "bundle"
)

// Row is one display entry: either a lone ticket or a purchase bundle
// of two or more tickets with its derived aggregate.
type Row struct {
	Kind          RowKind             `json:"kind"`
	Ticket        *models.Ticket      `json:"ticket,omitempty"`
	BundleID      string              `json:"bundle_id,omitempty"`
	Tickets       []models.Ticket     `json:"tickets,omitempty"`
	Count         int                 `json:"count,omitempty"`
	PriceTotal    *float64            `json:"price_total,omitempty"`
	AllSameStatus bool                `json:"all_same_status,omitempty"`
	Status        models.TicketStatus `json:"status"`
}

// Group partitions a flat ticket list into single and bundle rows.
// Tickets sharing a non-blank bundle id form one row; a bundle of size
// one degrades to a single row. Rows come back ordered by the lowest
// type rank they contain. Malformed input never errors: a child whose
// parent is missing still lands in its bundle.
func Group(tickets []models.Ticket) []Row {
	var order []string
	groups := make(map[string][]models.Ticket)
	var singles []models.Ticket

	for _, t := range tickets {
		id := strings.TrimSpace(t.BundleID)
		if id == "" {
			singles = append(singles, t)
			continue
		}
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], t)
	}

	rows := make([]Row, 0, len(singles)+len(order))
	for _, t := range singles {
		rows = append(rows, singleRow(t))
	}
	for _, id := range order {
		members := groups[id]
		SortTickets(members)
		if len(members) == 1 {
			rows = append(rows, singleRow(members[0]))
			continue
		}
		rows = append(rows, bundleRow(id, members))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].minRank() < rows[j].minRank()
	})

	return rows
}

// SortTickets orders tickets in place by type rank, then holder name.
func SortTickets(ts []models.Ticket) {
	sort.SliceStable(ts, func(i, j int) bool {
		ri, rj := ts[i].Type.Rank(), ts[j].Type.Rank()
		if ri != rj {
			return ri < rj
		}
		return ts[i].AssignedName < ts[j].AssignedName
	})
}

// ParentOf resolves the guardian of a child ticket within its bundle.
// Returns nil when the reference is absent or dangling.
func ParentOf(members []models.Ticket, child models.Ticket) *models.Ticket {
	if child.ParentTicketID == "" {
		return nil
	}
	for i := range members {
		if members[i].ID == child.ParentTicketID && members[i].IsParent() {
			return &members[i]
		}
	}
	return nil
}

func singleRow(t models.Ticket) Row {
	return Row{
		Kind:   RowKindSingle,
		Ticket: &t,
		Status: t.Status,
	}
}

func bundleRow(id string, members []models.Ticket) Row {
	row := Row{
		Kind:          RowKindBundle,
		BundleID:      id,
		Tickets:       members,
		Count:         len(members),
		AllSameStatus: true,
		Status:        representativeStatus(members),
	}

	total := 0.0
	for _, t := range members {
		total += t.Price
		if t.Status != members[0].Status {
			row.AllSameStatus = false
		}
	}
	if !math.IsNaN(total) && !math.IsInf(total, 0) {
		row.PriceTotal = &total
	}

	return row
}

// representativeStatus is the first parent's status, or the first
// ticket's after sorting when the bundle has no parent.
func representativeStatus(sorted []models.Ticket) models.TicketStatus {
	for _, t := range sorted {
		if t.IsParent() {
			return t.Status
		}
	}
	return sorted[0].Status
}

func (r Row) minRank() int {
	if r.Kind == RowKindSingle {
		return r.Ticket.Type.Rank()
	}
	// Members are rank-sorted, the first carries the minimum.
	return r.Tickets[0].Type.Rank()
}
