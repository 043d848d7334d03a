package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vogiaan1904/ticketbottle-scangate/internal/bundle"
	kafka "github.com/vogiaan1904/ticketbottle-scangate/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-scangate/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-scangate/internal/models"
	repo "github.com/vogiaan1904/ticketbottle-scangate/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-scangate/internal/repository/ticketstore"
	pkgLog "github.com/vogiaan1904/ticketbottle-scangate/pkg/logger"
)

type TicketService interface {
	ListTickets(ctx context.Context, sc ScanContext) ([]bundle.Row, error)
	Redeem(ctx context.Context, sc ScanContext, ticketID string) (*TransitionOutput, error)
	Invalidate(ctx context.Context, sc ScanContext, ticketID string) (*TransitionOutput, error)
	RevertToActive(ctx context.Context, sc ScanContext, ticketID string) (*TransitionOutput, error)
	RedeemAll(ctx context.Context, sc ScanContext, bundleID string) (*BulkTransitionOutput, error)
	RevertAll(ctx context.Context, sc ScanContext, bundleID string) (*BulkTransitionOutput, error)
}

type ticketService struct {
	store ticketstore.Repository
	cache repo.TicketCacheRepository
	prod  producer.Producer
	l     pkgLog.Logger
}

func NewTicketService(
	store ticketstore.Repository,
	cache repo.TicketCacheRepository,
	prod producer.Producer,
	l pkgLog.Logger,
) TicketService {
	return &ticketService{
		store: store,
		cache: cache,
		prod:  prod,
		l:     l,
	}
}

func (s *ticketService) ListTickets(ctx context.Context, sc ScanContext) ([]bundle.Row, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}

	tickets, err := s.loadTickets(ctx, sc)
	if err != nil {
		return nil, err
	}

	return bundle.Group(tickets), nil
}

func (s *ticketService) Redeem(ctx context.Context, sc ScanContext, ticketID string) (*TransitionOutput, error) {
	t, members, err := s.loadTicket(ctx, sc, ticketID)
	if err != nil {
		return nil, err
	}

	changes, err := planRedeem(*t, members)
	if err != nil {
		s.l.Warnf(ctx, "service.ticketService.Redeem: %v", err)
		return nil, err
	}

	if err := s.applyChanges(ctx, sc, changes); err != nil {
		return nil, fmt.Errorf("failed to redeem ticket: %w", err)
	}

	out := s.buildOutput(ticketID, members, changes)

	if err := s.prod.PublishTicketRedeemed(ctx, kafka.TicketScanEvent{
		ScanID:   uuid.New().String(),
		EventID:  sc.EventID,
		SeasonID: sc.SeasonID,
		TicketID: ticketID,
		BundleID: t.BundleID,
		Status:   models.TicketStatusRedeemed,
	}); err != nil {
		s.l.Errorf(ctx, "service.ticketService.Redeem: %v", err)
	}

	s.l.Infof(ctx, "service.ticketService.Redeem: redeemed ticket %s (event %s, bundle %q)",
		ticketID, sc.EventID, t.BundleID)

	return out, nil
}

func (s *ticketService) Invalidate(ctx context.Context, sc ScanContext, ticketID string) (*TransitionOutput, error) {
	t, members, err := s.loadTicket(ctx, sc, ticketID)
	if err != nil {
		return nil, err
	}

	changes, err := planInvalidate(*t, members)
	if err != nil {
		s.l.Warnf(ctx, "service.ticketService.Invalidate: %v", err)
		return nil, err
	}

	if err := s.applyChanges(ctx, sc, changes); err != nil {
		return nil, fmt.Errorf("failed to invalidate ticket: %w", err)
	}

	out := s.buildOutput(ticketID, members, changes)

	if err := s.prod.PublishTicketInvalidated(ctx, kafka.TicketScanEvent{
		ScanID:            uuid.New().String(),
		EventID:           sc.EventID,
		SeasonID:          sc.SeasonID,
		TicketID:          ticketID,
		BundleID:          t.BundleID,
		Status:            models.TicketStatusInvalid,
		CascadedTicketIDs: cascadedIDs(ticketID, changes),
	}); err != nil {
		s.l.Errorf(ctx, "service.ticketService.Invalidate: %v", err)
	}

	s.l.Infof(ctx, "service.ticketService.Invalidate: invalidated ticket %s (event %s, cascaded %d)",
		ticketID, sc.EventID, len(changes)-1)

	return out, nil
}

func (s *ticketService) RevertToActive(ctx context.Context, sc ScanContext, ticketID string) (*TransitionOutput, error) {
	t, members, err := s.loadTicket(ctx, sc, ticketID)
	if err != nil {
		return nil, err
	}

	changes, err := planRevert(*t, members)
	if err != nil {
		s.l.Warnf(ctx, "service.ticketService.RevertToActive: %v", err)
		return nil, err
	}

	if err := s.applyChanges(ctx, sc, changes); err != nil {
		return nil, fmt.Errorf("failed to revert ticket: %w", err)
	}

	out := s.buildOutput(ticketID, members, changes)

	if err := s.prod.PublishTicketReverted(ctx, kafka.TicketScanEvent{
		ScanID:            uuid.New().String(),
		EventID:           sc.EventID,
		SeasonID:          sc.SeasonID,
		TicketID:          ticketID,
		BundleID:          t.BundleID,
		Status:            models.TicketStatusActive,
		CascadedTicketIDs: cascadedIDs(ticketID, changes),
	}); err != nil {
		s.l.Errorf(ctx, "service.ticketService.RevertToActive: %v", err)
	}

	s.l.Infof(ctx, "service.ticketService.RevertToActive: reverted ticket %s (event %s, cascaded %d)",
		ticketID, sc.EventID, len(changes)-1)

	return out, nil
}

func (s *ticketService) RedeemAll(ctx context.Context, sc ScanContext, bundleID string) (*BulkTransitionOutput, error) {
	members, err := s.loadBundle(ctx, sc, bundleID)
	if err != nil {
		return nil, err
	}

	changes, err := planRedeemAll(members)
	if err != nil {
		s.l.Warnf(ctx, "service.ticketService.RedeemAll: %v", err)
		return nil, err
	}

	if len(changes) == 0 {
		return &BulkTransitionOutput{
			BundleID: bundleID,
			NoOp:     true,
			Message:  "nothing to redeem",
			Row:      rowFor(members),
		}, nil
	}

	ids := changeIDs(changes)
	if err := s.store.ConfirmBatch(ctx, sc.EventID, sc.SeasonID, ids, models.TicketStatusRedeemed); err != nil {
		s.dropSnapshot(ctx, sc)
		s.l.Errorf(ctx, "service.ticketService.RedeemAll: %v", err)
		return nil, fmt.Errorf("failed to redeem bundle: %w", err)
	}
	s.dropSnapshot(ctx, sc)

	updated, changed := applyLocal(members, changes)

	if err := s.prod.PublishBundleRedeemed(ctx, kafka.BundleScanEvent{
		ScanID:    uuid.New().String(),
		EventID:   sc.EventID,
		SeasonID:  sc.SeasonID,
		BundleID:  bundleID,
		TicketIDs: ids,
		Status:    models.TicketStatusRedeemed,
	}); err != nil {
		s.l.Errorf(ctx, "service.ticketService.RedeemAll: %v", err)
	}

	s.l.Infof(ctx, "service.ticketService.RedeemAll: redeemed bundle %s (event %s, %d tickets)",
		bundleID, sc.EventID, len(ids))

	return &BulkTransitionOutput{
		BundleID: bundleID,
		Changed:  changed,
		Row:      rowFor(updated),
	}, nil
}

func (s *ticketService) RevertAll(ctx context.Context, sc ScanContext, bundleID string) (*BulkTransitionOutput, error) {
	members, err := s.loadBundle(ctx, sc, bundleID)
	if err != nil {
		return nil, err
	}

	changes := planRevertAll(members)
	if len(changes) == 0 {
		return &BulkTransitionOutput{
			BundleID: bundleID,
			NoOp:     true,
			Message:  "nothing to revert",
			Row:      rowFor(members),
		}, nil
	}

	ids := changeIDs(changes)
	if err := s.store.ConfirmBatch(ctx, sc.EventID, sc.SeasonID, ids, models.TicketStatusActive); err != nil {
		s.dropSnapshot(ctx, sc)
		s.l.Errorf(ctx, "service.ticketService.RevertAll: %v", err)
		return nil, fmt.Errorf("failed to revert bundle: %w", err)
	}
	s.dropSnapshot(ctx, sc)

	updated, changed := applyLocal(members, changes)

	if err := s.prod.PublishBundleReverted(ctx, kafka.BundleScanEvent{
		ScanID:    uuid.New().String(),
		EventID:   sc.EventID,
		SeasonID:  sc.SeasonID,
		BundleID:  bundleID,
		TicketIDs: ids,
		Status:    models.TicketStatusActive,
	}); err != nil {
		s.l.Errorf(ctx, "service.ticketService.RevertAll: %v", err)
	}

	s.l.Infof(ctx, "service.ticketService.RevertAll: reverted bundle %s (event %s, %d tickets)",
		bundleID, sc.EventID, len(ids))

	return &BulkTransitionOutput{
		BundleID: bundleID,
		Changed:  changed,
		Row:      rowFor(updated),
	}, nil
}

// loadTickets returns the event/season's full ticket set, serving
// from the snapshot cache when it holds one.
func (s *ticketService) loadTickets(ctx context.Context, sc ScanContext) ([]models.Ticket, error) {
	cached, hit, err := s.cache.Get(ctx, sc.EventID, sc.SeasonID)
	if err == nil && hit {
		return cached, nil
	}
	if err != nil {
		// Cache trouble never blocks a scan.
		s.l.Warnf(ctx, "service.ticketService.loadTickets: %v", err)
	}

	tickets, err := s.store.FetchTickets(ctx, sc.EventID, sc.SeasonID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}

	if err := s.cache.Set(ctx, sc.EventID, sc.SeasonID, tickets); err != nil {
		s.l.Warnf(ctx, "service.ticketService.loadTickets: %v", err)
	}

	return tickets, nil
}

func (s *ticketService) loadTicket(ctx context.Context, sc ScanContext, ticketID string) (*models.Ticket, []models.Ticket, error) {
	if err := sc.validate(); err != nil {
		return nil, nil, err
	}

	tickets, err := s.loadTickets(ctx, sc)
	if err != nil {
		return nil, nil, err
	}

	var t *models.Ticket
	for i := range tickets {
		if tickets[i].ID == ticketID {
			t = &tickets[i]
			break
		}
	}
	if t == nil {
		return nil, nil, ErrTicketNotFound
	}

	return t, membersOf(tickets, *t), nil
}

func (s *ticketService) loadBundle(ctx context.Context, sc ScanContext, bundleID string) ([]models.Ticket, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}

	tickets, err := s.loadTickets(ctx, sc)
	if err != nil {
		return nil, err
	}

	var members []models.Ticket
	for _, t := range tickets {
		if t.BundleID == bundleID {
			members = append(members, t)
		}
	}
	if len(members) == 0 {
		return nil, ErrBundleNotFound
	}
	bundle.SortTickets(members)

	return members, nil
}

// applyChanges writes the planned changes to the store: one call for
// a lone change, a concurrent fire-all-wait-all batch for a cascade.
// Each write runs to completion independently: a sibling's failure
// neither cancels nor rolls back the others. The snapshot is dropped
// either way so the next fetch reconciles.
func (s *ticketService) applyChanges(ctx context.Context, sc ScanContext, changes []statusChange) error {
	defer s.dropSnapshot(ctx, sc)

	if len(changes) == 1 {
		ch := changes[0]
		return s.store.UpdateStatus(ctx, sc.EventID, sc.SeasonID, ch.TicketID, ch.To)
	}

	var g errgroup.Group
	for _, ch := range changes {
		g.Go(func() error {
			return s.store.UpdateStatus(ctx, sc.EventID, sc.SeasonID, ch.TicketID, ch.To)
		})
	}

	return g.Wait()
}

func (s *ticketService) dropSnapshot(ctx context.Context, sc ScanContext) {
	if err := s.cache.Invalidate(ctx, sc.EventID, sc.SeasonID); err != nil {
		s.l.Warnf(ctx, "service.ticketService.dropSnapshot: %v", err)
	}
}

func (s *ticketService) buildOutput(ticketID string, members []models.Ticket, changes []statusChange) *TransitionOutput {
	updated, changed := applyLocal(members, changes)

	out := &TransitionOutput{
		Changed: changed,
		Row:     rowFor(updated),
	}
	for _, t := range updated {
		if t.ID == ticketID {
			out.Ticket = t
			break
		}
	}

	return out
}

func membersOf(tickets []models.Ticket, t models.Ticket) []models.Ticket {
	if !t.InBundle() {
		return []models.Ticket{t}
	}

	var members []models.Ticket
	for _, m := range tickets {
		if m.BundleID == t.BundleID {
			members = append(members, m)
		}
	}
	bundle.SortTickets(members)

	return members
}

// applyLocal reflects the committed changes on the in-memory member
// set and collects the tickets that changed, in member order.
func applyLocal(members []models.Ticket, changes []statusChange) (updated, changed []models.Ticket) {
	byID := make(map[string]models.TicketStatus, len(changes))
	for _, ch := range changes {
		byID[ch.TicketID] = ch.To
	}

	updated = make([]models.Ticket, len(members))
	copy(updated, members)
	for i := range updated {
		if st, ok := byID[updated[i].ID]; ok {
			updated[i].Status = st
			changed = append(changed, updated[i])
		}
	}

	return updated, changed
}

func rowFor(members []models.Ticket) *bundle.Row {
	rows := bundle.Group(members)
	if len(rows) != 1 {
		return nil
	}
	return &rows[0]
}

func changeIDs(changes []statusChange) []string {
	ids := make([]string, 0, len(changes))
	for _, ch := range changes {
		ids = append(ids, ch.TicketID)
	}
	return ids
}

func cascadedIDs(ticketID string, changes []statusChange) []string {
	var ids []string
	for _, ch := range changes {
		if ch.TicketID != ticketID {
			ids = append(ids, ch.TicketID)
		}
	}
	return ids
}
