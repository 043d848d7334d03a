package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vogiaan1904/ticketbottle-scangate/internal/models"
	"github.com/vogiaan1904/ticketbottle-scangate/pkg/logger"
	"github.com/vogiaan1904/ticketbottle-scangate/pkg/redis"
)

// TicketCacheRepository holds short-lived snapshots of an event/
// season's ticket list so repeated scans don't hammer the store.
// Every mutation drops the snapshot; the store stays authoritative.
type TicketCacheRepository interface {
	Get(ctx context.Context, eventID, seasonID string) ([]models.Ticket, bool, error)
	Set(ctx context.Context, eventID, seasonID string, tickets []models.Ticket) error
	Invalidate(ctx context.Context, eventID, seasonID string) error
}

type redisTicketCache struct {
	cli *redis.Client
	ttl time.Duration
	l   logger.Logger
}

func NewRedisTicketCache(cli *redis.Client, ttl time.Duration, l logger.Logger) TicketCacheRepository {
	return &redisTicketCache{
		cli: cli,
		ttl: ttl,
		l:   l,
	}
}

func (r *redisTicketCache) Get(ctx context.Context, eventID, seasonID string) ([]models.Ticket, bool, error) {
	data, err := r.cli.Get(ctx, r.snapshotKey(eventID, seasonID))
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		r.l.Errorf(ctx, "redisTicketCache.Get: %v", err)
		return nil, false, err
	}

	var tickets []models.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		r.l.Errorf(ctx, "redisTicketCache.Get: %v", err)
		return nil, false, err
	}

	return tickets, true, nil
}

func (r *redisTicketCache) Set(ctx context.Context, eventID, seasonID string, tickets []models.Ticket) error {
	data, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket snapshot: %w", err)
	}

	if err := r.cli.Set(ctx, r.snapshotKey(eventID, seasonID), data, r.ttl); err != nil {
		r.l.Errorf(ctx, "redisTicketCache.Set: %v", err)
		return err
	}

	return nil
}

func (r *redisTicketCache) Invalidate(ctx context.Context, eventID, seasonID string) error {
	if err := r.cli.Del(ctx, r.snapshotKey(eventID, seasonID)); err != nil {
		r.l.Errorf(ctx, "redisTicketCache.Invalidate: %v", err)
		return err
	}

	return nil
}

func (r *redisTicketCache) snapshotKey(eventID, seasonID string) string {
	return fmt.Sprintf("scangate:tickets:%s:%s", eventID, seasonID)
}
