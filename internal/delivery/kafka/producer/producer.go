package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	kafka "github.com/vogiaan1904/ticketbottle-scangate/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-scangate/pkg/logger"
)

// Producer publishes scan audit events. All publishes are best effort:
// the caller logs failures and never fails the scan over them.
type Producer interface {
	PublishTicketRedeemed(ctx context.Context, event kafka.TicketScanEvent) error
	PublishTicketInvalidated(ctx context.Context, event kafka.TicketScanEvent) error
	PublishTicketReverted(ctx context.Context, event kafka.TicketScanEvent) error
	PublishBundleRedeemed(ctx context.Context, event kafka.BundleScanEvent) error
	PublishBundleReverted(ctx context.Context, event kafka.BundleScanEvent) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishTicketRedeemed(ctx context.Context, event kafka.TicketScanEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicTicketRedeemed, ticketKey(event), event)
}

func (p *implProducer) PublishTicketInvalidated(ctx context.Context, event kafka.TicketScanEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicTicketInvalidated, ticketKey(event), event)
}

func (p *implProducer) PublishTicketReverted(ctx context.Context, event kafka.TicketScanEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicTicketReverted, ticketKey(event), event)
}

func (p *implProducer) PublishBundleRedeemed(ctx context.Context, event kafka.BundleScanEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicBundleRedeemed, event.BundleID, event)
}

func (p *implProducer) PublishBundleReverted(ctx context.Context, event kafka.BundleScanEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicBundleReverted, event.BundleID, event)
}

func (p *implProducer) publish(ctx context.Context, topic, key string, event any) error {
	val, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.publish: %v", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key), // Partition by bundle/ticket for ordering
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("timestamp"),
				Value: []byte(time.Now().Format(time.RFC3339)),
			},
		},
	}

	_, _, err = p.prod.SendMessage(msg)
	return err
}

func (p *implProducer) Close() error {
	return p.prod.Close()
}

// ticketKey partitions single-ticket events by bundle when one exists,
// so a cascade and its parent land on the same partition.
func ticketKey(event kafka.TicketScanEvent) string {
	if event.BundleID != "" {
		return event.BundleID
	}
	return event.TicketID
}

// noopProducer swallows events when Kafka is disabled in config.
type noopProducer struct{}

func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) PublishTicketRedeemed(context.Context, kafka.TicketScanEvent) error    { return nil }
func (noopProducer) PublishTicketInvalidated(context.Context, kafka.TicketScanEvent) error { return nil }
func (noopProducer) PublishTicketReverted(context.Context, kafka.TicketScanEvent) error    { return nil }
func (noopProducer) PublishBundleRedeemed(context.Context, kafka.BundleScanEvent) error    { return nil }
func (noopProducer) PublishBundleReverted(context.Context, kafka.BundleScanEvent) error    { return nil }
func (noopProducer) Close() error                                                          { return nil }
