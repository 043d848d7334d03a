package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/vogiaan1904/ticketbottle-scangate/pkg/logger"
)

type ProducerConfig struct {
	Brokers      []string
	RetryMax     int
	RequiredAcks int
}

// NewSyncProducer builds the sync producer the scan-audit publishers
// run on. Audit events are small JSON payloads emitted once per scan,
// so the producer favors delivery confirmation over throughput: sync
// sends with successes returned, snappy compression, and a short
// per-message timeout so a broker stall never holds a scan response.
func NewSyncProducer(ctx context.Context, cfg ProducerConfig, l logger.Logger) (sarama.SyncProducer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.RequiredAcks(cfg.RequiredAcks)
	saramaCfg.Producer.Retry.Max = cfg.RetryMax
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Compression = sarama.CompressionSnappy
	saramaCfg.Producer.Timeout = 5 * time.Second

	prod, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	l.Infof(ctx, "Kafka producer connected to brokers: %v", cfg.Brokers)

	return prod, nil
}
