// Package publish delivers compare reports to Kafka.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	kafka "github.com/segmentio/kafka-go"

	"github.com/alexanderjulianmartinez/datasnap/internal/config"
	"github.com/alexanderjulianmartinez/datasnap/pkg/types"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes one JSON message per report, keyed by the report's source.
type Publisher struct {
	w       messageWriter
	topic   string
	timeout time.Duration
	logger  hclog.Logger
}

func NewKafka(cfg config.KafkaConfig, logger hclog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newPublisher(w, cfg.Topic, logger)
}

func newPublisher(w messageWriter, topic string, logger hclog.Logger) *Publisher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Publisher{w: w, topic: topic, timeout: 10 * time.Second, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, rep types.CompareReport) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(rep.Source),
		Value: body,
		Headers: []kafka.Header{
			{Key: "status", Value: []byte(rep.Status)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	p.logger.Info("report published", "topic", p.topic, "source", rep.Source, "status", rep.Status)
	return nil
}

func (p *Publisher) Close() error { return p.w.Close() }
