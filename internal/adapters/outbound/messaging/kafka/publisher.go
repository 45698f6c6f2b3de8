package kafka

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"blaze/internal/application/dto"
	portsout "blaze/internal/application/ports/out"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	DefaultBalanceTopic  = "blaze-balance-updates"
	defaultBatchTimeout  = 20 * time.Millisecond
	defaultWriteTimeout  = 2 * time.Second
	defaultPublishBuffer = 256
)

type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, messages ...kafkago.Message) error
	Close() error
}

// Publisher forwards balance events to a Kafka topic keyed by subnet contract, so
// every event for one contract lands on the same partition in publish order.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *log.Logger
}

var _ portsout.BalanceEventPublisher = (*Publisher)(nil)

func NewPublisher(cfg Config, logger *log.Logger) *Publisher {
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		topic = DefaultBalanceTopic
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		Async:        true,
		BatchTimeout: batchTimeout,
		WriteTimeout: defaultWriteTimeout,
		Completion: func(messages []kafkago.Message, err error) {
			if err != nil && logger != nil {
				logger.Printf("balance event kafka write failed topic=%s messages=%d error=%v", topic, len(messages), err)
			}
		},
	}

	return newPublisher(writer, topic, logger)
}

func newPublisher(writer messageWriter, topic string, logger *log.Logger) *Publisher {
	return &Publisher{writer: writer, topic: topic, logger: logger}
}

// Publish enqueues the event on the async writer and returns immediately.
func (p *Publisher) Publish(ctx context.Context, event dto.BalanceEvent) {
	message, err := encodeEvent(event)
	if err != nil {
		p.logf("balance event encode failed type=%s contract=%s error=%v", event.Type, event.Contract, err)
		return
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		p.logf("balance event kafka publish failed topic=%s type=%s contract=%s error=%v", p.topic, event.Type, event.Contract, err)
	}
}

// Forward publishes every event from a bus subscription until it closes or ctx ends.
func (p *Publisher) Forward(ctx context.Context, events <-chan dto.BalanceEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			p.Publish(ctx, event)
		}
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func encodeEvent(event dto.BalanceEvent) (kafkago.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, err
	}

	return kafkago.Message{
		Key:   []byte(event.Contract),
		Value: value,
		Time:  event.At,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}, nil
}

func (p *Publisher) logf(format string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Printf(format, args...)
}
