package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"blaze/internal/application/dto"

	kafkago "github.com/segmentio/kafka-go"
)

type ReaderConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Reader tails the balance topic, used by operators to watch relay activity.
type Reader struct {
	reader *kafkago.Reader
}

func NewReader(cfg ReaderConfig) *Reader {
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		topic = DefaultBalanceTopic
	}

	return &Reader{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        cfg.Brokers,
			Topic:          topic,
			GroupID:        cfg.GroupID,
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: time.Second,
			StartOffset:    kafkago.LastOffset,
		}),
	}
}

func (r *Reader) Next(ctx context.Context) (dto.BalanceEvent, error) {
	message, err := r.reader.ReadMessage(ctx)
	if err != nil {
		return dto.BalanceEvent{}, err
	}
	return decodeEvent(message)
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

func decodeEvent(message kafkago.Message) (dto.BalanceEvent, error) {
	var event dto.BalanceEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return dto.BalanceEvent{}, fmt.Errorf("decode balance event at offset %d: %w", message.Offset, err)
	}
	return event, nil
}
