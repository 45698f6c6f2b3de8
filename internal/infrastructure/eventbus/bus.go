package eventbus

import (
	"context"
	"log"
	"sync"

	"blaze/internal/application/dto"
	portsout "blaze/internal/application/ports/out"
)

const DefaultSubscriberBuffer = 64

// Bus fans balance events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan dto.BalanceEvent
	nextID      uint64
	closed      bool
	logger      *log.Logger
}

var _ portsout.BalanceEventPublisher = (*Bus)(nil)

func New(logger *log.Logger) *Bus {
	return &Bus{
		subscribers: map[uint64]chan dto.BalanceEvent{},
		logger:      logger,
	}
}

func (b *Bus) Publish(_ context.Context, event dto.BalanceEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logf("balance event dropped subscriber=%d type=%s contract=%s", id, event.Type, event.Contract)
		}
	}
}

// Subscribe returns a buffered event channel and a func that detaches and closes it.
func (b *Bus) Subscribe(buffer int) (<-chan dto.BalanceEvent, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan dto.BalanceEvent, buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if existing, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(existing)
			}
		})
	}
}

func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber channel. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}

func (b *Bus) logf(format string, args ...any) {
	if b.logger == nil {
		return
	}
	b.logger.Printf(format, args...)
}
