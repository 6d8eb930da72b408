package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Topic groups change events by the kind of view that must refresh
type Topic string

const (
	TopicAdmissions     Topic = "admissions"
	TopicAppointments   Topic = "appointments"
	TopicMedicalRecords Topic = "medical_records"
	TopicBilling        Topic = "billing"
)

// Event announces that committed data changed
type Event struct {
	ID         string    `json:"id"`
	Topic      Topic     `json:"topic"`
	Action     string    `json:"action"`
	EntityID   uint      `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Handler func(Event)

// Bus delivers events synchronously to subscribers in subscription order.
type Bus struct {
	mu       sync.RWMutex
	byTopic  map[Topic][]Handler
	wildcard []Handler
	logger   *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		byTopic: make(map[Topic][]Handler),
		logger:  logger,
	}
}

// Subscribe registers h for one topic
func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byTopic[topic] = append(b.byTopic[topic], h)
}

// SubscribeAll registers h for every topic
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wildcard = append(b.wildcard, h)
}

// Publish stamps the event and hands it to every matching subscriber.
// A panicking subscriber is logged and does not stop the others.
func (b *Bus) Publish(topic Topic, action string, entityID uint) Event {
	e := Event{
		ID:         uuid.NewString(),
		Topic:      topic,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
	if b == nil {
		return e
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.byTopic[topic])+len(b.wildcard))
	handlers = append(handlers, b.byTopic[topic]...)
	handlers = append(handlers, b.wildcard...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, e)
	}
	return e
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event subscriber panicked",
				zap.String("topic", string(e.Topic)),
				zap.String("action", e.Action),
				zap.Any("panic", r),
			)
		}
	}()
	h(e)
}
