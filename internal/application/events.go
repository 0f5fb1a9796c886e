package application

import (
	"sync"

	"github.com/bnema/frontdesk/internal/domain"
	"github.com/elliotchance/orderedmap/v2"
)

type Subscriber interface {
	HandleEvent(event domain.Event)
}

type SubscriberFunc func(event domain.Event)

func (f SubscriberFunc) HandleEvent(event domain.Event) {
	f(event)
}

// Bus delivers events synchronously to subscribers in registration order.
// Delivery happens without the bus lock held, so a subscriber may subscribe
// or unsubscribe from its handler. Membership is checked before every call:
// once the unsubscribe func returns, the subscriber receives nothing more,
// not even the rest of the batch being delivered.
type Bus struct {
	mu          sync.Mutex
	nextID      uint64
	subscribers *orderedmap.OrderedMap[uint64, Subscriber]
}

func NewBus() *Bus {
	return &Bus{subscribers: orderedmap.NewOrderedMap[uint64, Subscriber]()}
}

// Subscribe registers s and returns the function that removes it.
func (b *Bus) Subscribe(s Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscribers.Set(id, s)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subscribers.Delete(id)
	}
}

func (b *Bus) Publish(events ...domain.Event) {
	for _, event := range events {
		for _, id := range b.ids() {
			s, ok := b.lookup(id)
			if !ok {
				continue
			}
			s.HandleEvent(event)
		}
	}
}

func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.subscribers.Len()
}

func (b *Bus) ids() []uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.subscribers.Keys()
}

func (b *Bus) lookup(id uint64) (Subscriber, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.subscribers.Get(id)
}
