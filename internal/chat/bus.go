package chat

import (
	"sync"
	"sync/atomic"
)

const defaultBusCapacity = 40

// Bus is a multi-producer, multi-consumer broadcast channel. Every
// subscriber gets its own bounded queue; Publish never blocks; a full queue
// drops its oldest message and records the lag on that subscriber.
type Bus struct {
	capacity int

	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = defaultBusCapacity
	}
	return &Bus{
		capacity: capacity,
		subs:     make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a fresh receiver. It only sees messages published
// after it was created.
func (b *Bus) Subscribe() *Subscription {
	s := &Subscription{
		bus: b,
		ch:  make(chan string, b.capacity),
	}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Publish delivers msg to every live subscriber and reports how many it
// reached.
func (b *Bus) Publish(msg string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		s.push(msg)
	}
	return len(b.subs)
}

// ReceiverCount is the number of live subscriptions.
func (b *Bus) ReceiverCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
}

// Subscription is one receiver on a Bus plus a handle for publishing to the
// same bus.
type Subscription struct {
	bus *Bus
	ch  chan string

	// pushMu serialises producers on this queue so drop-oldest and enqueue
	// happen as one step.
	pushMu sync.Mutex
	lagged atomic.Uint64
	closed atomic.Bool
	once   sync.Once
}

// C is the receive side. It is never closed; stop selecting on it after
// Close.
func (s *Subscription) C() <-chan string {
	return s.ch
}

// Publish sends msg to the bus this subscription belongs to.
func (s *Subscription) Publish(msg string) int {
	return s.bus.Publish(msg)
}

// Lagged returns the number of messages skipped since the previous call and
// resets the counter.
func (s *Subscription) Lagged() uint64 {
	return s.lagged.Swap(0)
}

// Close detaches the receiver from its bus. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.closed.Store(true)
		s.bus.remove(s)
	})
}

func (s *Subscription) push(msg string) {
	if s.closed.Load() {
		return
	}
	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	for {
		select {
		case s.ch <- msg:
			return
		default:
		}
		// Queue full: skip the oldest message for this receiver only.
		select {
		case <-s.ch:
			s.lagged.Add(1)
		default:
		}
	}
}
