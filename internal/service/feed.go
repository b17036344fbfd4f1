package service

import (
	"sync"

	"waitlist_ledger/internal/metrics"
	"waitlist_ledger/internal/model"
)

const DefaultFeedBuffer = 16

// Feed fans ledger events out to live subscribers. A subscriber that falls
// behind loses events rather than slowing down Join.
type Feed struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan model.LedgerEvent
	nextID      uint64
	buffer      int
}

func NewFeed(buffer int) *Feed {
	if buffer <= 0 {
		buffer = DefaultFeedBuffer
	}
	return &Feed{
		subscribers: make(map[uint64]chan model.LedgerEvent),
		buffer:      buffer,
	}
}

func (f *Feed) Publish(event model.LedgerEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, ch := range f.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns the event channel and a cancel func that closes it.
func (f *Feed) Subscribe() (<-chan model.LedgerEvent, func()) {
	ch := make(chan model.LedgerEvent, f.buffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subscribers[id] = ch
	metrics.SetFeedSubscribers(len(f.subscribers))
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, id)
			metrics.SetFeedSubscribers(len(f.subscribers))
			f.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}
