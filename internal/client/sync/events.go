package sync

import "sync"

// Status is a single transition published to subscribers. A pass publishes
// {Syncing: true} when it starts and {Syncing: false, Succeeded: ...} when
// it finishes.
type Status struct {
	Syncing   bool
	Succeeded bool
}

// Broadcaster fans status transitions out to every subscriber. Publishing
// never blocks: a subscriber that is not draining its channel misses
// intermediate transitions.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Status]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan Status]struct{}),
	}
}

// Subscribe registers an observer. The returned cancel func must be called
// to release the subscription.
func (b *Broadcaster) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 8)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *Broadcaster) Publish(status Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- status:
		default:
		}
	}
}
