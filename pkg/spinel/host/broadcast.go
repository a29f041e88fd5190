package host

import (
	"sync"

	"github.com/twine-rs/spinel-go/pkg/spinel"
)

// busCapacity is the default bounded capacity of each broadcast bus's
// per-subscriber channel, per the protocol's "default capacity 16".
const busCapacity = 16

// bus is a hand-rolled multi-producer/multi-subscriber fan-out
// channel: Go has no equivalent of tokio::sync::broadcast, so this
// keeps a mutex-guarded set of bounded subscriber channels and
// publishes non-blocking, counting drops instead of back-pressuring
// the publisher.
type bus struct {
	mu     sync.Mutex
	subs   map[int]chan spinel.Frame
	nextID int
	onDrop func()
}

func newBus(onDrop func()) *bus {
	return &bus{subs: make(map[int]chan spinel.Frame), onDrop: onDrop}
}

// subscribe returns a receive-only channel of future published frames
// and a cancellation function to unsubscribe.
func (b *bus) subscribe() (<-chan spinel.Frame, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan spinel.Frame, busCapacity)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// publish fans f out to every subscriber without blocking; a
// subscriber too far behind to accept immediately is counted as
// lagged and the frame is dropped for it only.
func (b *bus) publish(f spinel.Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- f:
		default:
			if b.onDrop != nil {
				b.onDrop()
			}
		}
	}
}
