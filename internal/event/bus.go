package event

import (
	"context"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"markdeck/internal/logging"

	"golang.org/x/time/rate"
)

const defaultSubscriberBufferSize = 64
const defaultDropWarningInterval = 30 * time.Second

type BusOptions struct {
	Name                 string
	SubscriberBufferSize int
	MaxSubscribers       int
	DropWarningInterval  time.Duration
	Logger               *logging.Logger
}

// Stats reports delivery counters for a bus.
type Stats struct {
	Published   int64
	Dropped     int64
	Subscribers int
}

// Bus fans events out to subscribers over bounded channels. Publish never
// blocks: an event is dropped for a subscriber whose buffer is full.
type Bus[T any] struct {
	mu          sync.Mutex
	subscribers map[uint64]subscription[T]
	nextSubID   uint64
	closed      bool
	closeOnce   sync.Once
	options     BusOptions
	published   atomic.Int64
	dropped     atomic.Int64
	dropWarning *rate.Sometimes
}

type subscription[T any] struct {
	ch     chan T
	filter func(T) bool
}

func NewBus[T any](ctx context.Context, opts BusOptions) *Bus[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.SubscriberBufferSize <= 0 {
		opts.SubscriberBufferSize = defaultSubscriberBufferSize
	}
	if opts.DropWarningInterval <= 0 {
		opts.DropWarningInterval = defaultDropWarningInterval
	}
	bus := &Bus[T]{
		subscribers: make(map[uint64]subscription[T]),
		options:     opts,
		dropWarning: &rate.Sometimes{Interval: opts.DropWarningInterval},
	}
	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			bus.Close()
		}()
	}
	return bus
}

func (b *Bus[T]) Subscribe() (<-chan T, func()) {
	return b.SubscribeFiltered(nil)
}

// SubscribeFiltered registers a subscriber that only receives events the
// filter accepts. The returned cancel func closes the channel.
func (b *Bus[T]) SubscribeFiltered(filter func(T) bool) (<-chan T, func()) {
	if b == nil {
		return closedChannel[T](), func() {}
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return closedChannel[T](), func() {}
	}
	if b.options.MaxSubscribers > 0 && len(b.subscribers) >= b.options.MaxSubscribers {
		b.mu.Unlock()
		return closedChannel[T](), func() {}
	}
	b.nextSubID++
	id := b.nextSubID
	ch := make(chan T, b.options.SubscriberBufferSize)
	b.subscribers[id] = subscription[T]{ch: ch, filter: filter}
	b.mu.Unlock()

	return ch, func() {
		b.removeSubscriber(id)
	}
}

func (b *Bus[T]) Publish(event T) {
	if b == nil || isNil(event) {
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.published.Add(1)
	// Sends happen under the lock so a concurrent cancel cannot close a
	// channel mid-send; every send is non-blocking.
	for id, sub := range b.subscribers {
		if !b.filterAllows(id, sub, event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
			b.maybeWarnDropRate(event)
		}
	}
	b.mu.Unlock()
}

func (b *Bus[T]) Close() {
	if b == nil {
		return
	}
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		subscribers := b.subscribers
		b.subscribers = make(map[uint64]subscription[T])
		b.mu.Unlock()

		for _, sub := range subscribers {
			close(sub.ch)
		}
	})
}

func (b *Bus[T]) SubscriberCount() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

func (b *Bus[T]) Stats() Stats {
	if b == nil {
		return Stats{}
	}
	return Stats{
		Published:   b.published.Load(),
		Dropped:     b.dropped.Load(),
		Subscribers: b.SubscriberCount(),
	}
}

func (b *Bus[T]) removeSubscriber(id uint64) {
	b.mu.Lock()
	sub, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
		close(sub.ch)
	}
	b.mu.Unlock()
}

// filterAllows runs with b.mu held; a panicking filter unsubscribes its owner.
func (b *Bus[T]) filterAllows(id uint64, sub subscription[T], event T) (allowed bool) {
	if sub.filter == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			if b.options.Logger != nil {
				b.options.Logger.Warn("event bus subscriber filter panicked", map[string]string{
					"bus": b.busName(),
				})
			}
			delete(b.subscribers, id)
			close(sub.ch)
			allowed = false
		}
	}()
	return sub.filter(event)
}

func (b *Bus[T]) busName() string {
	if b.options.Name == "" {
		return "event_bus"
	}
	return b.options.Name
}

func eventType[T any](event T) string {
	typed, ok := any(event).(Event)
	if !ok || typed.Type() == "" {
		return "unknown"
	}
	return typed.Type()
}

// maybeWarnDropRate logs at most once per DropWarningInterval; the first
// drop always logs.
func (b *Bus[T]) maybeWarnDropRate(event T) {
	if b.options.Logger == nil {
		return
	}
	b.dropWarning.Do(func() {
		b.options.Logger.Warn("event bus dropping events", map[string]string{
			"bus":       b.busName(),
			"type":      eventType(event),
			"dropped":   strconv.FormatInt(b.dropped.Load(), 10),
			"published": strconv.FormatInt(b.published.Load(), 10),
		})
	})
}

func closedChannel[T any]() chan T {
	ch := make(chan T)
	close(ch)
	return ch
}

func isNil[T any](value T) bool {
	kind := reflect.ValueOf(value)
	if !kind.IsValid() {
		return true
	}
	switch kind.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer, reflect.Interface, reflect.Slice:
		return kind.IsNil()
	default:
		return false
	}
}
