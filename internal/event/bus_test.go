package event

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"markdeck/internal/logging"

	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T, within time.Duration) (T, bool) {
	t.Helper()
	select {
	case value, ok := <-ch:
		return value, ok
	case <-time.After(within):
		require.FailNow(t, "timed out waiting on subscriber channel")
		var zero T
		return zero, false
	}
}

func TestBusSubscribePublish(t *testing.T) {
	bus := NewBus[int](context.Background(), BusOptions{})
	t.Cleanup(bus.Close)

	ch, cancel := bus.Subscribe()
	defer cancel()

	bus.Publish(42)
	got, ok := receive(t, ch, 100*time.Millisecond)
	require.True(t, ok)
	require.Equal(t, 42, got)

	cancel()
	_, ok = receive(t, ch, 100*time.Millisecond)
	require.False(t, ok, "channel should close after cancel")
}

func TestBusCloseClosesSubscribers(t *testing.T) {
	bus := NewBus[int](context.Background(), BusOptions{})
	ch, _ := bus.Subscribe()

	bus.Close()
	_, ok := receive(t, ch, 100*time.Millisecond)
	require.False(t, ok, "channel should close after bus close")

	late, _ := bus.Subscribe()
	_, ok = receive(t, late, 100*time.Millisecond)
	require.False(t, ok, "subscribe after close should return a closed channel")
}

func TestBusContextCancelCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := NewBus[int](ctx, BusOptions{})
	ch, _ := bus.Subscribe()

	cancel()
	_, ok := receive(t, ch, time.Second)
	require.False(t, ok)
}

func TestBusDropOnFull(t *testing.T) {
	buffer := logging.NewLogBuffer(10)
	bus := NewBus[string](context.Background(), BusOptions{
		Name:                 "drop",
		SubscriberBufferSize: 1,
		Logger:               logging.NewLoggerWithOutput(buffer, logging.LevelInfo, io.Discard),
	})
	t.Cleanup(bus.Close)

	ch, _ := bus.Subscribe()
	bus.Publish("first")

	done := make(chan struct{})
	go func() {
		bus.Publish("second")
		close(done)
	}()
	_, _ = receive[struct{}](t, done, 100*time.Millisecond)

	got, ok := receive(t, ch, 100*time.Millisecond)
	require.True(t, ok)
	require.Equal(t, "first", got)
	select {
	case extra := <-ch:
		require.FailNowf(t, "unexpected event", "%q", extra)
	case <-time.After(50 * time.Millisecond):
	}

	stats := bus.Stats()
	require.Equal(t, int64(2), stats.Published)
	require.Equal(t, int64(1), stats.Dropped)
	require.Equal(t, 1, stats.Subscribers)

	entries := buffer.List()
	require.Len(t, entries, 1)
	require.Equal(t, "drop", entries[0].Context["bus"])
	require.Equal(t, "1", entries[0].Context["dropped"])
}

func TestBusDropWarningIsRateLimited(t *testing.T) {
	buffer := logging.NewLogBuffer(10)
	bus := NewBus[int](context.Background(), BusOptions{
		SubscriberBufferSize: 1,
		DropWarningInterval:  time.Hour,
		Logger:               logging.NewLoggerWithOutput(buffer, logging.LevelInfo, io.Discard),
	})
	t.Cleanup(bus.Close)

	_, cancel := bus.Subscribe()
	defer cancel()
	for i := 0; i < 5; i++ {
		bus.Publish(i)
	}

	require.Equal(t, int64(4), bus.Stats().Dropped)
	require.Len(t, buffer.List(), 1, "only the first drop inside the interval is logged")
	require.Equal(t, "event_bus", buffer.List()[0].Context["bus"])
}

func TestBusFilteredSubscriber(t *testing.T) {
	bus := NewBus[int](context.Background(), BusOptions{})
	t.Cleanup(bus.Close)

	evens, cancel := bus.SubscribeFiltered(func(value int) bool {
		return value%2 == 0
	})
	defer cancel()

	for i := 1; i <= 4; i++ {
		bus.Publish(i)
	}
	for _, expected := range []int{2, 4} {
		got, ok := receive(t, evens, 100*time.Millisecond)
		require.True(t, ok)
		require.Equal(t, expected, got)
	}
}

func TestBusPanickingFilterIsRemoved(t *testing.T) {
	bus := NewBus[int](context.Background(), BusOptions{})
	t.Cleanup(bus.Close)

	ch, _ := bus.SubscribeFiltered(func(int) bool {
		panic("boom")
	})
	bus.Publish(1)

	_, ok := receive(t, ch, 100*time.Millisecond)
	require.False(t, ok, "panicking subscriber should be closed")
	require.Zero(t, bus.SubscriberCount())
}

func TestBusMaxSubscribers(t *testing.T) {
	bus := NewBus[int](context.Background(), BusOptions{MaxSubscribers: 1})
	t.Cleanup(bus.Close)

	_, cancel := bus.Subscribe()
	defer cancel()
	extra, _ := bus.Subscribe()
	_, ok := receive(t, extra, 100*time.Millisecond)
	require.False(t, ok, "subscriber over the limit should be closed")
}

func TestBusNilIsInert(t *testing.T) {
	var bus *Bus[int]
	bus.Publish(1)
	bus.Close()
	ch, cancel := bus.Subscribe()
	cancel()
	_, ok := receive(t, ch, 100*time.Millisecond)
	require.False(t, ok)
	require.Equal(t, Stats{}, bus.Stats())
}

func TestBusConcurrentPublishAndCancel(t *testing.T) {
	bus := NewBus[int](context.Background(), BusOptions{SubscriberBufferSize: 4})
	t.Cleanup(bus.Close)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		ch, cancel := bus.Subscribe()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(j)
			}
		}()
		go func() {
			defer wg.Done()
			cancel()
			for range ch {
			}
		}()
	}
	wg.Wait()
}
