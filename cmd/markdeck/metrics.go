package main

import (
	"markdeck/internal/event"
	"markdeck/internal/logging"
	"markdeck/internal/metrics"
	"markdeck/internal/watcher"
)

func watcherSamples(watches *watcher.Manager) metrics.Source {
	return func() []metrics.Sample {
		snapshot := watches.Metrics()
		return []metrics.Sample{
			{Name: "markdeck_watch_sessions_started_total", Help: "Watch sessions started", Value: int64(snapshot.SessionsStarted)},
			{Name: "markdeck_watch_events_delivered_total", Help: "Change notifications published", Value: int64(snapshot.EventsDelivered)},
			{Name: "markdeck_watch_events_ignored_total", Help: "Backend events that were not writes", Value: int64(snapshot.EventsIgnored)},
			{Name: "markdeck_watch_errors_total", Help: "Backend errors", Value: int64(snapshot.Errors)},
			{Name: "markdeck_watch_backends", Help: "Live watch backends", Kind: metrics.KindGauge, Value: snapshot.LiveBackends},
		}
	}
}

func busSamples(name string, stats func() event.Stats) metrics.Source {
	return func() []metrics.Sample {
		snapshot := stats()
		labels := map[string]string{"bus": name}
		return []metrics.Sample{
			{Name: "markdeck_bus_published_total", Help: "Events published", Labels: labels, Value: snapshot.Published},
			{Name: "markdeck_bus_dropped_total", Help: "Events dropped for slow subscribers", Labels: labels, Value: snapshot.Dropped},
			{Name: "markdeck_bus_subscribers", Help: "Current subscribers", Kind: metrics.KindGauge, Labels: labels, Value: int64(snapshot.Subscribers)},
		}
	}
}

func logSamples(buffer *logging.LogBuffer) metrics.Source {
	return func() []metrics.Sample {
		return []metrics.Sample{
			{Name: "markdeck_log_entries_buffered", Help: "Log entries held in memory", Kind: metrics.KindGauge, Value: int64(buffer.Len())},
			{Name: "markdeck_log_entries_evicted_total", Help: "Log entries evicted from the memory ring", Value: int64(buffer.Evicted())},
		}
	}
}
