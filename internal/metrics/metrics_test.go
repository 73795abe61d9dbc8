package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWritePrometheusGroupsByName(t *testing.T) {
	registry := NewRegistry()
	registry.Register("bus", func() []Sample {
		return []Sample{
			{Name: "markdeck_bus_dropped_total", Help: "Dropped events", Labels: map[string]string{"bus": "a"}, Value: 1},
			{Name: "markdeck_bus_dropped_total", Help: "Dropped events", Labels: map[string]string{"bus": "b\"x"}, Value: 2},
		}
	})
	registry.Register("watcher", func() []Sample {
		return []Sample{{Name: "markdeck_watch_backends", Kind: KindGauge, Value: 1}}
	})

	var out bytes.Buffer
	require.NoError(t, registry.WritePrometheus(&out))
	text := out.String()

	require.Equal(t, 1, strings.Count(text, "# TYPE markdeck_bus_dropped_total counter"), text)
	require.Contains(t, text, `markdeck_bus_dropped_total{bus="a"} 1`)
	require.Contains(t, text, `markdeck_bus_dropped_total{bus="b\"x"} 2`)
	require.Contains(t, text, "# TYPE markdeck_watch_backends gauge\nmarkdeck_watch_backends 1\n")
}

func TestSourcesAreReadAtScrapeTime(t *testing.T) {
	registry := NewRegistry()
	var value int64
	registry.Register("counter", func() []Sample {
		return []Sample{{Name: "markdeck_test_total", Help: "Test", Value: value}}
	})

	value = 3
	var first bytes.Buffer
	require.NoError(t, registry.WritePrometheus(&first))
	require.Contains(t, first.String(), "markdeck_test_total 3")

	value = 5
	var second bytes.Buffer
	require.NoError(t, registry.WritePrometheus(&second))
	require.Contains(t, second.String(), "markdeck_test_total 5")
}

func TestInconsistentLabelsFailGather(t *testing.T) {
	registry := NewRegistry()
	registry.Register("bad", func() []Sample {
		return []Sample{
			{Name: "markdeck_bad_total", Help: "Bad", Labels: map[string]string{"a": "1"}, Value: 1},
			{Name: "markdeck_bad_total", Help: "Bad", Labels: map[string]string{"a": "1"}, Value: 2},
		}
	})

	require.Error(t, registry.WritePrometheus(&bytes.Buffer{}))
}

func TestHandlerServesText(t *testing.T) {
	registry := NewRegistry().WithRuntimeCollectors()
	registry.Register("watcher", func() []Sample {
		return []Sample{{Name: "markdeck_watch_sessions_started_total", Help: "Sessions", Value: 3}}
	})

	recorder := httptest.NewRecorder()
	registry.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, strings.HasPrefix(recorder.Header().Get("Content-Type"), "text/plain"))
	body := recorder.Body.String()
	require.Contains(t, body, "markdeck_watch_sessions_started_total 3")
	require.Contains(t, body, "go_goroutines")
}

func TestNilRegistry(t *testing.T) {
	var registry *Registry
	registry.Register("x", func() []Sample { return nil })
	require.Nil(t, registry.Samples())
	require.NoError(t, registry.WritePrometheus(&bytes.Buffer{}))
}
