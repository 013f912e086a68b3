package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.RelayDropped.WithLabelValues(DropNoPeer).Inc()
	m.Relayed.WithLabelValues("offer").Add(2)
	m.ActiveRooms.Set(3)

	if got := testutil.ToFloat64(m.RelayDropped.WithLabelValues(DropNoPeer)); got != 1 {
		t.Fatalf("relay_dropped{no_peer}=%v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`voicelink_relay_dropped_total{reason="no_peer"} 1`,
		`voicelink_relayed_total{kind="offer"} 2`,
		`voicelink_active_rooms 3`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.RoomsCreated.Inc()

	if got := testutil.ToFloat64(b.RoomsCreated); got != 0 {
		t.Fatalf("registries share state: %v", got)
	}
}
