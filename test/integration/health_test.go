package integration

import (
	"net/http"
	"strings"
	"testing"

	"github.com/jmkoo/daedap/pkg/api"
	"github.com/jmkoo/daedap/pkg/provider"
)

func TestHealthz(t *testing.T) {
	base := startServer(t, []scriptedRound{
		{reply: &provider.Reply{Text: "unused"}},
	})

	resp, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, `"ok"`) {
		t.Errorf("body = %q", body)
	}
}

func TestMetricsExposed(t *testing.T) {
	base := startServer(t, []scriptedRound{
		{reply: &provider.Reply{Text: "counted"}},
	})

	// Drive one request so the counters move.
	resp := postAsk(t, base, api.AskRequest{Message: "hi"})
	readBody(t, resp)

	mresp, err := http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	if mresp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", mresp.StatusCode)
	}

	body := readBody(t, mresp)
	for _, metric := range []string{
		"daedap_requests_total",
		"daedap_model_requests_total",
		"daedap_turns_per_request",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %s", metric)
		}
	}
}
