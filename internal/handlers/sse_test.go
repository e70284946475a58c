package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func createTestSSEHandlers(c *stubCompleter) *SSEHandlers {
	return NewSSEHandlers(createTestAnalytics(), createTestGenerator(c), nil, testLogger())
}

func TestNewSSEHandlers(t *testing.T) {
	handlers := createTestSSEHandlers(&stubCompleter{})

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.generator == nil {
		t.Error("NewSSEHandlers() should set generator field")
	}
}

func signalsQuery(signals string) string {
	return "?datastar=" + url.QueryEscape(signals)
}

func TestSSEHandlers_HandleDashboard(t *testing.T) {
	handlers := createTestSSEHandlers(&stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		`id="dashboard-content"`,
		`id="section-monthly-sales"`,
		`id="section-top-brands"`,
		`id="section-bottom-brands"`,
		`id="section-inventory-turnover"`,
		`id="section-sell-through"`,
		`id="section-stock-outs"`,
		`id="section-sales-contribution"`,
		`id="filter-panel"`,
		`"trendData"`,
		`"sellThroughData"`,
		`"marketingGroup":"Women"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("response should contain %s", want)
		}
	}
}

func TestSSEHandlers_HandleDashboard_Signals(t *testing.T) {
	handlers := createTestSSEHandlers(&stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard"+signalsQuery(`{"marketingGroup":"Men","classifiedCategory":"Western","months":null,"categories":null}`), nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "Levis") {
		t.Error("Men/Western view should include Levis")
	}
	if strings.Contains(body, "Aurelia") {
		t.Error("Men/Western view should not include Aurelia")
	}
	if !strings.Contains(body, `"months":["January"]`) {
		t.Error("resolved months should be pushed back to the client")
	}
}

func TestSSEHandlers_HandleDashboard_EmptySelection(t *testing.T) {
	handlers := createTestSSEHandlers(&stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard"+signalsQuery(`{"marketingGroup":"Women","classifiedCategory":"Ethnic","months":[],"categories":[]}`), nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "No data available for the selected filters.") {
		t.Error("empty selection should render the no-data message")
	}
	if !strings.Contains(body, "No stock-out alerts for the selected filters.") {
		t.Error("empty selection should render the stock-out message")
	}
	if !strings.Contains(body, `"trendData":null`) {
		t.Error("chart data should be cleared for an empty view")
	}
}

func TestSSEHandlers_HandleFilters(t *testing.T) {
	handlers := createTestSSEHandlers(&stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/sse/filters"+signalsQuery(`{"marketingGroup":"Women","classifiedCategory":"Ethnic","months":["February"],"categories":null}`), nil)
	w := httptest.NewRecorder()

	handlers.HandleFilters(w, req)

	body := w.Body.String()
	if !strings.Contains(body, `id="filter-panel"`) {
		t.Error("response should patch the filter panel")
	}
	if !strings.Contains(body, `"categories":["Dupatta"]`) {
		t.Errorf("categories should cascade from February, got %s", body)
	}
	if strings.Contains(body, "dashboard-content") {
		t.Error("filter refresh should not render the report")
	}
}

func TestSSEHandlers_HandleInsights(t *testing.T) {
	completer := &stubCompleter{}
	handlers := createTestSSEHandlers(completer)

	req := httptest.NewRequest(http.MethodGet, "/sse/insights", nil)
	w := httptest.NewRecorder()

	handlers.HandleInsights(w, req)

	body := w.Body.String()
	for _, want := range []string{`id="insights-content"`, `id="insight-0"`, `id="insight-1"`, "Focus on Aurelia kurtas."} {
		if !strings.Contains(body, want) {
			t.Errorf("response should contain %s", want)
		}
	}
	if got := completer.calls.Load(); got != 2 {
		t.Errorf("expected 2 completions, got %d", got)
	}
}

func TestSSEHandlers_HandleInsights_Failure(t *testing.T) {
	handlers := createTestSSEHandlers(&stubCompleter{fail: true})

	req := httptest.NewRequest(http.MethodGet, "/sse/insights", nil)
	w := httptest.NewRecorder()

	handlers.HandleInsights(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "An error occurred while generating the analysis") {
		t.Error("failed questions should render an error message")
	}
	if !strings.Contains(body, "upstream unavailable") {
		t.Error("error text should be shown")
	}
}

func TestSSEHandlers_InvalidSignals(t *testing.T) {
	handlers := createTestSSEHandlers(&stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard?datastar=%7Bbroken", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSSEHandlers_HeaderConsistency(t *testing.T) {
	handlers := createTestSSEHandlers(&stubCompleter{})

	sseEndpoints := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"filters", handlers.HandleFilters},
		{"dashboard", handlers.HandleDashboard},
		{"insights", handlers.HandleInsights},
	}

	for _, endpoint := range sseEndpoints {
		t.Run(endpoint.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			endpoint.handler(w, req)

			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
				t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
			}

			if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
				t.Errorf("expected cache-control 'no-cache', got %q", cc)
			}

			body := w.Body.String()
			if !strings.Contains(body, "event:") || !strings.Contains(body, "data:") {
				t.Error("response should contain SSE event format")
			}
		})
	}
}
