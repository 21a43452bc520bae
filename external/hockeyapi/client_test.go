package hockeyapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
	"github.com/riskibarqy/hockey-ingest/internal/platform/resilience"
	"github.com/riskibarqy/hockey-ingest/internal/usecase"
)

func newTestClient(baseURL string, retries int, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		BaseURL:        baseURL,
		Timeout:        2 * time.Second,
		Retry:          resilience.RetryPolicy{MaxRetries: retries, Backoff: time.Millisecond},
		TimeZoneOffset: -240,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestFetchRaw_BuildsScheduleQuery(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{})
	resp, err := client.FetchRaw(context.Background(), usecase.FetchRequest{
		Endpoint:    usecase.EndpointSchedules,
		SeasonID:    "10776",
		DivisionIDs: "123,456",
		Offset:      20,
		Limit:       10,
		Start:       time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("fetch schedules: %v", err)
	}
	if string(resp.Body) != "[]" {
		t.Fatalf("unexpected body: %s", resp.Body)
	}
	if gotPath != "/useSchedule/getSeasonSchedule/10776" {
		t.Fatalf("unexpected path: %s", gotPath)
	}

	want := map[string]string{
		"filter[divisions]":      "123,456",
		"filter[gametype]":       "overall",
		"filter[limit]":          "10",
		"filter[offset]":         "20",
		"filter[timeZoneOffset]": "-240",
		"filter[start]":          "2025-09-01",
	}
	for key, value := range want {
		if gotQuery[key] != value {
			t.Fatalf("unexpected %s: got=%q want=%q", key, gotQuery[key], value)
		}
	}
}

func TestFetchRaw_SeasonEndpointHasNoFilters(t *testing.T) {
	t.Parallel()

	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"id":10776}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{})
	if _, err := client.FetchRaw(context.Background(), usecase.FetchRequest{Endpoint: usecase.EndpointSeason, SeasonID: "10776"}); err != nil {
		t.Fatalf("fetch season: %v", err)
	}
	if rawQuery != "" {
		t.Fatalf("expected no query string, got=%s", rawQuery)
	}
}

func TestFetchRaw_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"id":123}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 1, resilience.CircuitBreakerConfig{})
	resp, err := client.FetchRaw(context.Background(), usecase.FetchRequest{Endpoint: usecase.EndpointDivisions, SeasonID: "10776"})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected 2 requests, got=%d", hits.Load())
	}
	if string(resp.Body) != `[{"id":123}]` {
		t.Fatalf("unexpected body: %s", resp.Body)
	}
}

func TestFetchRaw_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "season not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3, resilience.CircuitBreakerConfig{})
	_, err := client.FetchRaw(context.Background(), usecase.FetchRequest{Endpoint: usecase.EndpointDivisions, SeasonID: "1"})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got=%d", statusErr.StatusCode)
	}
	if errors.Is(err, ErrTransient) {
		t.Fatalf("404 must not be transient")
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single request, got=%d", hits.Load())
	}
}

func TestFetchRaw_CircuitBreakerRejectsAfterFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})
	req := usecase.FetchRequest{Endpoint: usecase.EndpointStandings, SeasonID: "10776", DivisionIDs: "123"}

	if _, err := client.FetchRaw(context.Background(), req); !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient failure, got %v", err)
	}
	_, err := client.FetchRaw(context.Background(), req)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen in chain, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected open breaker to skip the request, got=%d hits", hits.Load())
	}
}

func TestFetchRaw_UnknownEndpoint(t *testing.T) {
	t.Parallel()

	client := newTestClient("http://127.0.0.1:0", 0, resilience.CircuitBreakerConfig{})
	_, err := client.FetchRaw(context.Background(), usecase.FetchRequest{Endpoint: "players", SeasonID: "10776"})
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
