package client

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tatianab/impact-games/internal/api"
	"github.com/tatianab/impact-games/internal/catalog"
	"github.com/tatianab/impact-games/internal/models"
	"github.com/tatianab/impact-games/internal/simulate"
)

var quiet = WithLogger(log.New(io.Discard, "", 0))

func newService(t *testing.T) *httptest.Server {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	srv := httptest.NewServer(api.NewServer(cat, log.New(io.Discard, "", 0)).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestClientAgainstService(t *testing.T) {
	ctx := context.Background()
	srv := newService(t)
	c := New(srv.URL, time.Second, 0, quiet)

	health, err := c.Health(ctx)
	if err != nil || health.Status != "ok" {
		t.Fatalf("Health: %+v %v", health, err)
	}

	scenarios, err := c.Scenarios(ctx)
	if err != nil || len(scenarios) == 0 {
		t.Fatalf("Scenarios: %d %v", len(scenarios), err)
	}
	e, err := c.Scenario(ctx, scenarios[0].ID)
	if err != nil || e.ID != scenarios[0].ID {
		t.Fatalf("Scenario: %+v %v", e.ID, err)
	}

	state := simulate.State{ScenarioID: e.ID, Indicators: e.InitialIndicators}
	decisions := []simulate.Decision{
		{QuestionID: "q1", OptionID: "a", Effects: models.Effects{"publicTrust": 10}},
		{QuestionID: "q2", OptionID: "b", Effects: models.Effects{"publicTrust": -4}, LogMessage: "Second"},
	}
	got, err := c.FoldRound(ctx, state, decisions)
	if err != nil {
		t.Fatalf("FoldRound: %v", err)
	}
	if got.Indicators["publicTrust"] != e.InitialIndicators["publicTrust"]+6 {
		t.Errorf("Expected publicTrust +6, got %v", got.Indicators["publicTrust"])
	}
	if len(got.Decisions) != 2 || len(got.Log) != 2 || got.Log[1] != "Second" {
		t.Errorf("Unexpected folded state %+v", got)
	}

	summary, err := c.Summary(ctx, got)
	if err != nil || summary.Scenario.Name != e.Title {
		t.Fatalf("Summary: %+v %v", summary.Scenario, err)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	srv := newService(t)
	var calls atomic.Int32
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Redirect(w, r, srv.URL+r.URL.Path, http.StatusTemporaryRedirect)
	}))
	defer counting.Close()

	c := New(counting.URL, time.Second, 3, quiet, WithBackoff(time.Millisecond))
	_, err := c.Scenario(context.Background(), "atlantis")
	var apiErr api.APIError
	if !errors.As(err, &apiErr) || apiErr.Type != api.ErrTypeScenarioNotFound {
		t.Fatalf("Expected scenario_not_found, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected a single attempt, got %d", calls.Load())
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 2, quiet, WithBackoff(time.Millisecond))
	health, err := c.Health(context.Background())
	if err != nil || health.Status != "ok" {
		t.Fatalf("Expected success on the third attempt, got %+v %v", health, err)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}

	calls.Store(-10)
	if _, err := c.Health(context.Background()); err == nil {
		t.Error("Expected failure once retries are exhausted")
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, 20*time.Millisecond, 0, quiet)
	start := time.Now()
	if _, err := c.Health(context.Background()); err == nil {
		t.Fatal("Expected a timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("Timeout took too long: %v", time.Since(start))
	}
}
