package exa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/exa-go/internal/domain"
)

func TestSearchReturnsRawBody(t *testing.T) {
	const body = `{"results":[{"url":"https://example.com","title":"Example"}]}`
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotPath = r.URL.Path
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	payload, err := c.Search(context.Background(), "secret-key", domain.SearchRequest{Query: "example", NumResults: 5})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if string(payload) != body {
		t.Fatalf("payload = %q, want raw body", payload)
	}
	if gotKey != "secret-key" {
		t.Fatalf("x-api-key = %q", gotKey)
	}
	if gotPath != "/search" {
		t.Fatalf("path = %q, want /search", gotPath)
	}
}

func TestRateLimitWithRetryAfterHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.Search(context.Background(), "k", domain.SearchRequest{Query: "q"})

	var rl *domain.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("error = %v, want RateLimitError", err)
	}
	if rl.RetryAfter == nil || *rl.RetryAfter != 2*time.Minute {
		t.Fatalf("RetryAfter = %v, want 2m", rl.RetryAfter)
	}
}

func TestRateLimitWithoutHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.FindSimilar(context.Background(), "k", domain.FindSimilarRequest{URL: "https://example.com"})

	var rl *domain.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("error = %v, want RateLimitError", err)
	}
	if rl.RetryAfter != nil {
		t.Fatalf("RetryAfter = %v, want nil", rl.RetryAfter)
	}
}

func TestServerErrorIsNotRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.Search(context.Background(), "k", domain.SearchRequest{Query: "q"})
	if err == nil {
		t.Fatal("expected an error")
	}
	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		t.Fatal("500 must not classify as rate limit")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("error %q should carry the status", err)
	}
}

func TestProbeReturnsStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	status, err := c.Probe(context.Background(), "bad-key")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}

func TestResearchStatusUsesTaskPath(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"status":"running"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	if _, err := c.ResearchStatus(context.Background(), "k", "task-42"); err != nil {
		t.Fatalf("ResearchStatus() error = %v", err)
	}
	if gotPath != "/research/task-42" || gotMethod != http.MethodGet {
		t.Fatalf("request = %s %s, want GET /research/task-42", gotMethod, gotPath)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter("60"); d == nil || *d != time.Minute {
		t.Fatalf("parseRetryAfter(60) = %v", d)
	}
	for _, bad := range []string{"", "soon", "-5", "0"} {
		if d := parseRetryAfter(bad); d != nil {
			t.Fatalf("parseRetryAfter(%q) = %v, want nil", bad, d)
		}
	}
}
