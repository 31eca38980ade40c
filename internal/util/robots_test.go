package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func robotsServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRobotsChecker_Disallow(t *testing.T) {
	server := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /private\nCrawl-delay: 2\n", nil)
	checker := NewRobotsChecker("Mozilla/5.0 (X11)", nil)

	allowed, delay, err := checker.CanFetch(context.Background(), server.URL+"/private/page")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allowed {
		t.Error("Expected /private to be disallowed")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected crawl delay 2s, got %v", delay)
	}

	allowed, _, err = checker.CanFetch(context.Background(), server.URL+"/ethicalcampaigns/boycotts")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !allowed {
		t.Error("Expected public path to be allowed")
	}
}

func TestRobotsChecker_AgentSpecificGroup(t *testing.T) {
	server := robotsServer(t, http.StatusOK, "User-agent: Mozilla\nDisallow: /\n\nUser-agent: *\nAllow: /\n", nil)

	blocked := NewRobotsChecker("Mozilla/5.0 (Windows NT 10.0)", nil)
	if blocked.IsAllowed(context.Background(), server.URL+"/page") {
		t.Error("Expected Mozilla agent to be disallowed")
	}

	other := NewRobotsChecker("boycotts/1.0", nil)
	if !other.IsAllowed(context.Background(), server.URL+"/page") {
		t.Error("Expected other agents to be allowed")
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := robotsServer(t, http.StatusNotFound, "", nil)
	checker := NewRobotsChecker("test-agent", nil)

	if !checker.IsAllowed(context.Background(), server.URL+"/anything") {
		t.Error("Expected missing robots.txt to allow everything")
	}
}

func TestRobotsChecker_CachesPerHost(t *testing.T) {
	var hits atomic.Int32
	server := robotsServer(t, http.StatusOK, "User-agent: *\nAllow: /\n", &hits)
	checker := NewRobotsChecker("test-agent", nil)

	for i := 0; i < 3; i++ {
		checker.IsAllowed(context.Background(), server.URL+"/page")
	}
	if hits.Load() != 1 {
		t.Errorf("Expected 1 robots.txt fetch, got %d", hits.Load())
	}
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	checker := NewRobotsChecker("test-agent", &http.Client{Timeout: time.Second})

	allowed, delay, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/page")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !allowed || delay != 0 {
		t.Errorf("Expected allow with no delay, got allowed=%v delay=%v", allowed, delay)
	}
}

func TestRobotsURL(t *testing.T) {
	got, err := RobotsURL("https://www.ethicalconsumer.org/ethicalcampaigns/boycotts?x=1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "https://www.ethicalconsumer.org/robots.txt" {
		t.Errorf("RobotsURL() = %s", got)
	}

	if _, err := RobotsURL("/relative/path"); err == nil {
		t.Error("Expected error for relative URL")
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", "Mozilla"},
		{"boycotts/1.0", "boycotts"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.ua); got != tt.want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}
