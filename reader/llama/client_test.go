package llama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"llamaflow/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:        baseURL,
			StablecoinsURL: baseURL,
			YieldsURL:      baseURL,
		},
		Fetcher: config.FetcherConfig{
			Timeout:   5 * time.Second,
			UserAgent: "llamaflow-test/1.0",
		},
	}
}

func TestFetchSuccess(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"a":1}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	payload, err := client.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(payload) != `{"a":1}` {
		t.Errorf("unexpected payload: %s", payload)
	}
	if gotAgent != "llamaflow-test/1.0" {
		t.Errorf("unexpected user agent: %s", gotAgent)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	payload, err := client.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("status errors must not propagate: %v", err)
	}
	if payload != nil {
		t.Errorf("expected nil payload, got %s", payload)
	}
}

func TestFetchTransportError(t *testing.T) {
	client := NewClient(testConfig("http://127.0.0.1:0"))
	payload, err := client.Fetch(context.Background(), "http://127.0.0.1:0/protocols")
	if err != nil {
		t.Fatalf("transport errors must not propagate: %v", err)
	}
	if payload != nil {
		t.Errorf("expected nil payload, got %s", payload)
	}
}

func TestFetchInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if _, err := client.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for invalid JSON body")
	}
}

func TestEndpointPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	ctx := context.Background()

	client.Protocols(ctx)
	client.DexOverview(ctx)
	client.FeesOverview(ctx)
	client.Protocol(ctx, "uniswap")
	client.DexSummary(ctx, "uniswap")
	client.FeeSummary(ctx, "uniswap")
	client.YieldPools(ctx)
	client.Stablecoins(ctx)

	want := []string{
		"/protocols",
		"/overview/dexs",
		"/overview/fees",
		"/protocol/uniswap",
		"/summary/dexs/uniswap",
		"/summary/fees/uniswap",
		"/pools",
		"/stablecoins",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(paths))
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("request %d path = %s, want %s", i, paths[i], p)
		}
	}
}
