package processor

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"llamaflow/config"
	"llamaflow/models"
)

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:        "https://api.llama.fi",
			StablecoinsURL: "https://stablecoins.llama.fi",
			YieldsURL:      "https://yields.llama.fi",
		},
	}
}

func fixedAnnotator(t *testing.T) *Annotator {
	t.Helper()
	a := NewAnnotator(testConfig(), "run-1")
	a.now = func() time.Time {
		return time.Date(2025, 3, 14, 15, 9, 26, 535897000, time.UTC)
	}
	return a
}

func TestAnnotateRaw(t *testing.T) {
	a := fixedAnnotator(t)
	env, filename := a.Annotate(json.RawMessage(`[1,2]`), Request{
		Category:    models.CategoryProtocols,
		Subcategory: "tvl",
		Endpoint:    "protocols",
	})

	ci := env.Metadata.CollectionInfo
	if ci.Timestamp != "2025-03-14T15:09:26.535897" {
		t.Errorf("unexpected timestamp: %s", ci.Timestamp)
	}
	if ci.CollectionID != "run-1" {
		t.Errorf("unexpected collection id: %s", ci.CollectionID)
	}
	if ci.CollectionStatus != StatusSuccess {
		t.Errorf("unexpected status: %s", ci.CollectionStatus)
	}

	si := env.Metadata.SourceInfo
	if si.APIBase != "https://api.llama.fi" {
		t.Errorf("unexpected api base: %s", si.APIBase)
	}
	if si.DataType != models.DataTypeRaw {
		t.Errorf("unexpected data type: %s", si.DataType)
	}
	if si.Endpoint != "protocols" {
		t.Errorf("unexpected endpoint: %s", si.Endpoint)
	}

	if env.Metadata.ProtocolInfo != nil {
		t.Error("protocol_info must be absent without a slug")
	}
	if filename != "tvl_2025-03-14T15-09-26.535897.json" {
		t.Errorf("unexpected filename: %s", filename)
	}
}

func TestAnnotateAggregated(t *testing.T) {
	a := fixedAnnotator(t)
	env, filename := a.Annotate(json.RawMessage(`{}`), Request{
		Category:    models.CategoryDex,
		Subcategory: "details",
		Slug:        "uniswap",
		Endpoint:    "uniswap",
		Status:      StatusPartial,
	})

	si := env.Metadata.SourceInfo
	if si.DataType != models.DataTypeAggregated {
		t.Errorf("expected aggregated data type, got %s", si.DataType)
	}
	if !strings.Contains(si.DataTypeDescription, "specific DEXs") {
		t.Errorf("unexpected data type description: %s", si.DataTypeDescription)
	}

	pi := env.Metadata.ProtocolInfo
	if pi == nil {
		t.Fatal("protocol_info missing for aggregated envelope")
	}
	if pi.Slug != "uniswap" || pi.ProtocolType != "DEX" {
		t.Errorf("unexpected protocol info: %+v", pi)
	}
	if env.Metadata.CollectionInfo.CollectionStatus != StatusPartial {
		t.Errorf("status override lost: %s", env.Metadata.CollectionInfo.CollectionStatus)
	}
	if !strings.HasPrefix(filename, "uniswap_") {
		t.Errorf("slug must win filename priority: %s", filename)
	}
}

func TestAnnotateAPIBaseByCategory(t *testing.T) {
	a := fixedAnnotator(t)
	cases := map[string]string{
		models.CategoryProtocols:   "https://api.llama.fi",
		models.CategoryDex:         "https://api.llama.fi",
		models.CategoryYields:      "https://yields.llama.fi",
		models.CategoryStablecoins: "https://stablecoins.llama.fi",
	}
	for category, want := range cases {
		env, _ := a.Annotate(nil, Request{Category: category})
		if got := env.Metadata.SourceInfo.APIBase; got != want {
			t.Errorf("%s: api_base = %s, want %s", category, got, want)
		}
	}
}

func TestAnnotateUnknownDataTypeDescription(t *testing.T) {
	a := fixedAnnotator(t)
	// yields has no aggregated data type defined
	env, _ := a.Annotate(nil, Request{Category: models.CategoryYields, Slug: "some-pool"})
	if got := env.Metadata.SourceInfo.DataTypeDescription; got != "N/A" {
		t.Errorf("expected N/A fallback, got %s", got)
	}
}

func TestFilenameColonReplacement(t *testing.T) {
	name := Filename(Request{Category: models.CategoryYields, Subcategory: "pools"}, "2025-01-02T03:04:05.000001")
	if strings.Contains(name, ":") {
		t.Errorf("filename contains raw colon: %s", name)
	}
	if name != "pools_2025-01-02T03-04-05.000001.json" {
		t.Errorf("unexpected filename: %s", name)
	}
}

func TestFilenamePriority(t *testing.T) {
	ts := "2025-01-01T00:00:00.000000"
	if got := Filename(Request{Category: "dex"}, ts); !strings.HasPrefix(got, "dex_") {
		t.Errorf("category fallback broken: %s", got)
	}
	if got := Filename(Request{Category: "dex", Subcategory: "volumes"}, ts); !strings.HasPrefix(got, "volumes_") {
		t.Errorf("subcategory priority broken: %s", got)
	}
	if got := Filename(Request{Category: "dex", Subcategory: "details", Slug: "balancer"}, ts); !strings.HasPrefix(got, "balancer_") {
		t.Errorf("slug priority broken: %s", got)
	}
}
