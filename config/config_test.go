package config

import (
	"os"
	"testing"
)

// writeTempConfig creates a minimal configuration file required for LoadConfig
// and returns its path.
func writeTempConfig(t *testing.T) string {
	t.Helper()
	content := `llamaflow:
  name: "TestApp"
  version: "1.0"
storage:
  local:
    root_dir: "data"
  s3:
    enabled: false
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Llamaflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Llamaflow.Name)
	}
	if cfg.API.BaseURL != "https://api.llama.fi" {
		t.Errorf("unexpected default base url: %s", cfg.API.BaseURL)
	}
	if cfg.API.YieldsURL != "https://yields.llama.fi" {
		t.Errorf("unexpected default yields url: %s", cfg.API.YieldsURL)
	}
	if len(cfg.Dexs) != 5 {
		t.Errorf("expected default dex list, got %v", cfg.Dexs)
	}
	if cfg.Dexs[0] != "uniswap" {
		t.Errorf("unexpected first dex: %s", cfg.Dexs[0])
	}
}

func TestLoadConfigFetcherTimeout(t *testing.T) {
	content := `llamaflow:
  name: "TestApp"
  version: "1.0"
fetcher:
  timeout: 10s
  user_agent: "test/1.0"
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	f.Close()

	cfg, err := LoadConfig(f.Name())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Fetcher.Timeout.Seconds() != 10 {
		t.Errorf("unexpected timeout: %v", cfg.Fetcher.Timeout)
	}
	if cfg.Fetcher.UserAgent != "test/1.0" {
		t.Errorf("unexpected user agent: %s", cfg.Fetcher.UserAgent)
	}
}

func TestLoadConfigMissingName(t *testing.T) {
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString("llamaflow:\n  version: \"1.0\"\n"); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	f.Close()

	if _, err := LoadConfig(f.Name()); err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestLoadConfigS3Validation(t *testing.T) {
	content := `llamaflow:
  name: "TestApp"
  version: "1.0"
storage:
  s3:
    enabled: true
    bucket: "Bad_Bucket"
    region: "us-east-1"
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	f.Close()

	if _, err := LoadConfig(f.Name()); err == nil {
		t.Fatal("expected validation error for invalid bucket name")
	}
}

func TestIsValidS3Bucket(t *testing.T) {
	cases := map[string]bool{
		"my-bucket":      true,
		"ab":             false,
		"My-Bucket":      false,
		"bucket..double": false,
		".leading":       false,
		"trailing.":      false,
	}
	for name, want := range cases {
		if got := isValidS3Bucket(name); got != want {
			t.Errorf("isValidS3Bucket(%q) = %v, want %v", name, got, want)
		}
	}
}
