package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Llamaflow LlamaflowConfig `yaml:"llamaflow"`
	API       APIConfig       `yaml:"api"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Dexs      []string        `yaml:"dexs"`
	Storage   StorageConfig   `yaml:"storage"`
	Schedule  string          `yaml:"schedule"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type LlamaflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// APIConfig holds the base URLs of the DeFi Llama API family. Each root
// serves a different data category.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	CoinsURL       string `yaml:"coins_url"`
	StablecoinsURL string `yaml:"stablecoins_url"`
	YieldsURL      string `yaml:"yields_url"`
}

type FetcherConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// UnmarshalYAML accepts Go duration strings ("30s") for the timeout while
// keeping defaults for omitted keys.
func (f *FetcherConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid fetcher.timeout: %w", err)
		}
		f.Timeout = d
	}
	if raw.UserAgent != "" {
		f.UserAgent = raw.UserAgent
	}
	return nil
}

type StorageConfig struct {
	Local LocalConfig `yaml:"local"`
	S3    S3Config    `yaml:"s3"`
}

// LocalConfig points at the root directory snapshots are written under.
type LocalConfig struct {
	RootDir string `yaml:"root_dir"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"`
	Output        string `yaml:"output"`
	MaxAge        int    `yaml:"max_age"`
	DashboardName string `yaml:"dashboard_name"`
}

func LoadConfig(path string) (*Config, error) {
	// Read configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		API: APIConfig{
			BaseURL:        "https://api.llama.fi",
			CoinsURL:       "https://coins.llama.fi",
			StablecoinsURL: "https://stablecoins.llama.fi",
			YieldsURL:      "https://yields.llama.fi",
		},
		Fetcher: FetcherConfig{
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Local: LocalConfig{RootDir: "data"},
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override S3 settings from environment variables if available
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}

	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)

	if len(config.Dexs) == 0 {
		config.Dexs = DefaultDexs()
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// DefaultDexs returns the verified list of major DEXs supported by the
// DeFi Llama API, in display order.
func DefaultDexs() []string {
	return []string{"uniswap", "sushiswap", "pancakeswap", "balancer", "quickswap"}
}

func validateConfig(cfg *Config) error {
	if cfg.Llamaflow.Name == "" {
		return fmt.Errorf("llamaflow.name is required")
	}

	if cfg.Llamaflow.Version == "" {
		return fmt.Errorf("llamaflow.version is required")
	}

	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if cfg.API.StablecoinsURL == "" {
		return fmt.Errorf("api.stablecoins_url is required")
	}
	if cfg.API.YieldsURL == "" {
		return fmt.Errorf("api.yields_url is required")
	}

	if cfg.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be greater than 0")
	}

	if cfg.Storage.Local.RootDir == "" {
		return fmt.Errorf("storage.local.root_dir is required")
	}

	for _, dex := range cfg.Dexs {
		if strings.TrimSpace(dex) == "" {
			return fmt.Errorf("dexs must not contain empty entries")
		}
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Storage.S3.Bucket) {
			return fmt.Errorf("storage.s3.bucket '%s' is invalid", cfg.Storage.S3.Bucket)
		}
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}
