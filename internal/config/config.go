package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config is the span scraper's process configuration. Values from the YAML
// config file are overlaid on the defaults; a missing file path selects the
// defaults unchanged.
type Config struct {
	Server     ServerConfig      `koanf:"server"`
	Log        LogConfig         `koanf:"log"`
	Metrics    MetricsConfig     `koanf:"metrics"`
	IgnoreTags map[string]string `koanf:"ignore_tags"`
	Cache      CacheConfig       `koanf:"cache"`
}

type ServerConfig struct {
	// GRPCAddress is the listen address for the OTLP trace export service.
	GRPCAddress string `koanf:"grpc_address"`
	// HTTPAddress is the listen address for the metrics scrape endpoint.
	HTTPAddress string `koanf:"http_address"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	// File, when set, routes log output to a size-rotated file instead of
	// stderr.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

type MetricsConfig struct {
	// Namespace prefixes every metric name as "namespace:name" when set.
	Namespace string `koanf:"namespace"`
}

type CacheConfig struct {
	// EndpointCacheEntries bounds the endpoint name cache. Zero disables
	// caching entirely.
	EndpointCacheEntries int64 `koanf:"endpoint_cache_entries"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			GRPCAddress: ":4317",
			HTTPAddress: ":9464",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Cache: CacheConfig{
			EndpointCacheEntries: 1 << 14,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config file %s: %w", path, err)
	}
	return cfg, nil
}
