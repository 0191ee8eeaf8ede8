package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type CollectorConfig struct {
	Endpoint    string `yaml:"endpoint" env:"FINCH_COLLECTOR_ENDPOINT" env-default:"localhost:4317" env-description:"OTLP collector endpoint for span export"`
	ServiceName string `yaml:"serviceName" env:"FINCH_SERVICE_NAME" env-default:"finch-agent" env-description:"Service name stamped on exported spans"`
	FlushSecs   int    `yaml:"flushSeconds" env:"FINCH_SPAN_FLUSH_SECONDS" env-default:"5"`
}

type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled" env:"FINCH_ES_ENABLED" env-default:"true"`
	Addresses []string `yaml:"addresses" env:"FINCH_ES_ADDRESSES" env-description:"Elasticsearch addresses for the trace archive"`
}

type AgentConfig struct {
	ListenAddr    string              `yaml:"listenAddr" env:"FINCH_LISTEN_ADDR" env-default:":8126" env-description:"Finalization ingest listen address"`
	MetricsAddr   string              `yaml:"metricsAddr" env:"FINCH_METRICS_ADDR" env-default:":9091" env-description:"Prometheus metrics listen address"`
	ApdexT        float64             `yaml:"apdexT" env:"FINCH_APDEX_T" env-default:"0.5" env-description:"Apdex threshold in seconds"`
	Collector     CollectorConfig     `yaml:"collector"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
}

// LoadConfig reads the yaml config at path, falling back to environment
// variables and defaults; an empty path skips the file entirely.
func LoadConfig(path string) (*AgentConfig, error) {
	var cfg AgentConfig
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from %s: %w", path, err)
	}
	return &cfg, nil
}
