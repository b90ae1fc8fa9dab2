package config

import "time"

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ObservabilityConfig configures tracing and metrics.
type ObservabilityConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// TracingConfig controls OpenTelemetry tracing.
type TracingConfig struct {
	Enabled        bool              `yaml:"enabled"`
	Endpoint       string            `yaml:"endpoint"`
	ServiceName    string            `yaml:"service_name"`
	ServiceVersion string            `yaml:"service_version"`
	Environment    string            `yaml:"environment"`
	SamplingRate   float64           `yaml:"sampling_rate"`
	Insecure       bool              `yaml:"insecure"`
	Attributes     map[string]string `yaml:"attributes"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// TasksConfig configures the scheduled background-task system that reaps
// stale processes and enforces workspace quotas.
type TasksConfig struct {
	// Enabled enables the scheduled tasks scheduler.
	Enabled bool `yaml:"enabled"`

	// PollInterval is how often the scheduler checks for due tasks.
	PollInterval time.Duration `yaml:"poll_interval"`

	// MaxConcurrency is the maximum number of concurrent task executions.
	MaxConcurrency int `yaml:"max_concurrency"`

	// StaleTimeout is how long a background process can run before being reaped.
	StaleTimeout time.Duration `yaml:"stale_timeout"`
}

// RAGConfig configures the retrieval-augmentation collaborator the loop
// consults under a hard deadline during PREPARE.
type RAGConfig struct {
	// Enabled enables the RAG context race during PREPARE.
	Enabled bool `yaml:"enabled"`

	// Deadline bounds how long the loop waits for retrieval context.
	// Non-fatal: on timeout the loop proceeds without it.
	Deadline time.Duration `yaml:"deadline"`
}
