// Package config loads and validates the engine's configuration: YAML/JSON5
// files with $include support, layered with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/haasonsaas/nexus/internal/mcp"
	"github.com/haasonsaas/nexus/internal/skills"
)

// Config is the root configuration for the engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Session       SessionConfig       `yaml:"session"`
	Workspace     WorkspaceConfig     `yaml:"workspace"`
	Skills        skills.SkillsConfig `yaml:"skills"`
	RAG           RAGConfig           `yaml:"rag"`
	MCP           mcp.Config          `yaml:"mcp"`
	LLM           LLMConfig           `yaml:"llm"`
	Tools         ToolsConfig         `yaml:"tools"`
	Engine        EngineConfig        `yaml:"engine"`
	Tasks         TasksConfig         `yaml:"tasks"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// Default returns a Config populated with the engine's built-in defaults.
// Load overlays a config file and environment variables on top of this.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "nexus.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Session: SessionConfig{
			DefaultAgentID: "default",
			ContextPruning: ContextPruningConfig{
				Mode: "ratio",
			},
		},
		Workspace: WorkspaceConfig{
			Root:         ".",
			MaxFileBytes: 10 << 20,
		},
		RAG: RAGConfig{
			Enabled:  false,
			Deadline: 2 * time.Second,
		},
		Tools: ToolsConfig{
			ParallelLimit: 4,
			CallTimeout:   2 * time.Minute,
			Execution: ExecutionConfig{
				Shell:          "/bin/sh",
				DefaultTimeout: 30 * time.Second,
				MaxOutputBytes: 1 << 20,
			},
			Guardrails: GuardrailsConfig{
				Enabled:       true,
				MaxInputBytes: 256 << 10,
			},
		},
		Engine: DefaultEngineConfig(),
		Tasks: TasksConfig{
			Enabled:        true,
			PollInterval:   30 * time.Second,
			MaxConcurrency: 4,
			StaleTimeout:   15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Observability: ObservabilityConfig{
			Tracing: TracingConfig{
				ServiceName:  "nexus-edge",
				SamplingRate: 0.1,
			},
			Metrics: MetricsConfig{
				Addr: ":9090",
			},
		},
	}
}

// Load reads the config file at path (if non-empty), merges it onto the
// built-in defaults, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		raw, err := LoadRaw(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		fileCfg, err := decodeRawConfig(raw)
		if err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// mergeConfig overlays non-zero fields of the sparser approach: since
// decodeRawConfig only populates fields present in the file, the decoded
// struct already carries the zero value for anything unset. We therefore
// round-trip through the default so unset sections keep their defaults.
func mergeConfig(base *Config, file *Config) *Config {
	merged := *base
	if file.Server.Addr != "" {
		merged.Server = file.Server
	}
	if file.Database.Driver != "" {
		merged.Database = file.Database
	}
	merged.Auth = file.Auth
	if file.Session.DefaultAgentID != "" {
		merged.Session.DefaultAgentID = file.Session.DefaultAgentID
	}
	merged.Session.Memory = file.Session.Memory
	merged.Session.Scoping = file.Session.Scoping
	if file.Session.ContextPruning.Mode != "" {
		merged.Session.ContextPruning = file.Session.ContextPruning
	}
	if file.Workspace.Root != "" {
		merged.Workspace = file.Workspace
	}
	merged.Skills = file.Skills
	if file.RAG.Deadline != 0 {
		merged.RAG = file.RAG
	} else {
		merged.RAG.Enabled = file.RAG.Enabled
	}
	merged.MCP = file.MCP
	merged.LLM = file.LLM
	if file.Tools.ParallelLimit != 0 {
		merged.Tools.ParallelLimit = file.Tools.ParallelLimit
	}
	if file.Tools.CallTimeout != 0 {
		merged.Tools.CallTimeout = file.Tools.CallTimeout
	}
	merged.Tools.Execution = mergeExecution(merged.Tools.Execution, file.Tools.Execution)
	merged.Tools.Git = file.Tools.Git
	merged.Tools.Policy = file.Tools.Policy
	merged.Tools.Guardrails = mergeGuardrails(merged.Tools.Guardrails, file.Tools.Guardrails)
	merged.Engine = mergeEngine(merged.Engine, file.Engine)
	if file.Tasks.PollInterval != 0 {
		merged.Tasks = file.Tasks
	}
	if file.Logging.Level != "" {
		merged.Logging = file.Logging
	}
	if file.Observability.Tracing.ServiceName != "" {
		merged.Observability.Tracing = file.Observability.Tracing
	}
	merged.Observability.Tracing.Enabled = merged.Observability.Tracing.Enabled || file.Observability.Tracing.Enabled
	if file.Observability.Metrics.Addr != "" {
		merged.Observability.Metrics = file.Observability.Metrics
	}
	return &merged
}

func mergeExecution(base, file ExecutionConfig) ExecutionConfig {
	if file.Shell != "" {
		base.Shell = file.Shell
	}
	if file.DefaultTimeout != 0 {
		base.DefaultTimeout = file.DefaultTimeout
	}
	if file.MaxOutputBytes != 0 {
		base.MaxOutputBytes = file.MaxOutputBytes
	}
	if len(file.ExtraDenylistPatterns) > 0 {
		base.ExtraDenylistPatterns = file.ExtraDenylistPatterns
	}
	return base
}

func mergeEngine(base, file EngineConfig) EngineConfig {
	if file.MaxContextMessages != 0 {
		base.MaxContextMessages = file.MaxContextMessages
	}
	if file.MaxMessageChars != 0 {
		base.MaxMessageChars = file.MaxMessageChars
	}
	if file.MaxTokens != 0 {
		base.MaxTokens = file.MaxTokens
	}
	if file.MaxToolTurns != 0 {
		base.MaxToolTurns = file.MaxToolTurns
	}
	if file.ToolExecutionTimeout != 0 {
		base.ToolExecutionTimeout = file.ToolExecutionTimeout
	}
	if file.ToolParallelLimit != 0 {
		base.ToolParallelLimit = file.ToolParallelLimit
	}
	if file.MaxLoopMessages != 0 {
		base.MaxLoopMessages = file.MaxLoopMessages
	}
	base.RAGContextEnabled = base.RAGContextEnabled || file.RAGContextEnabled
	base.EnableGitPush = base.EnableGitPush || file.EnableGitPush
	return base
}

func mergeGuardrails(base, file GuardrailsConfig) GuardrailsConfig {
	base.Enabled = file.Enabled || base.Enabled
	if file.MaxInputBytes != 0 {
		base.MaxInputBytes = file.MaxInputBytes
	}
	if len(file.RedactPatterns) > 0 {
		base.RedactPatterns = file.RedactPatterns
	}
	return base
}

// applyEnvOverrides layers environment variables on top of a loaded config.
// Env vars take precedence over both defaults and the config file. Names
// match the engine's external configuration table exactly.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NEXUS_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("NEXUS_SESSION_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("NEXUS_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("NEXUS_WORKSPACE_ROOT"); v != "" {
		cfg.Workspace.Root = v
	}
	if v := os.Getenv("NEXUS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NEXUS_OTEL_ENDPOINT"); v != "" {
		cfg.Observability.Tracing.Enabled = true
		cfg.Observability.Tracing.Endpoint = v
	}
	if v := os.Getenv("NEXUS_METRICS_ADDR"); v != "" {
		cfg.Observability.Metrics.Enabled = true
		cfg.Observability.Metrics.Addr = v
	}

	if v := os.Getenv("CHAT_MAX_CONTEXT_MESSAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.MaxContextMessages = n
		}
	}
	if v := os.Getenv("CHAT_MAX_MSG_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.MaxMessageChars = n
		}
	}
	if v := os.Getenv("CHAT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.MaxTokens = n
		}
	}
	if v := os.Getenv("CHAT_MAX_TOOL_TURNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.MaxToolTurns = n
		}
	}
	if v := os.Getenv("TOOL_EXECUTION_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.ToolExecutionTimeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("TOOL_PARALLEL_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.ToolParallelLimit = n
			cfg.Tools.ParallelLimit = n
		}
	}
	if v := os.Getenv("AGENTIC_MAX_LOOP_MESSAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.MaxLoopMessages = n
		}
	}
	if v := os.Getenv("RAG_CONTEXT_ENABLED"); v != "" {
		cfg.Engine.RAGContextEnabled = isTruthyEnv(v)
		cfg.RAG.Enabled = cfg.Engine.RAGContextEnabled
	}
	if v := os.Getenv("ENABLE_GIT_PUSH"); v != "" {
		cfg.Engine.EnableGitPush = isTruthyEnv(v)
		cfg.Tools.Git.AllowPush = cfg.Engine.EnableGitPush
	}
}

func isTruthyEnv(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Validate checks the config for internally inconsistent values that would
// otherwise surface as confusing failures deep in the engine.
func (c *Config) Validate() error {
	if c.Workspace.Root == "" {
		return fmt.Errorf("workspace.root is required")
	}
	if c.Tools.ParallelLimit < 1 {
		return fmt.Errorf("tools.parallel_limit must be >= 1")
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("database.driver must be \"sqlite\" or \"postgres\", got %q", c.Database.Driver)
	}
	return nil
}
