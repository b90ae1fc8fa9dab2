package config

import "time"

// ToolsConfig configures the tool dispatcher and parallel runner.
type ToolsConfig struct {
	// ParallelLimit is P, the chunk size the parallel tool runner uses
	// to partition a turn's tool calls into contiguous chunks.
	ParallelLimit int `yaml:"parallel_limit"`

	// CallTimeout bounds a single tool call's execution.
	CallTimeout time.Duration `yaml:"call_timeout"`

	// Execution configures the bash_execute tool.
	Execution ExecutionConfig `yaml:"execution"`

	// Git configures the git_* tool family.
	Git GitToolsConfig `yaml:"git"`

	// Policy configures allow/deny filtering of tool names exposed to the model.
	Policy ToolPolicyConfig `yaml:"policy"`

	// Guardrails configures the pre/post hook that inspects tool input and output.
	Guardrails GuardrailsConfig `yaml:"guardrails"`
}

// ExecutionConfig configures bash_execute's sandbox and denylist.
type ExecutionConfig struct {
	// Shell is the shell used to run commands, e.g. "/bin/sh".
	Shell string `yaml:"shell"`

	// DefaultTimeout bounds a command that doesn't specify its own timeout.
	DefaultTimeout time.Duration `yaml:"default_timeout"`

	// MaxOutputBytes caps captured stdout/stderr per command.
	MaxOutputBytes int `yaml:"max_output_bytes"`

	// ExtraDenylistPatterns adds operator-supplied regexes to the built-in
	// dangerous-command denylist.
	ExtraDenylistPatterns []string `yaml:"extra_denylist_patterns"`
}

// GitToolsConfig configures the git_* tool family.
type GitToolsConfig struct {
	// AllowPush gates git_push; disabled by default since it mutates
	// state outside the sandboxed workspace.
	AllowPush bool `yaml:"allow_push"`

	// AllowedRemotes restricts git_push to a named-remote allowlist
	// when AllowPush is enabled. Empty means "origin" only.
	AllowedRemotes []string `yaml:"allowed_remotes"`
}

// ToolPolicyConfig controls which tools are exposed to the model for a turn.
type ToolPolicyConfig struct {
	Allow []string `yaml:"allow"`
	Deny  []string `yaml:"deny"`
}

// GuardrailsConfig controls the pre/post tool-call inspection hook.
type GuardrailsConfig struct {
	Enabled bool `yaml:"enabled"`

	// MaxInputBytes rejects a tool call before dispatch if its serialized
	// input exceeds this size.
	MaxInputBytes int `yaml:"max_input_bytes"`

	// RedactPatterns are regexes checked against tool output; matches are
	// replaced with a placeholder before the result re-enters history.
	RedactPatterns []string `yaml:"redact_patterns"`
}
