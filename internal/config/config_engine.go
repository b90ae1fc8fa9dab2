package config

import "time"

// EngineConfig holds the agentic loop's tunable limits. It is populated once
// at process start from the environment table below and handed to the loop
// unchanged for the life of the process — the loop never re-reads the
// environment mid-request.
type EngineConfig struct {
	// MaxContextMessages bounds the conversation history kept before the
	// first turn (CHAT_MAX_CONTEXT_MESSAGES).
	MaxContextMessages int

	// MaxMessageChars caps any single message's text before truncation
	// (CHAT_MAX_MSG_CHARS).
	MaxMessageChars int

	// MaxTokens bounds a single turn's response length (CHAT_MAX_TOKENS).
	MaxTokens int

	// MaxToolTurns bounds the number of agentic turns (CHAT_MAX_TOOL_TURNS).
	MaxToolTurns int

	// ToolExecutionTimeout bounds a single tool dispatch (TOOL_EXECUTION_TIMEOUT_MS).
	ToolExecutionTimeout time.Duration

	// ToolParallelLimit is P, the chunk size for the parallel tool runner
	// (TOOL_PARALLEL_LIMIT).
	ToolParallelLimit int

	// MaxLoopMessages bounds the running transcript before it is trimmed
	// (AGENTIC_MAX_LOOP_MESSAGES).
	MaxLoopMessages int

	// RAGContextEnabled toggles the retrieval-augmentation race during
	// PREPARE (RAG_CONTEXT_ENABLED).
	RAGContextEnabled bool

	// EnableGitPush toggles the git_push tool (ENABLE_GIT_PUSH).
	EnableGitPush bool
}

// DefaultEngineConfig returns the engine's built-in defaults, matching the
// values named in the configuration table.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxContextMessages:   12,
		MaxMessageChars:      8000,
		MaxTokens:            16384,
		MaxToolTurns:         25,
		ToolExecutionTimeout: 600 * time.Second,
		ToolParallelLimit:    5,
		MaxLoopMessages:      30,
		RAGContextEnabled:    false,
		EnableGitPush:        false,
	}
}
