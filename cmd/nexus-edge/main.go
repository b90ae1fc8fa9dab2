// Package main provides the nexus-edge CLI: a thin entry point that wires a
// single agentic tool-dispatch run end-to-end against a sandboxed workspace,
// for manual exercising and local debugging of the engine.
//
// # Basic Usage
//
// Run a single prompt against the workspace:
//
//	nexus-edge run --workspace . --message "list the files in this repo"
//
// # Environment Variables
//
//   - NEXUS_CONFIG: Path to configuration file (default: none, built-in defaults)
//   - ANTHROPIC_API_KEY: Anthropic API key for Claude models
//   - OPENAI_API_KEY: OpenAI API key, used if no Anthropic key is set
//   - See internal/config for the full CHAT_*/TOOL_*/AGENTIC_* override table.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/haasonsaas/nexus/internal/agent"
	agentctx "github.com/haasonsaas/nexus/internal/agent/context"
	"github.com/haasonsaas/nexus/internal/agent/providers"
	"github.com/haasonsaas/nexus/internal/config"
	"github.com/haasonsaas/nexus/internal/sessions"
	"github.com/haasonsaas/nexus/internal/tools/exec"
	"github.com/haasonsaas/nexus/internal/tools/files"
	gittools "github.com/haasonsaas/nexus/internal/tools/git"
	"github.com/haasonsaas/nexus/pkg/models"
)

// Build information, populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "nexus-edge",
		Short:        "Run the agentic tool-dispatch engine against a sandboxed workspace",
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}
	rootCmd.AddCommand(buildRunCmd(), buildToolsCmd())
	return rootCmd
}

func buildRunCmd() *cobra.Command {
	var (
		configPath string
		workspace  string
		message    string
		sessionID  string
		provider   string
		stream     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send one message through the agentic loop and print the transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd.Context(), runArgs{
				configPath: configPath,
				workspace:  workspace,
				message:    message,
				sessionID:  sessionID,
				provider:   provider,
				stream:     stream,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("NEXUS_CONFIG"), "path to a YAML configuration file")
	cmd.Flags().StringVar(&workspace, "workspace", ".", "sandbox root all file/exec/git tools resolve against")
	cmd.Flags().StringVar(&message, "message", "", "the user message to send (required)")
	cmd.Flags().StringVar(&sessionID, "session-id", "edge-cli", "session key; reused across runs to keep history")
	cmd.Flags().StringVar(&provider, "provider", "", "anthropic or openai; defaults to whichever API key is set")
	cmd.Flags().BoolVar(&stream, "stream", true, "print model/tool events as they arrive instead of only the final transcript")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func buildToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tool catalogue a run would register",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range []string{
				"file_read", "file_write", "file_edit", "apply_patch",
				"bash_execute", "process",
				"git_status", "git_diff", "git_log", "git_commit", "git_branch", "git_push",
			} {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

type runArgs struct {
	configPath string
	workspace  string
	message    string
	sessionID  string
	provider   string
	stream     bool
}

// runEngine wires configuration, the tool catalogue, an LLM provider and a
// runtime into a single Process/ProcessStream call, then drains the
// resulting channel to stdout. This is the reference wiring for every
// component SPEC_FULL.md names; a real deployment would front it with a
// gateway instead of a CLI loop.
func runEngine(ctx context.Context, args runArgs) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(args.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if args.workspace != "" {
		cfg.Workspace.Root = args.workspace
	}

	llmProvider, err := buildProvider(args.provider)
	if err != nil {
		return err
	}

	store := sessions.NewMemoryStore()
	runtime := buildRuntime(cfg, llmProvider, store)
	if model := cfg.LLM.Providers[cfg.LLM.DefaultProvider].DefaultModel; model != "" {
		runtime.SetDefaultModel(model)
	}

	session, err := store.GetOrCreate(ctx, args.sessionID, cfg.Session.DefaultAgentID, models.ChannelType("cli"), args.sessionID)
	if err != nil {
		return fmt.Errorf("get or create session: %w", err)
	}

	msg := &models.Message{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Channel:   session.Channel,
		ChannelID: session.ChannelID,
		Direction: "inbound",
		Role:      models.RoleUser,
		Content:   args.message,
	}
	if err := store.AppendMessage(ctx, session.ID, msg); err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	if args.stream {
		events, err := runtime.ProcessStream(ctx, session, msg)
		if err != nil {
			return fmt.Errorf("process stream: %w", err)
		}
		return drainEvents(events)
	}

	chunks, err := runtime.Process(ctx, session, msg)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}
	return drainChunks(chunks)
}

// namedProvider constructs a single LLM provider by name from its well-known
// API-key environment variable.
func namedProvider(name string) (agent.LLMProvider, error) {
	switch name {
	case "anthropic":
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		return providers.NewAnthropicProvider(providers.AnthropicConfig{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
		})
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return providers.NewOpenAIProvider(os.Getenv("OPENAI_API_KEY")), nil
	case "google":
		if os.Getenv("GOOGLE_API_KEY") == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY not set")
		}
		return providers.NewGoogleProvider(providers.GoogleConfig{APIKey: os.Getenv("GOOGLE_API_KEY")})
	case "bedrock":
		if os.Getenv("AWS_REGION") == "" && os.Getenv("AWS_DEFAULT_REGION") == "" {
			return nil, fmt.Errorf("AWS_REGION not set")
		}
		region := os.Getenv("AWS_REGION")
		if region == "" {
			region = os.Getenv("AWS_DEFAULT_REGION")
		}
		return providers.NewBedrockProvider(providers.BedrockConfig{Region: region})
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// providerPriority is the default failover order: the first provider with
// credentials configured becomes primary, the rest (if also configured)
// become fallbacks tried in this order on a retryable transport error.
var providerPriority = []string{"anthropic", "openai", "google", "bedrock"}

// buildProvider constructs the requested provider, or — when requested is
// empty — every provider with credentials configured in providerPriority
// order, wrapped in a FailoverOrchestrator so a retryable transport error
// (rate limit, 5xx, timeout, network) from the primary falls over to the
// next configured provider instead of failing the request outright.
func buildProvider(requested string) (agent.LLMProvider, error) {
	if requested != "" {
		return namedProvider(requested)
	}

	var available []agent.LLMProvider
	for _, name := range providerPriority {
		p, err := namedProvider(name)
		if err != nil {
			continue
		}
		available = append(available, p)
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("no provider requested and none of ANTHROPIC_API_KEY, OPENAI_API_KEY, GOOGLE_API_KEY, AWS_REGION is set")
	}
	if len(available) == 1 {
		return available[0], nil
	}

	orchestrator := agent.NewFailoverOrchestrator(available[0], nil)
	for _, p := range available[1:] {
		orchestrator.AddProvider(p)
	}
	return orchestrator, nil
}

// buildRuntime registers the file, exec and git tool families and applies
// the engine's configured limits to the runtime's tool-dispatch options.
func buildRuntime(cfg *config.Config, provider agent.LLMProvider, store sessions.Store) *agent.Runtime {
	runtime := agent.NewRuntimeWithOptions(provider, store, agent.RuntimeOptions{
		MaxIterations:   cfg.Engine.MaxToolTurns,
		ToolParallelism: cfg.Engine.ToolParallelLimit,
		ToolTimeout:     cfg.Engine.ToolExecutionTimeout,
		MaxToolCalls:    0,
	})
	runtime.SetMaxIterations(cfg.Engine.MaxToolTurns)
	runtime.SetToolExecConfig(agent.ToolExecConfig{
		Concurrency:    cfg.Engine.ToolParallelLimit,
		PerToolTimeout: cfg.Engine.ToolExecutionTimeout,
	})
	runtime.SetContextShape(agentctx.ShaperConfig{
		MaxContextMessages: cfg.Engine.MaxContextMessages,
		MaxMessageChars:    cfg.Engine.MaxMessageChars,
		MaxLoopMessages:    cfg.Engine.MaxLoopMessages,
	})

	filesCfg := files.Config{
		Workspace:    cfg.Workspace.Root,
		MaxReadBytes: int(cfg.Workspace.MaxFileBytes),
		AllowedDirs:  cfg.Workspace.AllowedDirs,
	}
	runtime.RegisterTool(files.NewReadTool(filesCfg))
	runtime.RegisterTool(files.NewWriteTool(filesCfg))
	runtime.RegisterTool(files.NewEditTool(filesCfg))
	runtime.RegisterTool(files.NewApplyPatchTool(filesCfg))

	execManager := exec.NewManagerWithAllowedDirs(cfg.Workspace.Root, cfg.Workspace.AllowedDirs)
	runtime.RegisterTool(exec.NewExecTool("bash_execute", execManager))
	runtime.RegisterTool(exec.NewProcessTool(execManager))

	gitCfg := gittools.Config{
		AllowPush:      cfg.Tools.Git.AllowPush,
		AllowedRemotes: cfg.Tools.Git.AllowedRemotes,
	}
	runtime.RegisterTool(gittools.NewStatusTool(cfg.Workspace.Root))
	runtime.RegisterTool(gittools.NewDiffTool(cfg.Workspace.Root))
	runtime.RegisterTool(gittools.NewLogTool(cfg.Workspace.Root))
	runtime.RegisterTool(gittools.NewCommitTool(cfg.Workspace.Root))
	runtime.RegisterTool(gittools.NewBranchTool(cfg.Workspace.Root))
	runtime.RegisterTool(gittools.NewPushTool(cfg.Workspace.Root, gitCfg))

	return runtime
}

func drainEvents(events <-chan models.AgentEvent) error {
	for ev := range events {
		switch ev.Type {
		case models.AgentEventModelDelta:
			if ev.Stream != nil {
				fmt.Print(ev.Stream.Delta)
			}
		case models.AgentEventToolStarted:
			if ev.Tool != nil {
				fmt.Fprintf(os.Stderr, "\n[tool] %s %s\n", ev.Tool.Name, string(ev.Tool.ArgsJSON))
			}
		case models.AgentEventToolFinished:
			if ev.Tool != nil {
				fmt.Fprintf(os.Stderr, "[tool done] %s success=%v\n", ev.Tool.Name, ev.Tool.Success)
			}
		case models.AgentEventRunError:
			if ev.Error != nil {
				return fmt.Errorf("run error: %s", ev.Error.Message)
			}
		case models.AgentEventRunFinished, models.AgentEventRunCancelled, models.AgentEventRunTimedOut:
			fmt.Println()
		}
	}
	return nil
}

func drainChunks(chunks <-chan *agent.ResponseChunk) error {
	enc := json.NewEncoder(os.Stdout)
	for chunk := range chunks {
		if err := enc.Encode(chunk); err != nil {
			return err
		}
	}
	return nil
}
