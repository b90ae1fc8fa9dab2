// Package git provides the git_status/git_diff/git_log/git_commit/git_branch/git_push
// tool family. Every tool shells out to the system git binary with a
// workspace-resolved working directory.
package git

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/haasonsaas/nexus/internal/agent"
	"github.com/haasonsaas/nexus/internal/tools/files"
)

// Config controls which git tools are permitted.
type Config struct {
	// AllowPush gates git_push; disabled by default since it mutates state
	// outside the sandboxed workspace.
	AllowPush bool

	// AllowedRemotes restricts git_push to a named-remote allowlist when
	// AllowPush is enabled. Empty means "origin" only.
	AllowedRemotes []string
}

func (c Config) allowedRemote(remote string) bool {
	if remote == "" {
		remote = "origin"
	}
	if len(c.AllowedRemotes) == 0 {
		return remote == "origin"
	}
	for _, r := range c.AllowedRemotes {
		if r == remote {
			return true
		}
	}
	return false
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%s: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", err
	}
	return stdout.String(), nil
}

func toolError(message string) *agent.ToolResult {
	payload, _ := json.Marshal(map[string]string{"error": message})
	return &agent.ToolResult{Content: string(payload), IsError: true}
}

func toolOK(content string) *agent.ToolResult {
	return &agent.ToolResult{Content: content}
}

// StatusTool implements git_status.
type StatusTool struct {
	resolver files.Resolver
}

// NewStatusTool creates a git_status tool scoped to workspace.
func NewStatusTool(workspace string) *StatusTool {
	return &StatusTool{resolver: files.Resolver{Root: workspace}}
}

func (t *StatusTool) Name() string        { return "git_status" }
func (t *StatusTool) Description() string { return "Show the working tree status." }
func (t *StatusTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{}}`)
}

func (t *StatusTool) Execute(ctx context.Context, _ json.RawMessage) (*agent.ToolResult, error) {
	dir, err := t.resolver.Resolve(".")
	if err != nil {
		return toolError(err.Error()), nil
	}
	out, err := run(ctx, dir, "status", "--porcelain=v1", "--branch")
	if err != nil {
		return toolError(err.Error()), nil
	}
	return toolOK(out), nil
}

// DiffTool implements git_diff.
type DiffTool struct {
	resolver files.Resolver
}

// NewDiffTool creates a git_diff tool scoped to workspace.
func NewDiffTool(workspace string) *DiffTool {
	return &DiffTool{resolver: files.Resolver{Root: workspace}}
}

func (t *DiffTool) Name() string        { return "git_diff" }
func (t *DiffTool) Description() string { return "Show changes between the working tree and the index, or a specific path." }
func (t *DiffTool) Schema() json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":   map[string]any{"type": "string", "description": "Limit the diff to this path."},
			"staged": map[string]any{"type": "boolean", "description": "Show staged changes instead of the working tree."},
		},
	}
	payload, _ := json.Marshal(schema)
	return payload
}

func (t *DiffTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	var input struct {
		Path   string `json:"path"`
		Staged bool   `json:"staged"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &input); err != nil {
			return toolError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
	}
	dir, err := t.resolver.Resolve(".")
	if err != nil {
		return toolError(err.Error()), nil
	}
	args := []string{"diff"}
	if input.Staged {
		args = append(args, "--staged")
	}
	if strings.TrimSpace(input.Path) != "" {
		if _, err := t.resolver.Resolve(input.Path); err != nil {
			return toolError(err.Error()), nil
		}
		args = append(args, "--", input.Path)
	}
	out, err := run(ctx, dir, args...)
	if err != nil {
		return toolError(err.Error()), nil
	}
	return toolOK(out), nil
}

// LogTool implements git_log.
type LogTool struct {
	resolver files.Resolver
}

// NewLogTool creates a git_log tool scoped to workspace.
func NewLogTool(workspace string) *LogTool {
	return &LogTool{resolver: files.Resolver{Root: workspace}}
}

func (t *LogTool) Name() string        { return "git_log" }
func (t *LogTool) Description() string { return "Show recent commits." }
func (t *LogTool) Schema() json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Max commits to return.", "minimum": 1},
		},
	}
	payload, _ := json.Marshal(schema)
	return payload
}

func (t *LogTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	var input struct {
		Limit int `json:"limit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &input); err != nil {
			return toolError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
	}
	if input.Limit <= 0 {
		input.Limit = 20
	}
	dir, err := t.resolver.Resolve(".")
	if err != nil {
		return toolError(err.Error()), nil
	}
	out, err := run(ctx, dir, "log", fmt.Sprintf("-n%d", input.Limit), "--oneline", "--decorate")
	if err != nil {
		return toolError(err.Error()), nil
	}
	return toolOK(out), nil
}

// CommitTool implements git_commit.
type CommitTool struct {
	resolver files.Resolver
}

// NewCommitTool creates a git_commit tool scoped to workspace.
func NewCommitTool(workspace string) *CommitTool {
	return &CommitTool{resolver: files.Resolver{Root: workspace}}
}

func (t *CommitTool) Name() string        { return "git_commit" }
func (t *CommitTool) Description() string { return "Create a commit from the staged (or all) changes." }
func (t *CommitTool) Schema() json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message":  map[string]any{"type": "string", "description": "Commit message."},
			"add_all":  map[string]any{"type": "boolean", "description": "Stage all tracked changes before committing."},
		},
		"required": []string{"message"},
	}
	payload, _ := json.Marshal(schema)
	return payload
}

func (t *CommitTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	var input struct {
		Message string `json:"message"`
		AddAll  bool   `json:"add_all"`
	}
	if err := json.Unmarshal(params, &input); err != nil {
		return toolError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if strings.TrimSpace(input.Message) == "" {
		return toolError("message is required"), nil
	}
	dir, err := t.resolver.Resolve(".")
	if err != nil {
		return toolError(err.Error()), nil
	}
	if input.AddAll {
		if _, err := run(ctx, dir, "add", "-A"); err != nil {
			return toolError(err.Error()), nil
		}
	}
	out, err := run(ctx, dir, "commit", "-m", input.Message)
	if err != nil {
		return toolError(err.Error()), nil
	}
	return toolOK(out), nil
}

// BranchTool implements git_branch.
type BranchTool struct {
	resolver files.Resolver
}

// NewBranchTool creates a git_branch tool scoped to workspace.
func NewBranchTool(workspace string) *BranchTool {
	return &BranchTool{resolver: files.Resolver{Root: workspace}}
}

func (t *BranchTool) Name() string        { return "git_branch" }
func (t *BranchTool) Description() string { return "List branches, or create and switch to a new one." }
func (t *BranchTool) Schema() json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"create": map[string]any{"type": "boolean", "description": "Create (and switch to) the named branch."},
			"name":   map[string]any{"type": "string", "description": "Branch name, required when create is true."},
		},
	}
	payload, _ := json.Marshal(schema)
	return payload
}

func (t *BranchTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	var input struct {
		Create bool   `json:"create"`
		Name   string `json:"name"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &input); err != nil {
			return toolError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
	}
	dir, err := t.resolver.Resolve(".")
	if err != nil {
		return toolError(err.Error()), nil
	}
	if !input.Create {
		out, err := run(ctx, dir, "branch", "--list")
		if err != nil {
			return toolError(err.Error()), nil
		}
		return toolOK(out), nil
	}
	if strings.TrimSpace(input.Name) == "" {
		return toolError("name is required when create is true"), nil
	}
	out, err := run(ctx, dir, "checkout", "-b", input.Name)
	if err != nil {
		return toolError(err.Error()), nil
	}
	return toolOK(out), nil
}

// PushTool implements git_push. Disabled unless Config.AllowPush is set.
type PushTool struct {
	resolver files.Resolver
	config   Config
}

// NewPushTool creates a git_push tool scoped to workspace, gated by config.
func NewPushTool(workspace string, config Config) *PushTool {
	return &PushTool{resolver: files.Resolver{Root: workspace}, config: config}
}

func (t *PushTool) Name() string        { return "git_push" }
func (t *PushTool) Description() string { return "Push the current branch to a remote. Disabled by default." }
func (t *PushTool) Schema() json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"remote": map[string]any{"type": "string", "description": "Remote name, defaults to origin."},
			"branch": map[string]any{"type": "string", "description": "Branch name, defaults to the current branch."},
		},
	}
	payload, _ := json.Marshal(schema)
	return payload
}

func (t *PushTool) Execute(ctx context.Context, params json.RawMessage) (*agent.ToolResult, error) {
	if !t.config.AllowPush {
		return toolError("disabled"), nil
	}
	var input struct {
		Remote string `json:"remote"`
		Branch string `json:"branch"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &input); err != nil {
			return toolError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
	}
	remote := strings.TrimSpace(input.Remote)
	if remote == "" {
		remote = "origin"
	}
	if !t.config.allowedRemote(remote) {
		return toolError(fmt.Sprintf("remote %q is not in the allowed-remotes list", remote)), nil
	}
	dir, err := t.resolver.Resolve(".")
	if err != nil {
		return toolError(err.Error()), nil
	}
	args := []string{"push", remote}
	if strings.TrimSpace(input.Branch) != "" {
		args = append(args, input.Branch)
	}
	out, err := run(ctx, dir, args...)
	if err != nil {
		return toolError(err.Error()), nil
	}
	return toolOK(out), nil
}
