package git

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", "-A")
	run("commit", "-m", "initial commit")
	return dir
}

func TestStatusToolCleanAndDirty(t *testing.T) {
	dir := initRepo(t)
	tool := NewStatusTool(dir)

	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", result.Content)
	}

	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result, err = tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(result.Content, "new.txt") {
		t.Fatalf("expected status to mention new.txt, got %q", result.Content)
	}
}

func TestDiffToolScopedToPath(t *testing.T) {
	dir := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tool := NewDiffTool(dir)
	params, _ := json.Marshal(map[string]string{"path": "README.md"})
	result, err := tool.Execute(context.Background(), params)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(result.Content, "world") {
		t.Fatalf("expected diff to contain added line, got %q", result.Content)
	}
}

func TestDiffToolRejectsPathOutsideWorkspace(t *testing.T) {
	dir := initRepo(t)
	tool := NewDiffTool(dir)
	params, _ := json.Marshal(map[string]string{"path": "../../etc/passwd"})
	result, err := tool.Execute(context.Background(), params)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for path outside workspace")
	}
}

func TestLogToolDefaultLimit(t *testing.T) {
	dir := initRepo(t)
	tool := NewLogTool(dir)
	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(result.Content, "initial commit") {
		t.Fatalf("expected log to contain initial commit, got %q", result.Content)
	}
}

func TestCommitToolRequiresMessage(t *testing.T) {
	dir := initRepo(t)
	tool := NewCommitTool(dir)
	params, _ := json.Marshal(map[string]string{"message": ""})
	result, err := tool.Execute(context.Background(), params)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for empty message")
	}
}

func TestCommitToolAddAll(t *testing.T) {
	dir := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	tool := NewCommitTool(dir)
	params, _ := json.Marshal(map[string]any{"message": "add new file", "add_all": true})
	result, err := tool.Execute(context.Background(), params)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", result.Content)
	}

	status := NewStatusTool(dir)
	statusResult, err := status.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Contains(statusResult.Content, "new.txt") {
		t.Fatalf("expected new.txt to be committed, status still shows it: %q", statusResult.Content)
	}
}

func TestBranchToolListAndCreate(t *testing.T) {
	dir := initRepo(t)
	tool := NewBranchTool(dir)

	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", result.Content)
	}

	params, _ := json.Marshal(map[string]any{"create": true, "name": "feature/x"})
	result, err = tool.Execute(context.Background(), params)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error creating branch: %s", result.Content)
	}
}

func TestBranchToolCreateRequiresName(t *testing.T) {
	dir := initRepo(t)
	tool := NewBranchTool(dir)
	params, _ := json.Marshal(map[string]any{"create": true})
	result, err := tool.Execute(context.Background(), params)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result when name is missing")
	}
}

func TestPushToolDisabledByDefault(t *testing.T) {
	dir := initRepo(t)
	tool := NewPushTool(dir, Config{})
	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected push to be disabled by default")
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(result.Content), &payload); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if payload["error"] != "disabled" {
		t.Fatalf("expected disabled error, got %q", payload["error"])
	}
}

func TestPushToolRejectsDisallowedRemote(t *testing.T) {
	dir := initRepo(t)
	tool := NewPushTool(dir, Config{AllowPush: true, AllowedRemotes: []string{"origin"}})
	params, _ := json.Marshal(map[string]string{"remote": "upstream"})
	result, err := tool.Execute(context.Background(), params)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for disallowed remote")
	}
}
