package context

import (
	"strings"

	"github.com/haasonsaas/nexus/pkg/models"
)

// ShaperConfig holds the four fixed thresholds the context shaper applies.
// Unlike ContextPruningSettings (a ratio/TTL-driven tool-result pruner kept
// as a secondary mechanism), these are simple message-count and char-count
// caps applied at fixed points in the agentic loop.
type ShaperConfig struct {
	// MaxContextMessages bounds history kept before the first turn.
	MaxContextMessages int

	// MaxMessageChars caps any single message's text.
	MaxMessageChars int

	// MaxLoopMessages bounds the running transcript mid-loop.
	MaxLoopMessages int
}

// DefaultShaperConfig matches the engine's documented defaults.
func DefaultShaperConfig() ShaperConfig {
	return ShaperConfig{
		MaxContextMessages: 12,
		MaxMessageChars:    8000,
		MaxLoopMessages:    30,
	}
}

const truncationSuffix = "\n... [truncated]"

// TruncateHistory keeps the first user message (earliest role=user) plus the
// last MaxContextMessages-1 messages, avoiding duplication if the first user
// message already falls inside the tail window. Applied once, before the
// first turn.
func TruncateHistory(messages []*models.Message, maxMessages int) []*models.Message {
	if maxMessages <= 0 || len(messages) <= maxMessages {
		return messages
	}

	firstUserIdx := -1
	for i, m := range messages {
		if m.Role == models.RoleUser {
			firstUserIdx = i
			break
		}
	}

	tailStart := len(messages) - (maxMessages - 1)
	if firstUserIdx == -1 || firstUserIdx >= tailStart {
		return messages[len(messages)-maxMessages:]
	}

	out := make([]*models.Message, 0, maxMessages)
	out = append(out, messages[firstUserIdx])
	out = append(out, messages[tailStart:]...)
	return out
}

// TrimMessage truncates a single message's content to maxChars, appending a
// suffix marker when truncation occurs.
func TrimMessage(content string, maxChars int) string {
	if maxChars <= 0 || len(content) <= maxChars {
		return content
	}
	return content[:maxChars] + truncationSuffix
}

// TrimMessages applies TrimMessage to every message's content in place and
// returns the slice for convenience.
func TrimMessages(messages []*models.Message, maxChars int) []*models.Message {
	for _, m := range messages {
		m.Content = TrimMessage(m.Content, maxChars)
	}
	return messages
}

// ToolKind classifies a tool name for output-compression purposes.
type ToolKind int

const (
	ToolKindOther ToolKind = iota
	ToolKindWrite
	ToolKindExec
	ToolKindRead
)

// ClassifyTool maps a tool name to its compression category. Unknown names
// fall back to ToolKindOther, which is passed through uncapped (aside from
// the error cap that applies regardless of kind).
func ClassifyTool(name string) ToolKind {
	switch {
	case strings.HasPrefix(name, "file_write") || strings.HasPrefix(name, "file_edit"):
		return ToolKindWrite
	case strings.HasPrefix(name, "bash_execute") || strings.HasPrefix(name, "exec") || strings.HasPrefix(name, "process_"):
		return ToolKindExec
	case strings.HasPrefix(name, "file_read") || strings.HasPrefix(name, "list_directory") ||
		strings.HasPrefix(name, "codebase_search") || strings.HasPrefix(name, "grep_search") ||
		strings.HasPrefix(name, "file_outline"):
		return ToolKindRead
	default:
		return ToolKindOther
	}
}

const (
	execOutputCap     = 4000
	execOutputTail    = 100
	readOutputCap     = 8000
	errorOutputCap    = 2000
)

// CompressToolOutput implements the tool-output compression transform: a
// write/edit success collapses to a one-line confirmation, an oversize exec
// result keeps its tail, and read/search results are capped. Errors are
// passed through capped at errorOutputCap regardless of kind. writtenPath and
// writtenLines are only consulted when kind is ToolKindWrite and isError is
// false.
func CompressToolOutput(kind ToolKind, content string, isError bool, writtenPath string, writtenLines int) string {
	if isError {
		return TrimMessage(content, errorOutputCap)
	}

	switch kind {
	case ToolKindWrite:
		return "✓ Written: " + writtenPath + " (" + itoa(writtenLines) + " lines)"
	case ToolKindExec:
		if len(content) <= execOutputCap {
			return content
		}
		lines := strings.Split(content, "\n")
		if len(lines) > execOutputTail {
			tail := strings.Join(lines[len(lines)-execOutputTail:], "\n")
			if len(tail) <= execOutputCap {
				return tail
			}
		}
		return content[len(content)-execOutputCap:]
	case ToolKindRead:
		return TrimMessage(content, readOutputCap)
	default:
		return content
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// TrimLoopMessages applies the loop-trimming transform: once the running
// transcript exceeds maxMessages, keep the first 4 and the most recent
// maxMessages-4 messages.
func TrimLoopMessages(messages []*models.Message, maxMessages int) []*models.Message {
	const keepHead = 4
	if maxMessages <= keepHead || len(messages) <= maxMessages {
		return messages
	}
	keepTail := maxMessages - keepHead
	out := make([]*models.Message, 0, maxMessages)
	out = append(out, messages[:keepHead]...)
	out = append(out, messages[len(messages)-keepTail:]...)
	return out
}
