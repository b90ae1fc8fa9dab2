package security

import (
	"fmt"
	"regexp"
)

// DenylistRule pairs a compiled pattern with the reason it is blocked.
type DenylistRule struct {
	Name    string
	Pattern *regexp.Regexp
	Reason  string
}

// defaultDenylistRules are the built-in dangerous-command patterns bash_execute
// is checked against before anything runs. Patterns match the command as a
// whole and are intentionally permissive about surrounding whitespace/flags.
var defaultDenylistRules = []DenylistRule{
	{
		Name:    "rm_root",
		Pattern: regexp.MustCompile(`\brm\s+(-[a-zA-Z]*r[a-zA-Z]*f[a-zA-Z]*|-[a-zA-Z]*f[a-zA-Z]*r[a-zA-Z]*)\s+/\s*$`),
		Reason:  "recursive force-delete of the filesystem root",
	},
	{
		Name:    "rm_root_glob",
		Pattern: regexp.MustCompile(`\brm\s+(-[a-zA-Z]*r[a-zA-Z]*f[a-zA-Z]*|-[a-zA-Z]*f[a-zA-Z]*r[a-zA-Z]*)\s+/\*\s*$`),
		Reason:  "recursive force-delete of everything under the filesystem root",
	},
	{
		Name:    "disk_overwrite",
		Pattern: regexp.MustCompile(`\bdd\s+.*\bof=/dev/(sd|nvme|hd|disk)[a-z0-9]*\b`),
		Reason:  "raw write to a block device",
	},
	{
		Name:    "fork_bomb",
		Pattern: regexp.MustCompile(`:\(\)\s*\{\s*:\|\s*:\s*&\s*\}\s*;\s*:`),
		Reason:  "fork bomb",
	},
	{
		Name:    "fetch_pipe_shell",
		Pattern: regexp.MustCompile(`\b(curl|wget)\b[^|]*\|\s*(sudo\s+)?(sh|bash|zsh|ksh)\b`),
		Reason:  "pipes a network download directly into a shell",
	},
	{
		Name:    "shutdown",
		Pattern: regexp.MustCompile(`\b(shutdown|poweroff|halt)\b`),
		Reason:  "shuts down the host",
	},
	{
		Name:    "reboot",
		Pattern: regexp.MustCompile(`\breboot\b`),
		Reason:  "reboots the host",
	},
	{
		Name:    "mkfs",
		Pattern: regexp.MustCompile(`\bmkfs(\.[a-zA-Z0-9]+)?\s+/dev/`),
		Reason:  "formats a block device",
	},
	{
		Name:    "chmod_root",
		Pattern: regexp.MustCompile(`\bchmod\s+(-R\s+)?(000|777)\s+/\s*$`),
		Reason:  "recursively changes permissions on the filesystem root",
	},
	{
		Name:    "chown_root",
		Pattern: regexp.MustCompile(`\bchown\s+-R\b.*\s+/\s*$`),
		Reason:  "recursively changes ownership of the filesystem root",
	},
}

// DenylistVerdict is the outcome of checking a command against the denylist.
type DenylistVerdict struct {
	Blocked bool
	Rule    string
	Reason  string
}

// CheckDenylist matches command against the built-in dangerous-command
// denylist plus any operator-supplied extra patterns. The first matching
// rule wins; built-ins are checked before extras.
func CheckDenylist(command string, extraPatterns []string) DenylistVerdict {
	for _, rule := range defaultDenylistRules {
		if rule.Pattern.MatchString(command) {
			return DenylistVerdict{Blocked: true, Rule: rule.Name, Reason: rule.Reason}
		}
	}
	for i, pattern := range extraPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(command) {
			return DenylistVerdict{
				Blocked: true,
				Rule:    fmt.Sprintf("extra_%d", i),
				Reason:  "matched operator-configured denylist pattern",
			}
		}
	}
	return DenylistVerdict{Blocked: false}
}

// IsDenylisted is a convenience wrapper over CheckDenylist for callers that
// only care about the boolean outcome.
func IsDenylisted(command string, extraPatterns []string) bool {
	return CheckDenylist(command, extraPatterns).Blocked
}
