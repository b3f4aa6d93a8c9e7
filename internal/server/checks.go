package server

import (
	"regexp"
	"strings"

	"github.com/dwarakesh2005/llm-automation-agent/internal/sandbox"
)

// deletionWordRE matches "rm" or "del" as standalone words. The longer
// deletion verbs are substring-matched separately, so "delete" is
// caught even when "del" sits inside a larger word.
var deletionWordRE = regexp.MustCompile(`(?i)\b(rm|del)\b`)

// VetTask applies the security checks every task must pass before it
// is dispatched, in a fixed order: the task must be present, must not
// reference paths outside the sandbox, and must not ask for deletion.
// It returns the rejection detail, or "" when the task may run. The
// same vetting guards the HTTP route and the one-shot CLI command.
func VetTask(taskText string, box *sandbox.Dir) string {
	if taskText == "" {
		return "Task description is required"
	}
	if referencesOutsidePath(taskText, box) {
		return "Invalid path access"
	}
	if mentionsDeletion(taskText) {
		return "File deletion not allowed"
	}
	return ""
}

// referencesOutsidePath reports whether the task text attempts a
// parent traversal or opens with an absolute path outside the sandbox.
// Only a task that begins with an absolute path is path-checked here;
// paths embedded later in the text are resolved by the handler itself,
// which enforces the same sandbox boundary.
func referencesOutsidePath(taskText string, box *sandbox.Dir) bool {
	if strings.Contains(taskText, "../") {
		return true
	}
	if !strings.HasPrefix(taskText, "/") {
		return false
	}
	first := strings.Fields(taskText)[0]
	return !box.Valid(first)
}

// mentionsDeletion reports whether the task text contains a deletion
// keyword: "delete" or "remove" anywhere, or "rm"/"del" as a whole
// word. This is a denylist over the instruction text, not a capability
// restriction; it blocks dispatch, nothing more.
func mentionsDeletion(taskText string) bool {
	lower := strings.ToLower(taskText)
	if strings.Contains(lower, "delete") || strings.Contains(lower, "remove") {
		return true
	}
	return deletionWordRE.MatchString(taskText)
}
