// Package tools implements the MCP tool surface of the edit protocol.
//
// Each tool is a struct that receives its dependencies (session
// manager, model store) at construction and exposes a Definition for
// registration plus a Handle compatible with mcp-go's CallToolRequest
// signature. One file per tool.
//
// Error convention: user mistakes (bad arguments, state-machine guard
// violations) come back as tool error results so the caller can react;
// infrastructure failures are returned as Go errors.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mjall/ripple/internal/artifact"
)

// maxValueWidth caps rendered field values so review output stays
// readable for long descriptions and structured fields.
const maxValueWidth = 80

// compactValue renders a field value on one line.
func compactValue(v any) string {
	if v == nil {
		return "(empty)"
	}
	var s string
	if str, ok := v.(string); ok {
		s = fmt.Sprintf("%q", str)
	} else {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		s = string(data)
	}
	if len(s) > maxValueWidth {
		s = s[:maxValueWidth-1] + "…"
	}
	return s
}

// formatChange renders one change as "field: old → new".
func formatChange(c artifact.Change) string {
	return fmt.Sprintf("%s: %s → %s", c.Field, compactValue(c.OldValue), compactValue(c.NewValue))
}

// formatCascade renders a cascade change with its target and reason.
func formatCascade(c artifact.Change, accepted bool) string {
	mark := "[ ]"
	if accepted {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s — %s %q\n      %s\n      why: %s",
		mark, c.Key(),
		artifact.DisplayName(c.Kind), c.ArtifactID,
		formatChange(c), c.Reason)
}

// parseFields decodes the fields argument, a JSON object mapping field
// names to new values.
func parseFields(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("'fields' is required — a JSON object of field names to new values")
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("'fields' must be a JSON object: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("'fields' must not be empty")
	}
	return fields, nil
}

// summarizeDirect renders the current direct edit as a bullet list.
func summarizeDirect(changes []artifact.Change) string {
	if len(changes) == 0 {
		return "No changed fields yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Changed fields (%d):\n", len(changes))
	for _, c := range changes {
		fmt.Fprintf(&b, "  - %s\n", formatChange(c))
	}
	return strings.TrimRight(b.String(), "\n")
}
