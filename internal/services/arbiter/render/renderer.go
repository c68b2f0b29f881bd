// Package render produces master-facing notification copy from rule-config
// templates. Templates reference conflict fields through {key} placeholders.
package render

import (
	"fmt"
	"regexp"
	"strings"
)

const defaultGenericMessage = "A conflict requires manual resolution."

var placeholderPattern = regexp.MustCompile(`\{[a-z0-9_]+\}`)

// Message substitutes {key} placeholders in template from values. A template
// that still carries unresolved placeholders after substitution is replaced
// by a generic message naming the conflict id when one is available, so
// masters never see raw template syntax.
func Message(template string, values map[string]string) string {
	message := strings.TrimSpace(template)
	if message == "" {
		return Generic(values)
	}
	for key, value := range values {
		message = strings.ReplaceAll(message, "{"+key+"}", value)
	}
	if placeholderPattern.MatchString(message) {
		return Generic(values)
	}
	return message
}

// Generic is the fallback alert used when no usable template exists.
func Generic(values map[string]string) string {
	if id := values["conflict_id"]; id != "" {
		return fmt.Sprintf("Conflict %s requires manual resolution.", id)
	}
	return defaultGenericMessage
}
