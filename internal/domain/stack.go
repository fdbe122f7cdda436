package domain

import "strings"

func containsPlus(stack string) bool {
	return strings.Contains(stack, "+")
}

func splitStack(stack string) []string {
	raw := strings.Split(stack, "+")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// StackMentions reports whether any stack part equals one of names, case-insensitively.
func StackMentions(stack string, names ...string) bool {
	for _, part := range splitStack(stack) {
		for _, name := range names {
			if strings.EqualFold(part, name) {
				return true
			}
		}
	}
	return false
}
