package fsutil

import (
	"fmt"
	"os"
	"strings"
)

// RedactedPrefix replaces every value in a sanitized environment file.
const RedactedPrefix = "REPLACE_WITH_LIVE_"

// RedactEnv rewrites every non-comment key=value line to key=REPLACE_WITH_LIVE_<KEY>.
// Comments, blank lines, and lines without "=" pass through unchanged.
// Applying it twice yields the same text as applying it once.
func RedactEnv(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = redactLine(line)
	}
	return strings.Join(lines, "\n")
}

func redactLine(line string) string {
	body := strings.TrimSuffix(line, "\r")
	trimmed := strings.TrimSpace(body)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return line
	}
	key, _, ok := strings.Cut(body, "=")
	if !ok {
		return line
	}
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "export "))
	if name == "" {
		return line
	}
	out := key + "=" + RedactedPrefix + strings.ToUpper(name)
	if len(body) != len(line) {
		out += "\r"
	}
	return out
}

// SanitizeEnvFile redacts the environment file at path in place.
// It reports false without error when the file does not exist.
func SanitizeEnvFile(path string) (bool, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	redacted := RedactEnv(string(data))
	if redacted == string(data) {
		return true, nil
	}
	if err := AtomicWrite(path, []byte(redacted), FilePerm); err != nil {
		return false, err
	}
	return true, nil
}
