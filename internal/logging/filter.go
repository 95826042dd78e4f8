// Package logging provides sensitive-data filtering for zerolog output.
// Wrapped agent commands routinely carry API keys in their argv and
// environment; nothing matched here reaches the log file.
package logging

import (
	"io"
	"regexp"
	"strings"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns match common API key, token, and credential formats.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // compiled once
	// Anthropic API keys (sk-ant-api...)
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]+`),

	// OpenAI API keys (sk-...)
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),

	// GitHub tokens (ghp_, gho_, ghu_, ghs_, ghr_)
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),

	// api_key=..., apikey: ...
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([a-zA-Z0-9_-]{16,})["']?`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_.-]{20,}`),

	// secret=..., password: ...
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|pwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),

	// PEM private key headers
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),

	// token=<long base64>
	regexp.MustCompile(`(?i)(token|auth)\s*[:=]\s*["']?[a-zA-Z0-9+/=]{32,}["']?`),
}

// sensitiveFieldNames are matched case-insensitively as substrings of a key.
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // fixed list
	"api_key",
	"apikey",
	"api-key",
	"token",
	"password",
	"passwd",
	"secret",
	"credential",
	"private_key",
	"private-key",
	"authorization",
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in value with [REDACTED].
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName checks if a field, flag or variable name indicates sensitive data.
func IsSensitiveFieldName(fieldName string) bool {
	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// SafeArgv returns a copy of argv suitable for logging. Values of
// sensitive-looking flags and KEY=VALUE assignments are redacted, including
// the argument following a bare sensitive flag such as "--token abc".
//
//	SafeArgv([]string{"agent", "--api-key", "abc", "GH_TOKEN=xyz"})
//	// → ["agent", "--api-key", "[REDACTED]", "GH_TOKEN=[REDACTED]"]
func SafeArgv(argv []string) []string {
	out := make([]string, len(argv))
	redactNext := false
	for i, arg := range argv {
		switch {
		case redactNext:
			out[i] = RedactedValue
			redactNext = false
		case strings.Contains(arg, "="):
			key, _, _ := strings.Cut(arg, "=")
			if IsSensitiveFieldName(key) {
				out[i] = key + "=" + RedactedValue
			} else {
				out[i] = FilterSensitiveValue(arg)
			}
		case strings.HasPrefix(arg, "-") && IsSensitiveFieldName(arg):
			out[i] = arg
			redactNext = true
		default:
			out[i] = FilterSensitiveValue(arg)
		}
	}
	return out
}

// FilteringWriter wraps an io.Writer and filters sensitive data from output.
// The CLI wraps its rotating log file with one so secrets never reach disk.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter that wraps the given writer.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer, filtering sensitive data before writing.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	// Report the original length so callers don't see a short write.
	return len(p), nil
}
