package shared

import "regexp"

// Patterns covering the usual ways secret material leaks into error
// strings: key=value pairs, JSON fields, and bearer headers.
var scrubPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|passwd|token|secret|api[_-]?key|key)\s*[=:]\s*[^\s",}]+`),
	regexp.MustCompile(`(?i)"(password|passwd|token|secret|api[_-]?key|key)"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/-]+=*`),
}

// Scrub removes credential material from a message before it reaches the
// logs. Every error string derived from request input must pass through
// here prior to logging.
func Scrub(message string) string {
	for _, re := range scrubPatterns {
		message = re.ReplaceAllString(message, "[REDACTED]")
	}
	return message
}
