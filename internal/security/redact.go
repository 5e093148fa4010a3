package security

import "strings"

var sensitiveSubstrings = []string{
	"li_at",
	"cookie",
	"session",
	"token",
	"authorization",
	"bearer",
	"password",
	"secret",
	"credential",
}

// RedactArguments returns a copy of tool arguments with sensitive values
// replaced, so session cookies and bearer tokens never reach the logs.
func RedactArguments(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	redacted := make(map[string]any, len(values))
	for key, value := range values {
		if IsSensitiveKey(key) {
			redacted[key] = "***"
			continue
		}
		redacted[key] = value
	}
	return redacted
}

// RedactToken keeps enough of a credential to correlate log lines without
// exposing it: the first four characters followed by a mask.
func RedactToken(token string) string {
	if len(token) <= 4 {
		return "***"
	}
	return token[:4] + "***"
}

// IsSensitiveKey reports whether an argument key likely holds a credential.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	for _, part := range sensitiveSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
