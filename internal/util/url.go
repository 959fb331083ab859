package util

import "strings"

// NormalizeOrigin canonicalizes a web origin for comparison: trailing
// slashes are stripped and the scheme/host are lowercased. Trusted-origin
// matching is an exact string comparison of normalized values.
func NormalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}
