package utils

import (
	"strings"
)

// JoinURL joins URL path segments with single slashes, preserving the scheme
// separator of the first segment.
func JoinURL(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	joined := strings.TrimRight(parts[0], "/")
	for _, p := range parts[1:] {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		joined += "/" + p
	}
	return joined
}

// URLDirname returns the URL with its final path segment removed.
func URLDirname(u string) string {
	trimmed := strings.TrimRight(u, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	// never cut into the scheme separator
	if strings.HasSuffix(trimmed[:idx], ":/") {
		return trimmed
	}
	return trimmed[:idx]
}
