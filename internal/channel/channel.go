// Package channel models the URL policy of a channel: a named remote location
// serving index documents under per-platform subdirectories.
package channel

import (
	"fmt"
	"net/url"
	"runtime"
	"strings"

	"github.com/MrSnakeDoc/repofetch/internal/utils"
)

// NoarchSubdir is the conventional architecture-independent subdirectory.
// Channels with no content for a platform are still expected to serve it.
const NoarchSubdir = "noarch"

type Channel struct {
	raw string
	u   *url.URL
}

func Parse(raw string) (*Channel, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("channel URL %q must be absolute", raw)
	}
	return &Channel{raw: raw, u: u}, nil
}

func (c *Channel) String() string { return c.raw }

// Token returns the credential embedded in the URL path under the /t/<token>/
// convention, or "" when the URL carries none.
func (c *Channel) Token() string {
	segments := strings.Split(strings.Trim(c.u.Path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == "t" && segments[i+1] != "" {
			return segments[i+1]
		}
	}
	return ""
}

// UnderAlias reports whether the channel lives under the configured alias
// location (host plus optional path prefix).
func (c *Channel) UnderAlias(alias string) bool {
	if alias == "" {
		return false
	}
	location := alias
	if au, err := url.Parse(alias); err == nil && au.Host != "" {
		location = au.Host + strings.TrimRight(au.Path, "/")
	}
	return strings.Contains(c.raw, location)
}

// Host returns the channel's host without port.
func (c *Channel) Host() string { return c.u.Hostname() }

// IsNoarch reports whether the channel URL addresses the no-architecture
// subdirectory.
func IsNoarch(channelURL string) bool {
	return strings.HasSuffix(strings.TrimRight(channelURL, "/"), "/"+NoarchSubdir)
}

// SubdirURL joins a base channel URL with a platform subdirectory.
func SubdirURL(base, subdir string) string {
	return utils.JoinURL(base, subdir)
}

// PlatformSubdir maps the running platform to its channel subdirectory name.
func PlatformSubdir() string {
	switch runtime.GOOS + "/" + runtime.GOARCH {
	case "linux/amd64":
		return "linux-64"
	case "linux/arm64":
		return "linux-aarch64"
	case "linux/ppc64le":
		return "linux-ppc64le"
	case "darwin/amd64":
		return "osx-64"
	case "darwin/arm64":
		return "osx-arm64"
	case "windows/amd64":
		return "win-64"
	default:
		return NoarchSubdir
	}
}
