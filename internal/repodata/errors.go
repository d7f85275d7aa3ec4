package repodata

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Code identifies one kind of fetch failure. The set is closed: everything
// the transport can raise maps onto exactly one of these.
type Code string

const (
	CodeEmptyChannel      Code = "EMPTY_CHANNEL"
	CodeInvalidChannel    Code = "INVALID_CHANNEL"
	CodeProxy             Code = "PROXY_ERROR"
	CodeMissingDependency Code = "MISSING_DEPENDENCY"
	CodeTLSUnavailable    Code = "TLS_UNAVAILABLE"
	CodeTLSVerification   Code = "TLS_VERIFICATION_ERROR"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeServerError       Code = "SERVER_ERROR"
	CodeHTTP              Code = "HTTP_ERROR"
)

var messages = map[Code]string{
	CodeEmptyChannel: `The channel %[1]s exists but provides no index document for this platform.

An empty index has been cached so the channel can still be used for
architecture-independent content.`,

	CodeInvalidChannel: `The channel %[1]s is unavailable or invalid.

You will need to adjust your channel configuration to proceed.
Check that the channel URL is spelled correctly and that the channel
actually serves an index document for the requested platform.`,

	CodeProxy: `A proxy error occurred while trying to retrieve this URL.

Check your proxy configuration (proxy setting in
~/.config/repofetch/config.yml, or the HTTP_PROXY/HTTPS_PROXY
environment variables) and that the proxy itself is reachable.`,

	CodeMissingDependency: `Your working environment is configured to use a SOCKS proxy flavor this
build does not support. To proceed, remove your proxy configuration or
switch it to a socks5:// proxy URL, then retry.`,

	CodeTLSUnavailable: `TLS support appears to be unavailable on this machine. TLS is required
to download index documents.

Exception: %[1]v`,

	CodeTLSVerification: `Encountered a TLS error. Most likely a certificate verification issue.

Exception: %[1]v`,

	CodeServerError: `A remote server error occurred when trying to retrieve this URL.

A 500-type error (e.g. 500, 501, 502, 503, etc.) indicates the server failed to
fulfill a valid request. The problem may be spurious, and will resolve itself if you
try your request again. If the problem persists, consider notifying the maintainer
of the remote server.`,
}

// Unauthorized message variants. The variant only changes the guidance text,
// never the code.
const (
	msgUnauthorizedToken = `The token '%[1]s' given for the URL is invalid.

If this token was issued by the channel's server, you will need to
reauthenticate against it and embed the new token in the channel URL.

If you supplied this token yourself, you will need to adjust your channel
configuration to proceed. Your configuration lives in
~/.config/repofetch/config.yml.`

	msgUnauthorizedAlias = `The remote server has indicated you are using invalid credentials for this channel.

If the remote site follows the standard channel server API, you will need to
    (a) remove the invalid token from your credential store, optionally
        followed by collecting a new token from the server, or
    (b) embed a valid token in the channel URL directly.

Your channel alias is configured in ~/.config/repofetch/config.yml.`

	msgUnauthorizedGeneric = `The credentials you have provided for this URL are invalid.

You will need to modify your channel configuration to proceed.
Your configuration lives in ~/.config/repofetch/config.yml.`
)

const (
	msgHTTPDefaultHost = `An HTTP error occurred when trying to retrieve this URL.
HTTP errors are often intermittent, and a simple retry will get you on your way.

If your current network has %[2]s blocked, please file
a support request with your network engineering team.

%[1]s`

	msgHTTPGeneric = `An HTTP error occurred when trying to retrieve this URL.
HTTP errors are often intermittent, and a simple retry will get you on your way.
%[1]s`
)

// Msg renders the help message for a code.
func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}

// HTTPError is the one structured error type behind the taxonomy. Code selects
// the kind; Message carries the multi-line human-readable explanation; the
// remaining fields give the layer above enough context to log or render.
type HTTPError struct {
	Code    Code
	Message string
	URL     string
	Status  int
	Reason  string
	Elapsed time.Duration
	Cause   error
}

func (e *HTTPError) Error() string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(e.Message, "\n"))
	b.WriteString("\n")
	if e.URL != "" {
		fmt.Fprintf(&b, "\nurl: %s", e.URL)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, "\nstatus: %d", e.Status)
		if e.Reason != "" {
			fmt.Fprintf(&b, " %s", e.Reason)
		}
	}
	if e.Elapsed != 0 {
		fmt.Fprintf(&b, "\nelapsed: %s", e.Elapsed)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, "\ncause: %v", e.Cause)
	}
	return b.String()
}

func (e *HTTPError) Unwrap() error { return e.Cause }

// Soft reports whether the failure leaves the channel usable: the caller
// should cache an empty index document and carry on.
func (e *HTTPError) Soft() bool { return e.Code == CodeEmptyChannel }

// IsCode reports whether err is an *HTTPError of the given code.
func IsCode(err error, code Code) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Code == code
}
