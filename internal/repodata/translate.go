package repodata

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/repofetch/internal/channel"
	"github.com/MrSnakeDoc/repofetch/internal/service"
	"github.com/MrSnakeDoc/repofetch/internal/utils"
)

// TranslateOptions carries the configuration the translator consults. It is
// passed in explicitly per call rather than read from ambient state.
type TranslateOptions struct {
	// PermissiveNoarch downgrades a 403/404 on the no-architecture subdir
	// from a hard InvalidChannel to a soft EmptyChannel.
	PermissiveNoarch bool
	// ChannelAlias selects the alias-specific guidance for 401 responses.
	ChannelAlias string
	// DefaultHost is the well-known default distribution host; generic HTTP
	// failures against it get a network-policy note.
	DefaultHost string
}

// Translate maps a transport failure or HTTP status failure onto the closed
// error taxonomy. channelURL is the subdir URL the request addressed (without
// the repodata filename); status is 0 for pure transport failures.
func Translate(channelURL, repodataFn string, cause error, status int, reason string, elapsed time.Duration, opts TranslateOptions) error {
	fullURL := utils.JoinURL(channelURL, repodataFn)

	// proxy-layer failures win unconditionally
	var proxyErr *service.ProxyConnectError
	if errors.As(cause, &proxyErr) {
		return &HTTPError{
			Code:    CodeProxy,
			Message: Msg(CodeProxy),
			URL:     fullURL,
			Elapsed: elapsed,
			Cause:   cause,
		}
	}

	var schemeErr *service.SchemeError
	if errors.As(cause, &schemeErr) {
		if strings.Contains(strings.ToUpper(schemeErr.Error()), "SOCKS") {
			return &HTTPError{
				Code:    CodeMissingDependency,
				Message: Msg(CodeMissingDependency),
				URL:     fullURL,
				Elapsed: elapsed,
				Cause:   cause,
			}
		}
		// other scheme failures propagate unchanged
		return cause
	}

	if errors.Is(cause, service.ErrTLSUnavailable) {
		return &HTTPError{
			Code:    CodeTLSUnavailable,
			Message: Msg(CodeTLSUnavailable, cause),
			URL:     fullURL,
			Elapsed: elapsed,
			Cause:   cause,
		}
	}
	if isTLSVerificationError(cause) {
		return &HTTPError{
			Code:    CodeTLSVerification,
			Message: Msg(CodeTLSVerification, cause),
			URL:     fullURL,
			Elapsed: elapsed,
			Cause:   cause,
		}
	}

	base := &HTTPError{
		URL:     fullURL,
		Status:  status,
		Reason:  reason,
		Elapsed: elapsed,
		Cause:   cause,
	}

	switch {
	case status == 403 || status == 404:
		channelName := utils.URLDirname(channelURL)
		if channel.IsNoarch(channelURL) && opts.PermissiveNoarch {
			base.Code = CodeEmptyChannel
			base.Message = Msg(CodeEmptyChannel, channelName)
		} else {
			base.Code = CodeInvalidChannel
			base.Message = Msg(CodeInvalidChannel, channelName)
		}

	case status == 401:
		base.Code = CodeUnauthorized
		base.Message = unauthorizedMessage(channelURL, opts.ChannelAlias)

	case status >= 500 && status < 600:
		base.Code = CodeServerError
		base.Message = Msg(CodeServerError)

	default:
		base.Code = CodeHTTP
		if underDefaultHost(channelURL, opts.DefaultHost) {
			base.Message = fmt.Sprintf(msgHTTPDefaultHost, fullURL, "https://"+opts.DefaultHost)
		} else {
			base.Message = fmt.Sprintf(msgHTTPGeneric, fullURL)
		}
	}

	return base
}

// unauthorizedMessage picks the guidance variant for a 401: token-specific
// when the URL embeds a credential, alias re-auth when the channel lives
// under the configured alias, generic otherwise.
func unauthorizedMessage(channelURL, alias string) string {
	ch, err := channel.Parse(channelURL)
	if err != nil {
		return msgUnauthorizedGeneric
	}
	if token := ch.Token(); token != "" {
		return fmt.Sprintf(msgUnauthorizedToken, token)
	}
	if ch.UnderAlias(alias) {
		return msgUnauthorizedAlias
	}
	return msgUnauthorizedGeneric
}

func underDefaultHost(channelURL, defaultHost string) bool {
	if defaultHost == "" {
		return false
	}
	ch, err := channel.Parse(channelURL)
	if err != nil {
		return false
	}
	return ch.Host() == defaultHost
}

func isTLSVerificationError(err error) bool {
	var (
		certVerify *tls.CertificateVerificationError
		recHeader  tls.RecordHeaderError
		unkAuth    x509.UnknownAuthorityError
		hostname   x509.HostnameError
		certInv    x509.CertificateInvalidError
		sysRoots   x509.SystemRootsError
	)
	return errors.As(err, &certVerify) ||
		errors.As(err, &recHeader) ||
		errors.As(err, &unkAuth) ||
		errors.As(err, &hostname) ||
		errors.As(err, &certInv) ||
		errors.As(err, &sysRoots)
}
