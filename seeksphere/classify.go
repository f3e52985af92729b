package seeksphere

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"syscall"
)

// Network error messages
const (
	msgTimeout         = "Request timeout"
	msgConnectionError = "Connection error"
	msgSSLPrefix       = "SSL error: "
	msgNetworkPrefix   = "Network error: "
)

// classifyTransportError maps a failed request to a NetworkError. Timeouts
// and TLS failures are checked before generic connection failures.
func classifyTransportError(err error) *NetworkError {
	switch {
	case isTimeoutError(err):
		return &NetworkError{Message: msgTimeout, Err: err}
	case isTLSError(err):
		return &NetworkError{Message: msgSSLPrefix + underlying(err).Error(), Err: err}
	case isConnectionError(err):
		return &NetworkError{Message: msgConnectionError, Err: err}
	default:
		return &NetworkError{Message: msgNetworkPrefix + underlying(err).Error(), Err: err}
	}
}

// underlying strips the *url.Error wrapper that repeats method and URL
func underlying(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

// isTimeoutError checks for deadlines and net.Error timeouts
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isTLSError checks for handshake and certificate failures
func isTLSError(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)

	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}

// isConnectionError checks for refused, reset, DNS and dial failures
func isConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}
