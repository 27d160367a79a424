package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/register/internal/core"
)

// withRequestMetadata adds the client IP and User-Agent to ctx for the
// audit trail.
func withRequestMetadata(r *http.Request) context.Context {
	return core.WithRequester(r.Context(), core.Requester{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	})
}

// clientIP returns RemoteAddr without its port. TrustedRealIP has already
// replaced it with the forwarded address when the proxy is trusted.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
