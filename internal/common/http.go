package common

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the host part of the request remote address. Mount chi's
// middleware.RealIP in front so proxies' X-Forwarded-For/X-Real-IP are honoured.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
