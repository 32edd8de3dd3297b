package analytics

import (
	"net/http"
	"strings"
)

// ClientIP extracts the originating client address from a request,
// preferring proxy headers over the socket address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// UserAgent extracts the client user agent from a request.
func UserAgent(r *http.Request) string {
	return r.UserAgent()
}
