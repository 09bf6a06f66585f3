package clientip

import (
	"net"
	"net/http"
	"strings"
)

// forwardedHeaders are consulted in order when proxies are trusted.
var forwardedHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// GetIP returns the normalized client address of r, or "" when none is
// valid. Forwarding headers are only read when trustProxy is set; otherwise
// a client could pick its own rate limit key.
func GetIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, h := range forwardedHeaders {
			v := r.Header.Get(h)
			if v == "" {
				continue
			}
			for ip := range strings.SplitSeq(v, ",") {
				if parsed := parseIP(ip); parsed != "" {
					return parsed
				}
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
