package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/dmitrymomot/cantera/pkg/auth"
	"github.com/dmitrymomot/cantera/pkg/clientip"
)

// maxKeyLength keeps backend keys short; longer keys are hashed.
const maxKeyLength = 64

// KeyFunc extracts the rate limit key of a request. An empty key skips
// limiting.
type KeyFunc func(*http.Request) string

// Composite joins the non-empty keys of several KeyFuncs.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}

		combined := strings.Join(parts, ":")
		if len(combined) > maxKeyLength {
			hash := sha256.Sum256([]byte(combined))
			return hex.EncodeToString(hash[:16])
		}
		return combined
	}
}

// RemoteAddr keys by client IP, preferring the address resolved by
// clientip.Middleware.
func RemoteAddr(r *http.Request) string {
	ip := clientip.FromContext(r.Context())
	if ip == "" {
		ip = clientip.GetIP(r, false)
	}
	if ip == "" {
		return ""
	}
	return "ip:" + ip
}

// PrincipalKey keys by authenticated user and falls back to the client IP.
func PrincipalKey(r *http.Request) string {
	if p, ok := auth.PrincipalFromContext(r.Context()); ok {
		return "user:" + p.UserID.String()
	}
	return RemoteAddr(r)
}
