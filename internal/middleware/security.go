package middleware

import "net/http"

// SecurityConfig holds configuration for security headers.
type SecurityConfig struct {
	// IsDevelopment disables HSTS in dev environments.
	IsDevelopment bool
	// MaxRequestBodySize is the max allowed request body in bytes.
	MaxRequestBodySize int64
}

// Security returns a middleware that applies security headers to all
// responses. The CSP allows self-hosted styles and images (the page serves
// its own CSS and uploaded listing images) and nothing else; in particular
// no script sources, since the site ships no JavaScript.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-XSS-Protection", "0")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Content-Security-Policy",
				"default-src 'none'; style-src 'self'; img-src 'self'; form-action 'self'; frame-ancestors 'none'")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			if !cfg.IsDevelopment {
				w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}

			if cfg.MaxRequestBodySize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxRequestBodySize)
			}

			next.ServeHTTP(w, r)
		})
	}
}
