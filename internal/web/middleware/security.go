package middleware

import "net/http"

// reportCSP allows the inline styles and scripts the pages and reports
// carry. frame-ancestors 'self' lets the main page embed reports.
const reportCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'self'"

// SecurityHeaders sets hardening headers on every response. Framing is
// limited to same origin since reports are shown in an iframe.
func SecurityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", reportCSP)
			}
			next.ServeHTTP(w, r)
		})
	}
}
