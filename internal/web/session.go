package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/profiler/internal/core"
	"github.com/JonMunkholm/profiler/internal/logging"
	"github.com/JonMunkholm/profiler/internal/web/middleware"
)

// SessionCookie names the cookie that carries the profiler session ID.
const SessionCookie = "profiler_session"

type sessionKey struct{}

// withSession resolves the caller's session, issuing a new cookie when the
// presented one is missing or expired, and adds session and client metadata
// to the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}

		sess := s.service.Session(id)
		if sess.ID != id {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.Session.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ip := r.RemoteAddr
		if addr, ok := middleware.ClientAddr(r.RemoteAddr); ok {
			ip = addr.String()
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		ctx = logging.ContextWithSession(ctx, sess.ID)
		ctx = core.ContextWithClient(ctx, ip, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session attached by withSession.
func sessionFrom(ctx context.Context) *core.Session {
	sess, _ := ctx.Value(sessionKey{}).(*core.Session)
	return sess
}
