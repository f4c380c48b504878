package dashboard

import (
	"net/http"
	"net/url"

	"github.com/albin6/authdeck/session"
)

// RequireAuth guards protected routes with the controller's state.
// While the session is still Unknown it renders a neutral loading page
// and makes no navigation decision; once resolved, anonymous viewers
// are redirected to the login entry point with the originally requested
// location preserved, and authenticated viewers pass through unmodified.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.ctrl.Snapshot()
		switch sess.State {
		case session.StateUnknown:
			w.Header().Set("Retry-After", "1")
			s.render(w, http.StatusOK, "loading", nil)
		case session.StateAnonymous:
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// safeNext validates a post-login return target. Only same-site
// absolute paths are accepted, so the redirect can't leave the
// dashboard.
func safeNext(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || len(u.Path) == 0 || u.Path[0] != '/' {
		return "/"
	}
	return u.RequestURI()
}
