// Package dashboard serves the minimal local UI over the auth client:
// a login form, a guarded home screen, API docs, and metrics.
package dashboard

import (
	_ "embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-openapi/runtime/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/albin6/authdeck/session"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Server holds the dependencies needed by the dashboard handlers.
type Server struct {
	ctrl *session.Controller
	log  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// New creates a dashboard server over the given controller.
func New(ctrl *session.Controller, opts ...Option) *Server {
	s := &Server{ctrl: ctrl}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Router returns a chi.Router with all dashboard routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/openapi.yaml",
		Path:    "docs",
	}, nil))
	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/openapi.yaml",
		Path:    "redoc",
	}, nil))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/login", s.loginForm)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.RequireAuth)
		r.Get("/", s.home)
	})

	return r
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	if s.ctrl.Snapshot().IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "login", map[string]any{
		"Next": safeNext(r.URL.Query().Get("next")),
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	creds := session.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	next := safeNext(r.PostFormValue("next"))

	if s.ctrl.Login(r.Context(), creds) {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusUnprocessableEntity, "login", map[string]any{
		"Next":  next,
		"Error": s.ctrl.Snapshot().Err,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	sess := s.ctrl.Snapshot()
	data := map[string]any{
		"Name":  sess.User.DisplayName(),
		"Email": sess.User.Email,
		"Role":  sess.User.Role,
	}
	if exp, err := session.TokenExpiry(sess.Token); err == nil {
		data["Expiry"] = exp.Local().Format(time.RFC1123)
	}
	s.render(w, http.StatusOK, "home", data)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("rendering template failed",
			slog.String("template", name),
			slog.String("error", err.Error()))
	}
}
