package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/portfolio-api/internal/admin"
	"github.com/wolfman30/portfolio-api/internal/connect"
	"github.com/wolfman30/portfolio-api/internal/http/render"
	httpmiddleware "github.com/wolfman30/portfolio-api/internal/http/middleware"
	"github.com/wolfman30/portfolio-api/internal/mentorship"
	"github.com/wolfman30/portfolio-api/internal/payments"
	"github.com/wolfman30/portfolio-api/internal/pitch"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	AppName string
	Logger  *logging.Logger

	MentorshipHandler *mentorship.Handler
	PaymentsHandler   *payments.Handler
	ConnectHandler    *connect.Handler
	PitchHandler      *pitch.Handler
	AdminHandler      *admin.Handler

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimiter guards the public form posts when set.
	RateLimiter httpmiddleware.Limiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	appName := cfg.AppName
	if appName == "" {
		appName = "Portfolio API"
	}
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"message": "Welcome to " + appName})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	adminOnly := httpmiddleware.AdminJWT(cfg.AdminAuthSecret)
	limited := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimiter != nil {
		limited = httpmiddleware.RateLimit(cfg.RateLimiter, cfg.Logger)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.MentorshipHandler != nil {
			api.Mount("/mentorship", cfg.MentorshipHandler.Routes(adminOnly))
		}
		if cfg.PaymentsHandler != nil {
			api.With(limited).Mount("/payment", cfg.PaymentsHandler.Routes())
		}
		if cfg.ConnectHandler != nil {
			api.With(postOnly(limited)).Mount("/connect", cfg.ConnectHandler.Routes(adminOnly))
		}
		if cfg.PitchHandler != nil {
			api.With(postOnly(limited)).Mount("/pitch", cfg.PitchHandler.Routes(adminOnly))
		}
		if cfg.AdminHandler != nil {
			api.With(limited).Mount("/admin", cfg.AdminHandler.Routes())
		}
	})

	return r
}

// postOnly applies mw to POST requests and passes everything else through.
func postOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
