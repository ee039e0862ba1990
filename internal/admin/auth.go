// Package admin issues the bearer tokens that guard the listing endpoints.
package admin

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wolfman30/portfolio-api/internal/http/render"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

const defaultTokenTTL = 12 * time.Hour

var (
	// ErrInvalidCredentials is returned when either credential does not match.
	ErrInvalidCredentials = errors.New("admin: invalid credentials")
	// ErrNotConfigured is returned when no admin account or signing secret is set.
	ErrNotConfigured = errors.New("admin: login not configured")
)

// Config holds the single admin account and token settings.
type Config struct {
	Username string
	Password string
	Secret   string
	TTL      time.Duration
}

// Authenticator checks credentials and signs HS256 tokens.
type Authenticator struct {
	cfg Config
	now func() time.Time
}

func NewAuthenticator(cfg Config) *Authenticator {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTokenTTL
	}
	return &Authenticator{cfg: cfg, now: time.Now}
}

// Token is a signed admin bearer token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login compares both credentials in constant time and returns a token
// whose subject is the username.
func (a *Authenticator) Login(username, password string) (*Token, error) {
	if a.cfg.Username == "" || a.cfg.Password == "" || a.cfg.Secret == "" {
		return nil, ErrNotConfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.cfg.Password))
	if userOK&passOK != 1 {
		return nil, ErrInvalidCredentials
	}

	now := a.now().UTC()
	expires := now.Add(a.cfg.TTL)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.Secret))
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: signed, TokenType: "bearer", ExpiresAt: expires}, nil
}

// Handler serves POST /admin/login.
type Handler struct {
	auth   *Authenticator
	logger *logging.Logger
}

func NewHandler(auth *Authenticator, logger *logging.Logger) *Handler {
	if auth == nil {
		panic("admin: authenticator required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{auth: auth, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	return r
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.BadRequest(w, err)
		return
	}
	token, err := h.auth.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		h.logger.Warn("admin login rejected", "username", req.Username, "remote_ip", r.RemoteAddr)
		render.Error(w, http.StatusUnauthorized, "invalid username or password")
		return
	case errors.Is(err, ErrNotConfigured):
		render.Error(w, http.StatusServiceUnavailable, "admin login is not configured")
		return
	case err != nil:
		h.logger.Error("admin token signing failed", "error", err)
		render.Error(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	h.logger.Info("admin logged in", "username", req.Username)
	render.JSON(w, http.StatusOK, token)
}
