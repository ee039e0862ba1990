package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wolfman30/portfolio-api/pkg/logging"
)

func testAuthenticator() *Authenticator {
	a := NewAuthenticator(Config{Username: "rohit", Password: "s3cret", Secret: "signing-key", TTL: time.Hour})
	a.now = func() time.Time { return time.Now().Add(-time.Minute) }
	return a
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	tok, err := testAuthenticator().Login("rohit", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.TokenType != "bearer" {
		t.Fatalf("unexpected token type %q", tok.TokenType)
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tok.AccessToken, &claims, func(*jwt.Token) (any, error) {
		return []byte("signing-key"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	if claims.Subject != "rohit" {
		t.Fatalf("expected subject rohit, got %q", claims.Subject)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", got)
	}
	if parsed.Method.Alg() != "HS256" {
		t.Fatalf("expected HS256, got %s", parsed.Method.Alg())
	}
}

func TestLoginRequiresBothCredentials(t *testing.T) {
	a := testAuthenticator()
	cases := []struct{ user, pass string }{
		{"rohit", "wrong"},
		{"someone", "s3cret"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := a.Login(tc.user, tc.pass); err != ErrInvalidCredentials {
			t.Fatalf("login(%q, %q): expected ErrInvalidCredentials, got %v", tc.user, tc.pass, err)
		}
	}
}

func TestLoginNotConfigured(t *testing.T) {
	a := NewAuthenticator(Config{Username: "rohit", Password: "s3cret"})
	if _, err := a.Login("rohit", "s3cret"); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if a.cfg.TTL != defaultTokenTTL {
		t.Fatalf("expected default ttl, got %s", a.cfg.TTL)
	}
}

func TestLoginHandler(t *testing.T) {
	h := NewHandler(testAuthenticator(), logging.Discard())

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"ok", `{"username":"rohit","password":"s3cret"}`, http.StatusOK},
		{"wrong password", `{"username":"rohit","password":"nope"}`, http.StatusUnauthorized},
		{"missing field", `{"username":"rohit"}`, http.StatusUnprocessableEntity},
		{"malformed", `{`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if tc.status == http.StatusOK {
				var tok Token
				if err := json.NewDecoder(rec.Body).Decode(&tok); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if tok.AccessToken == "" {
					t.Fatal("expected access token")
				}
			}
		})
	}
}
