package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appconfig "github.com/wolfman30/portfolio-api/internal/config"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		AppName:            "Portfolio API",
		Timezone:           "Asia/Kolkata",
		WorkStartTime:      "10:00",
		WorkEndTime:        "23:00",
		MaxUploadSizeMB:    10,
		StorageDriver:      "memory",
		EmailProvider:      "stub",
		UploadProvider:     "none",
		AWSRegion:          "ap-south-1",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
		AdminJWTSecret:     "secret",
		AdminTokenTTL:      time.Hour,
		RateLimitPerMinute: 30,
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestSetupServesHealthAndMetrics(t *testing.T) {
	handler, cleanup, err := setup(context.Background(), testConfig(), logging.Discard())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer cleanup()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Fatalf("expected runtime collectors to be exported")
	}
}

func TestSetupRejectsUnknownUploadProvider(t *testing.T) {
	cfg := testConfig()
	cfg.UploadProvider = "ftp"
	if _, _, err := setup(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatal("expected setup error")
	}
}
