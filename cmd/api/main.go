package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/portfolio-api/cmd/mainconfig"
	"github.com/wolfman30/portfolio-api/internal/admin"
	"github.com/wolfman30/portfolio-api/internal/api/router"
	"github.com/wolfman30/portfolio-api/internal/app/bootstrap"
	"github.com/wolfman30/portfolio-api/internal/calendar"
	appconfig "github.com/wolfman30/portfolio-api/internal/config"
	"github.com/wolfman30/portfolio-api/internal/connect"
	httpmiddleware "github.com/wolfman30/portfolio-api/internal/http/middleware"
	"github.com/wolfman30/portfolio-api/internal/mentorship"
	"github.com/wolfman30/portfolio-api/internal/notify"
	"github.com/wolfman30/portfolio-api/internal/observability/metrics"
	"github.com/wolfman30/portfolio-api/internal/payments"
	"github.com/wolfman30/portfolio-api/internal/pitch"
	"github.com/wolfman30/portfolio-api/internal/schedule"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

func main() {
	// A local .env is optional.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting portfolio API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"storage", cfg.StorageDriver,
		"email", cfg.EmailProvider,
	)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	handler, cleanup, err := setup(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setup wires every service behind the router. The returned cleanup closes
// database and cache connections.
func setup(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("load AWS config: %w", err)
	}

	stores, err := bootstrap.BuildStores(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	uploader, err := bootstrap.BuildUploader(cfg, awsCfg, logger)
	if err != nil {
		stores.Close(ctx)
		return nil, nil, err
	}
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		stores.Close(context.Background())
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)

	operator := cfg.EmailFrom
	if operator == "" {
		operator = cfg.EmailUsername
	}
	mailer := notify.NewService(bootstrap.BuildEmailSender(cfg, awsCfg, logger), nil, operator, logger)

	razorpay := payments.NewRazorpayClient(payments.RazorpayConfig{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		BaseURL:   cfg.RazorpayBaseURL,
	}, logger)
	verifier := payments.NewVerifier(razorpay)

	calendarCfg := calendar.Config{CalendarID: cfg.GoogleCalendarID, Timezone: cfg.Timezone}
	scheduler := calendar.NewScheduler(calendar.NewGoogleClient(calendar.GoogleConfig{
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		Endpoint:           cfg.GoogleCalendarEndpoint,
	}), calendarCfg, logger)

	mentorshipSvc, err := mentorship.NewService(mentorship.Config{
		Timezone:      cfg.Timezone,
		WorkStart:     cfg.WorkStartTime,
		WorkEnd:       cfg.WorkEndTime,
		PlatformName:  cfg.PlatformName,
		OperatorEmail: operator,
	}, mentorship.Dependencies{
		Verifier:  verifier,
		Scheduler: scheduler,
		Busy:      scheduler.Busy(),
		Repo:      stores.Mentorships,
		Mailer:    mailer,
		Metrics:   bookingMetrics,
	}, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	connectSvc := connect.NewService(stores.Connects, mailer, operator, bookingMetrics, logger)
	pitchSvc := pitch.NewService(stores.Pitches, uploader, mailer, operator,
		schedule.Location(cfg.Timezone), bookingMetrics, logger)

	var limiter httpmiddleware.Limiter
	perSecond := float64(cfg.RateLimitPerMinute) / 60
	switch {
	case cfg.RateLimitPerMinute <= 0:
	case redisClient != nil:
		limiter = httpmiddleware.NewRedisLimiter(redisClient, cfg.RateLimitPerMinute, time.Minute)
	default:
		limiter = httpmiddleware.NewRateLimiter(perSecond, cfg.RateLimitPerMinute)
	}

	handler := router.New(&router.Config{
		AppName:           cfg.AppName,
		Logger:            logger,
		MentorshipHandler: mentorship.NewHandler(mentorshipSvc, logger),
		PaymentsHandler:   payments.NewHandler(razorpay, verifier, logger),
		ConnectHandler:    connect.NewHandler(connectSvc, logger),
		PitchHandler:      pitch.NewHandler(pitchSvc, cfg.MaxUploadBytes(), logger),
		AdminHandler: admin.NewHandler(admin.NewAuthenticator(admin.Config{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
			Secret:   cfg.AdminJWTSecret,
			TTL:      cfg.AdminTokenTTL,
		}), logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
	})
	return handler, cleanup, nil
}
