package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/saferplace/internal/app"
	"github.com/AnshRaj112/saferplace/internal/config"
	"github.com/AnshRaj112/saferplace/internal/device"
	"github.com/AnshRaj112/saferplace/internal/handlers"
	"github.com/AnshRaj112/saferplace/internal/logger"
	"github.com/AnshRaj112/saferplace/internal/middleware"
	"github.com/AnshRaj112/saferplace/internal/realtime"
	"github.com/AnshRaj112/saferplace/internal/routes"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("No .env file found")
	}
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to set up logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log, func(hub *realtime.Hub) device.Device {
		return device.NewBridge(hub)
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to start")
	}
	defer a.Close()

	go a.Session.Relay(ctx, a.Hub)

	if a.Redis != nil {
		relay := realtime.NewRedisRelay(a.Hub, a.Redis, logger.Component(log, "relay"))
		stopRelay := relay.Publish(context.Background())
		defer stopRelay()
		go relay.Receive(ctx)
	}

	limits := middleware.NewRateLimits()
	go limits.Run(ctx)

	h := &handlers.Handler{
		Session:   a.Session,
		Contacts:  a.Contacts,
		Alerts:    a.Alerts,
		Toxicity:  a.Toxicity,
		Users:     a.Users,
		Chatbot:   a.Chatbot,
		Quotes:    a.Quotes,
		Emergency: a.Emergency,
		Hub:       a.Hub,
		Log:       logger.Component(log, "http"),

		AllowedOrigins: cfg.AllowedOrigins,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger.Component(log, "http")))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	for _, mw := range middleware.Gateway(limits, cfg.AllowedOrigins) {
		r.Use(mw)
	}
	routes.SetupRoutes(r, h)

	// Loopback only: the gateway holds the session token.
	srv := &http.Server{
		Addr:              net.JoinHostPort("127.0.0.1", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Graceful shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":         srv.Addr,
		"env":          cfg.Environment,
		"secure_store": cfg.SecureStore,
		"redis":        a.Redis != nil,
		"logged_in":    a.Session.IsAuthenticated(),
	}).Info("SaferPlace gateway running")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("Failed to start server")
	}
	log.Info("SaferPlace gateway stopped")
}
