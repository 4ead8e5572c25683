// Package app wires configuration, storage and services into one value
// shared by the gateway and the terminal client.
package app

import (
	"context"
	"fmt"

	"github.com/AnshRaj112/saferplace/internal/apiclient"
	"github.com/AnshRaj112/saferplace/internal/config"
	"github.com/AnshRaj112/saferplace/internal/database"
	"github.com/AnshRaj112/saferplace/internal/device"
	"github.com/AnshRaj112/saferplace/internal/logger"
	"github.com/AnshRaj112/saferplace/internal/realtime"
	"github.com/AnshRaj112/saferplace/internal/securestore"
	"github.com/AnshRaj112/saferplace/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// App holds every long-lived component.
type App struct {
	Config *config.Config
	Log    *logrus.Logger
	Hub    *realtime.Hub
	Redis  *redis.Client

	Session   *services.Session
	Contacts  *services.ContactService
	Alerts    *services.AlertService
	Toxicity  *services.ToxicityService
	Users     *services.UserService
	Chatbot   *services.ChatbotService
	Quotes    *services.QuoteService
	Emergency *services.EmergencyButton
}

// DeviceFunc picks the device implementation once the hub exists.
type DeviceFunc func(hub *realtime.Hub) device.Device

// New connects storage, restores any saved session and builds the services.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger, newDevice DeviceFunc) (*App, error) {
	a := &App{Config: cfg, Log: log}
	a.Hub = realtime.NewHub(logger.Component(log, "hub"))

	if cfg.UsesRedis() {
		client, err := database.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			if cfg.SecureStore == "redis" {
				return nil, fmt.Errorf("connect redis: %w", err)
			}
			log.WithError(err).Warn("Redis unavailable, quote cache stays in memory")
		} else {
			a.Redis = client
		}
	}

	store, err := securestore.Open(securestore.Options{
		Backend:       cfg.SecureStore,
		Path:          cfg.SecureStorePath,
		EncryptionKey: cfg.EncryptionKey,
		Passphrase:    cfg.StorePassphrase,
		Redis:         a.Redis,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open secure store: %w", err)
	}
	vault := securestore.NewVault(store)

	apiLog := logger.Component(log, "api")
	backend := apiclient.New(cfg.APIBaseURL, cfg.HTTPTimeout,
		apiclient.WithLogger(apiLog),
		apiclient.WithTokenSource(apiclient.TokenFunc(func(ctx context.Context) (string, error) {
			return a.Session.Token(ctx)
		})),
	)
	// Third-party services never see the session token.
	toxicity := apiclient.New(cfg.ToxicityURL, cfg.HTTPTimeout, apiclient.WithLogger(apiLog))
	chatbot := apiclient.New(cfg.ChatbotURL, cfg.HTTPTimeout, apiclient.WithLogger(apiLog))
	quotes := apiclient.New(cfg.QuoteURL, cfg.HTTPTimeout, apiclient.WithLogger(apiLog))

	var cache services.Cache = services.NewMemoryCache()
	if a.Redis != nil {
		cache = services.NewRedisCache(a.Redis)
	}

	dev := newDevice(a.Hub)

	a.Session = services.NewSession(backend, vault, logger.Component(log, "session"))
	a.Contacts = services.NewContactService(backend, a.Session, cfg.MaxContacts, logger.Component(log, "contacts"))
	a.Alerts = services.NewAlertService(a.Session, dev, a.Hub, logger.Component(log, "alerts"))
	a.Toxicity = services.NewToxicityService(toxicity, logger.Component(log, "toxicity"))
	a.Users = services.NewUserService(backend, logger.Component(log, "users"))
	a.Chatbot = services.NewChatbotService(chatbot, a.Session, a.Hub, logger.Component(log, "chatbot"))
	a.Quotes = services.NewQuoteService(quotes, cache, logger.Component(log, "quote"))
	a.Emergency = services.NewEmergencyButton(dev, a.Hub, cfg.EmergencyNumber, cfg.AlarmDuration, logger.Component(log, "emergency"))

	a.Session.OnLogout(a.Chatbot.Reset)

	if err := a.Session.Restore(ctx); err != nil {
		log.WithError(err).Warn("could not restore saved session")
	}
	return a, nil
}

// Close silences the alarm and releases Redis.
func (a *App) Close() {
	if a.Emergency != nil {
		a.Emergency.Close()
	}
	if a.Redis != nil {
		if err := database.DisconnectRedis(); err != nil {
			a.Log.WithError(err).Warn("redis close failed")
		}
		a.Redis = nil
	}
}
