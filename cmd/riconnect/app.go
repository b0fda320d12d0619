package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"riconnect/config"
	"riconnect/internal/adapters/auth"
	"riconnect/internal/adapters/calendar"
	"riconnect/internal/adapters/catalog"
	"riconnect/internal/adapters/chat"
	"riconnect/internal/adapters/geocode"
	"riconnect/internal/adapters/i18n"
	"riconnect/internal/adapters/media"
	"riconnect/internal/adapters/riconnect"
	"riconnect/internal/adapters/securestore"
	"riconnect/internal/domain"
	"riconnect/internal/services"
	"riconnect/internal/state"
)

// app holds the wired client. Every command builds one from the loaded config.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	verifier   domain.TokenVerifier
	translator *i18n.Translator
	calendar   domain.CalendarExporter
	states     *state.Registry

	feed        domain.FeedService
	filters     domain.FilterService
	clubs       domain.ClubService
	attendance  domain.AttendanceService
	leaderboard domain.LeaderboardService
	auth        domain.AuthService
	chat        domain.ChatService

	redis *redis.Client
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	api := riconnect.NewClient(httpClient, riconnect.Endpoints{
		Events: cfg.EventAPIURL,
		Users:  cfg.UserAPIURL,
		Clubs:  cfg.ClubAPIURL,
	})

	a := &app{
		cfg:        cfg,
		logger:     logger,
		verifier:   auth.NewJWTVerifier(cfg.JWTSecret),
		translator: i18n.NewTranslator(cfg.DefaultLocale, logger),
		calendar:   calendar.NewICSExporter(""),
		states:     state.NewRegistry(),
	}

	var geocoder domain.Geocoder = geocode.NewNominatim(httpClient, cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderRPS)
	if cfg.RedisURL != "" {
		rdb, err := geocode.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
		geocoder = geocode.NewCachedGeocoder(geocoder, rdb, cfg.GeocodeCacheTTL, logger)
	}
	enricher := services.NewEnricher(geocoder, cfg.GeocodeConcurrency, logger)

	// A nil interface, not a typed nil, marks "no secure storage".
	var store domain.SecureStore
	if cfg.SecureStorePassphrase != "" {
		fs, err := securestore.Open(cfg.SecureStorePath, cfg.SecureStorePassphrase)
		if err != nil {
			return nil, fmt.Errorf("open secure store: %w", err)
		}
		store = fs
	} else {
		logger.Warn("SECURE_STORE_PASSPHRASE not set; login sessions will not be persisted")
	}

	cat, err := catalog.Load(cfg.FilterCatalogPath)
	if err != nil {
		return nil, err
	}

	a.feed = services.NewFeedService(api, enricher, logger, cfg.RequestTimeout)
	a.filters = services.NewFilterService(cat, a.states)
	a.clubs = services.NewClubService(api, enricher, logger, cfg.RequestTimeout)
	a.attendance = services.NewAttendanceService(
		api,
		api,
		a.states,
		services.NewProximityGate(cfg.ProximityRadiusMeters),
		media.NewJPEGProcessor(0),
		media.NewUploadcare(httpClient, cfg.UploadURL, cfg.UploadCDNURL, cfg.UploadPublicKey),
		media.NewQREncoder(0),
		services.AttendanceConfig{
			JoinLimit: cfg.JoinLimit,
			Points: domain.PointsSchedule{
				Join:   cfg.PointsJoin,
				Unjoin: cfg.PointsUnjoin,
				Share:  cfg.PointsShare,
				Photo:  cfg.PointsPhoto,
			},
			ShareBaseURL: cfg.ShareBaseURL,
			Timeout:      cfg.RequestTimeout,
		},
		logger,
	)
	a.leaderboard = services.NewLeaderboardService(api, cfg.RequestTimeout)
	a.auth = services.NewAuthService(api, store, a.verifier, a.states, logger, cfg.RequestTimeout)
	a.chat = services.NewChatService(chat.NewClient(cfg.ChatWSURL, logger), a.verifier)
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", "err", err)
		}
	}
}
