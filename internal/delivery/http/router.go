package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "riconnect/docs"
	"riconnect/internal/delivery/http/controllers"
	"riconnect/internal/delivery/http/middleware"
	"riconnect/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Feed        *controllers.FeedController
	Filters     *controllers.FilterController
	Events      *controllers.EventController
	Clubs       *controllers.ClubController
	Leaderboard *controllers.LeaderboardController
	Auth        *controllers.AuthController
}

// RouterOptions configures the cross-cutting guards of the router.
type RouterOptions struct {
	CORSOrigins []string
	// DeviceKey unlocks the routes that read or replace the stored session.
	DeviceKey string
}

// NewRouter initializes the HTTP router with all application routes, wrapped in
// CORS and request logging.
func NewRouter(c Controllers, verifier domain.TokenVerifier, opts RouterOptions, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	device := middleware.RequireDeviceKey(opts.DeviceKey, opts.CORSOrigins, logger)

	// Feeds
	mux.HandleFunc("GET /feed/home", auth(c.Feed.Home))
	mux.HandleFunc("GET /feed/mine", auth(c.Feed.Mine))
	mux.HandleFunc("GET /feed/mine.ics", auth(c.Feed.MineCalendar))
	mux.HandleFunc("GET /clubs/nearby", auth(c.Clubs.Nearby))
	mux.HandleFunc("GET /clubs/{clubID}/events", c.Feed.Club)

	// Filters
	mux.HandleFunc("GET /filters/catalog", c.Filters.Catalog)
	mux.HandleFunc("GET /filters", auth(c.Filters.Get))
	mux.HandleFunc("PUT /filters", auth(c.Filters.Replace))
	mux.HandleFunc("PATCH /filters", auth(c.Filters.Update))
	mux.HandleFunc("DELETE /filters", auth(c.Filters.Clear))

	// Events
	mux.HandleFunc("GET /events/joined", auth(c.Events.Joined))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Events.Details))
	mux.HandleFunc("POST /events/{eventID}/join", auth(c.Events.Join))
	mux.HandleFunc("POST /events/{eventID}/leave", auth(c.Events.Leave))
	mux.HandleFunc("POST /events/{eventID}/share", auth(c.Events.Share))
	mux.HandleFunc("POST /events/{eventID}/photo", auth(c.Events.SubmitPhoto))

	mux.HandleFunc("GET /leaderboard", auth(c.Leaderboard.List))

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login/request", c.Auth.RequestLogin)
	mux.HandleFunc("POST /auth/login/validate", device(c.Auth.ValidateLogin))
	mux.HandleFunc("POST /auth/token", device(c.Auth.Token))
	mux.HandleFunc("POST /auth/logout", device(c.Auth.Logout))
	mux.HandleFunc("GET /auth/onboarding", device(c.Auth.Onboarding))
	mux.HandleFunc("POST /auth/onboarding", device(c.Auth.CompleteOnboarding))
	mux.HandleFunc("POST /auth/password/request", c.Auth.RequestPasswordChange)
	mux.HandleFunc("POST /auth/password/validate", c.Auth.ValidatePasswordChange)
	mux.HandleFunc("POST /auth/password/confirm", c.Auth.ConfirmPasswordChange)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(logger, middleware.CORS(opts.CORSOrigins, mux))
}
