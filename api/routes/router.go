package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/artorders/artorders-backend/api/controllers"
	"github.com/artorders/artorders-backend/api/middleware"
	"github.com/artorders/artorders-backend/internal/auth"
	"github.com/artorders/artorders-backend/internal/masterpieces"
	"github.com/artorders/artorders-backend/internal/notifications"
	"github.com/artorders/artorders-backend/internal/offers"
	"github.com/artorders/artorders-backend/internal/orders"
	"github.com/artorders/artorders-backend/internal/reports"
	"github.com/artorders/artorders-backend/internal/tags"
	"github.com/artorders/artorders-backend/internal/users"
	"github.com/artorders/artorders-backend/pkg/auth/session"
	"github.com/artorders/artorders-backend/pkg/config"
	"github.com/artorders/artorders-backend/pkg/db"
	"github.com/artorders/artorders-backend/pkg/enums"
	"github.com/artorders/artorders-backend/pkg/logger"
	"github.com/artorders/artorders-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	usersService users.Service,
	ordersService orders.Service,
	offersService offers.Service,
	masterpiecesService masterpieces.Service,
	tagsService tags.Service,
	reportsService reports.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
	})

	// Gallery browsing needs no account.
	r.Route("/api/public/v1/gallery", func(r chi.Router) {
		r.Get("/", controllers.MasterpieceGallery(masterpiecesService, logg))
		r.Get("/{masterpieceId}", controllers.MasterpieceDetail(masterpiecesService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Post("/v1/auth/logout", controllers.AuthLogout(authService, logg))

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Post("/", controllers.OrderCreate(ordersService, logg))
			r.With(middleware.RequireRole(enums.RoleArtist, logg)).Get("/accepted", controllers.OrderListAccepted(ordersService, logg))
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.OrderDetail(ordersService, logg))
				r.Patch("/", controllers.OrderUpdate(ordersService, logg))
				r.Delete("/", controllers.OrderDelete(ordersService, logg))
				r.Get("/offers", controllers.OfferListForOrder(offersService, logg))
				r.With(middleware.RequireRole(enums.RoleArtist, logg)).Post("/offers", controllers.OfferCreate(offersService, logg))
			})
		})

		r.Route("/v1/offers", func(r chi.Router) {
			r.Get("/", controllers.OfferList(offersService, logg))
			r.Route("/{offerId}", func(r chi.Router) {
				r.Patch("/", controllers.OfferUpdateFee(offersService, logg))
				r.Post("/accept", controllers.OfferAccept(offersService, logg))
				r.Post("/decline", controllers.OfferDecline(offersService, logg))
				r.Post("/request-changes", controllers.OfferRequestChanges(offersService, logg))
			})
		})

		r.Route("/v1/masterpieces", func(r chi.Router) {
			r.Get("/", controllers.MasterpieceList(masterpiecesService, logg))
			r.With(middleware.RequireRole(enums.RoleArtist, logg)).Post("/", controllers.MasterpieceCreate(masterpiecesService, logg))
			r.Route("/{masterpieceId}", func(r chi.Router) {
				r.Get("/", controllers.MasterpieceDetail(masterpiecesService, logg))
				r.Patch("/", controllers.MasterpieceUpdate(masterpiecesService, logg))
				r.Post("/rate", controllers.MasterpieceRate(masterpiecesService, logg))
				r.Post("/decline", controllers.MasterpieceDecline(masterpiecesService, logg))
			})
		})

		r.Route("/v1/tags", func(r chi.Router) {
			r.Get("/", controllers.TagList(tagsService, logg))
		})

		r.Route("/v1/reports", func(r chi.Router) {
			r.Get("/", controllers.ReportList(reportsService, logg))
			r.Post("/", controllers.ReportCreate(reportsService, logg))
		})

		r.Route("/v1/users", func(r chi.Router) {
			r.Get("/{userId}", controllers.UserDetail(usersService, logg))
			r.Get("/{userId}/stats", controllers.UserArtistStats(usersService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(notificationsService, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(notificationsService, logg))
		})
	})

	return r
}
