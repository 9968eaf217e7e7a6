package jigglerbackend

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/activation/createkey"
	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/activation/validate"
	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/auth/currentuser"
	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/auth/forgotpassword"
	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/auth/login"
	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/auth/logout"
	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/auth/refreshtoken"
	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/auth/register"
	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/auth/resetpassword"
	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/auth/validatetoken"
	"github.com/mousejiggler/jiggler-backend/internal/http/handlers/health"
	newslettersubscribe "github.com/mousejiggler/jiggler-backend/internal/http/handlers/newsletter/subscribe"
	newsletterunsubscribe "github.com/mousejiggler/jiggler-backend/internal/http/handlers/newsletter/unsubscribe"
	subcheckactive "github.com/mousejiggler/jiggler-backend/internal/http/handlers/subscription/checkactive"
	subcurrent "github.com/mousejiggler/jiggler-backend/internal/http/handlers/subscription/current"
	"github.com/mousejiggler/jiggler-backend/internal/http/middlewarectx"
	"github.com/mousejiggler/jiggler-backend/internal/lib/jwt"
	activationservice "github.com/mousejiggler/jiggler-backend/internal/services/activationkey"
	authservice "github.com/mousejiggler/jiggler-backend/internal/services/auth"
	newsletterservice "github.com/mousejiggler/jiggler-backend/internal/services/newsletter"
	subscriptionservice "github.com/mousejiggler/jiggler-backend/internal/services/subscription"
	"github.com/mousejiggler/jiggler-backend/internal/storage/repository"
)

// RegisterRoutes mounts every endpoint on the router.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	db *repository.Storage,
	jwtMaker jwt.Maker,
	authSvc *authservice.AuthService,
	activationSvc *activationservice.ActivationKeyService,
	subscriptionSvc *subscriptionservice.SubscriptionService,
	newsletterSvc *newsletterservice.NewsletterService,
) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(50), 100)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", register.New(logger, authSvc).ServeHTTP)
			r.Post("/login", login.New(logger, authSvc).ServeHTTP)
			r.Post("/refresh-token", refreshtoken.New(logger, authSvc).ServeHTTP)
			r.Post("/forgot-password", forgotpassword.New(logger, authSvc).ServeHTTP)
			r.Post("/reset-password", resetpassword.New(logger, authSvc).ServeHTTP)
			r.Post("/logout", logout.New(logger, authSvc).ServeHTTP)
			r.Post("/validate-token", validatetoken.New(logger, authSvc).ServeHTTP)
			r.Post("/current-user", currentuser.New(logger, authSvc).ServeHTTP)
		})

		r.Route("/activation", func(r chi.Router) {
			// Desktop clients call validate anonymously.
			r.Post("/validate", validate.New(logger, activationSvc).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
				r.Post("/keys", createkey.New(logger, activationSvc).ServeHTTP)
			})
		})

		r.Route("/subscription", func(r chi.Router) {
			r.Post("/current", subcurrent.New(logger, authSvc, subscriptionSvc).ServeHTTP)
			r.Post("/check-active", subcheckactive.New(logger, authSvc, subscriptionSvc).ServeHTTP)
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.Post("/subscribe", newslettersubscribe.New(logger, newsletterSvc).ServeHTTP)
			r.Post("/unsubscribe", newsletterunsubscribe.New(logger, newsletterSvc).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
