package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/auth"
	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/service"
	"github.com/Tobak95/Royal-Shades-Autos-Backend/pkg/health"
	"github.com/Tobak95/Royal-Shades-Autos-Backend/pkg/middleware"
)

// NewRouter creates a chi router with all account service routes registered.
func NewRouter(
	accountService *service.AccountService,
	issuer *auth.Issuer,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("account"))

	// Root ping and operational endpoints
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, response{
			Data: map[string]string{"service": "royal-shades-autos-backend", "status": "running"},
		})
	})
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Auth endpoints (public)
	authHandler := NewAuthHandler(accountService, logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/verify-email/{token}", authHandler.VerifyEmail)
		r.Post("/login", authHandler.Login)
		r.Post("/resend-verification-email", authHandler.ResendVerification)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Patch("/change-password", authHandler.ChangePassword)
	})

	// Token validator bridging the session issuer to the auth middleware.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := issuer.Verify(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			AccountID: claims.AccountID,
			Email:     claims.Email,
		}, nil
	}

	// Account endpoints (auth required)
	accountHandler := NewAccountHandler(accountService, logger)
	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/me", accountHandler.Me)
	})

	return r
}
