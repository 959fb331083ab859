package bootstrap

import (
	"github.com/ahmedXDR/auth-visage-backend/internal/authws"
	"github.com/ahmedXDR/auth-visage-backend/internal/biometric"
	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/handlers"
	"github.com/ahmedXDR/auth-visage-backend/internal/metrics"
	"github.com/ahmedXDR/auth-visage-backend/internal/services"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"
	"github.com/ahmedXDR/auth-visage-backend/internal/token"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	oauth *handlers.OAuthHandler
	ws    *authws.Handler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	db *store.Store,
	gateway *biometric.Gateway,
	oauthService *services.OAuthService,
	signInService *services.SignInService,
	enrollService *services.EnrollmentService,
	trustPolicy *services.TrustPolicy,
	issuer *token.LocalIssuer,
	recorder metrics.Recorder,
) handlerSet {
	return handlerSet{
		oauth: handlers.NewOAuthHandler(
			oauthService,
			signInService,
			issuer,
			cfg,
			recorder,
		),
		ws: authws.NewHandler(authws.Deps{
			Gateway: gateway,
			OAuth:   oauthService,
			SignIn:  signInService,
			Enroll:  enrollService,
			Policy:  trustPolicy,
			Store:   db,
			Metrics: recorder,
		}, issuer),
	}
}
