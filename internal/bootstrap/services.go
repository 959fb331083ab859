package bootstrap

import (
	"fmt"

	"github.com/ahmedXDR/auth-visage-backend/internal/biometric"
	"github.com/ahmedXDR/auth-visage-backend/internal/client"
	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"
)

// initializeBiometricGateway builds the face pipeline: the retrying HTTP
// client for the inference API, the extractor on top of it, and the
// nearest-neighbor matcher over enrolled faces.
func initializeBiometricGateway(
	cfg *config.Config,
	db *store.Store,
) (*biometric.Gateway, error) {
	retryClient, err := client.CreateRetryClient(
		cfg.FaceAPIAuthMode,
		cfg.FaceAPIAuthSecret,
		cfg.FaceAPITimeout,
		cfg.FaceAPIInsecureSkipVerify,
		cfg.FaceAPIMaxRetries,
		cfg.FaceAPIRetryDelay,
		cfg.FaceAPIMaxRetryDelay,
		cfg.FaceAPIAuthHeader,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inference API client: %w", err)
	}

	extractor := biometric.NewHTTPExtractor(cfg, retryClient)
	matcher := biometric.NewStoreMatcher(db)

	return biometric.NewGateway(
		extractor,
		matcher,
		cfg.FaceMatchThreshold,
		cfg.AntispoofThreshold,
	), nil
}
