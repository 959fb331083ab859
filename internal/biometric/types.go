package biometric

import (
	"context"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"
)

// ExtractOpts selects which stages of the inference pipeline run on a frame.
type ExtractOpts struct {
	AntiSpoofing bool
	Embed        bool
}

// Extraction is the per-frame output of the face inference API.
type Extraction struct {
	FaceFound      bool          `json:"face_found"`
	Embedding      models.Vector `json:"embedding"`
	IsReal         bool          `json:"is_real"`
	AntispoofScore float64       `json:"antispoof_score"` // 0 = certainly live, 1 = certainly spoofed
}

// Extractor turns a raw frame into an embedding plus liveness signals.
type Extractor interface {
	Extract(ctx context.Context, image []byte, opts ExtractOpts) (*Extraction, error)
}

// Match is a successful nearest-neighbor lookup.
type Match struct {
	OwnerID  string
	Distance float64
}

// Matcher finds the enrolled user closest to a probe embedding. A nil
// Match with nil error means nothing was within the threshold.
type Matcher interface {
	Match(
		ctx context.Context,
		embedding models.Vector,
		o models.Orientation,
		threshold float64,
	) (*Match, error)
}
