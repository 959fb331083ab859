package biometric

import (
	"context"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"
)

// Gateway is the single entry point the auth flows use for face
// processing: extraction, liveness, and matching behind one API. It owns
// the threshold policy so callers never see raw scores.
type Gateway struct {
	extractor          Extractor
	matcher            Matcher
	matchThreshold     float64
	antispoofThreshold float64
}

// NewGateway wires an extractor and matcher together.
func NewGateway(
	extractor Extractor,
	matcher Matcher,
	matchThreshold, antispoofThreshold float64,
) *Gateway {
	return &Gateway{
		extractor:          extractor,
		matcher:            matcher,
		matchThreshold:     matchThreshold,
		antispoofThreshold: antispoofThreshold,
	}
}

// Extract runs the inference API on a frame and applies the liveness
// policy. A frame is rejected as spoofed when the API flags it as not
// real, or when its antispoof score reaches the threshold.
func (g *Gateway) Extract(
	ctx context.Context,
	image []byte,
	opts ExtractOpts,
) (*Extraction, error) {
	result, err := g.extractor.Extract(ctx, image, opts)
	if err != nil {
		return nil, err
	}
	if !result.FaceFound {
		return nil, ErrNoFaceFound
	}
	if opts.AntiSpoofing {
		if !result.IsReal || result.AntispoofScore >= g.antispoofThreshold {
			return nil, ErrSpoofingDetected
		}
	}
	return result, nil
}

// Match runs the matcher with the gateway's configured threshold.
func (g *Gateway) Match(
	ctx context.Context,
	embedding models.Vector,
	o models.Orientation,
) (*Match, error) {
	return g.matcher.Match(ctx, embedding, o, g.matchThreshold)
}
