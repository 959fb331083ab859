package biometric

import (
	"context"
	"testing"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	extraction *Extraction
	err        error
}

func (s *stubExtractor) Extract(
	ctx context.Context,
	image []byte,
	opts ExtractOpts,
) (*Extraction, error) {
	return s.extraction, s.err
}

type stubMatcher struct {
	match     *Match
	threshold float64
}

func (s *stubMatcher) Match(
	ctx context.Context,
	embedding models.Vector,
	o models.Orientation,
	threshold float64,
) (*Match, error) {
	s.threshold = threshold
	return s.match, nil
}

func TestGatewayExtract_NoFace(t *testing.T) {
	g := NewGateway(&stubExtractor{extraction: &Extraction{FaceFound: false}}, nil, 0.8, 0.7)

	_, err := g.Extract(context.Background(), []byte("frame"), ExtractOpts{Embed: true})
	assert.ErrorIs(t, err, ErrNoFaceFound)
}

func TestGatewayExtract_SpoofByFlag(t *testing.T) {
	g := NewGateway(&stubExtractor{extraction: &Extraction{
		FaceFound: true,
		IsReal:    false,
	}}, nil, 0.8, 0.7)

	_, err := g.Extract(context.Background(), []byte("frame"), ExtractOpts{AntiSpoofing: true})
	assert.ErrorIs(t, err, ErrSpoofingDetected)
}

func TestGatewayExtract_SpoofByScore(t *testing.T) {
	g := NewGateway(&stubExtractor{extraction: &Extraction{
		FaceFound:      true,
		IsReal:         true,
		AntispoofScore: 0.7, // at the threshold counts as spoofed
	}}, nil, 0.8, 0.7)

	_, err := g.Extract(context.Background(), []byte("frame"), ExtractOpts{AntiSpoofing: true})
	assert.ErrorIs(t, err, ErrSpoofingDetected)
}

func TestGatewayExtract_SkipsLivenessWhenDisabled(t *testing.T) {
	g := NewGateway(&stubExtractor{extraction: &Extraction{
		FaceFound: true,
		IsReal:    false,
	}}, nil, 0.8, 0.7)

	result, err := g.Extract(context.Background(), []byte("frame"), ExtractOpts{})
	require.NoError(t, err)
	assert.True(t, result.FaceFound)
}

func TestGatewayMatch_AppliesConfiguredThreshold(t *testing.T) {
	matcher := &stubMatcher{match: &Match{OwnerID: "user", Distance: 0.2}}
	g := NewGateway(nil, matcher, 0.55, 0.7)

	match, err := g.Match(context.Background(), models.Vector{0, 0}, models.OrientationCenter)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, 0.55, matcher.threshold)
}
