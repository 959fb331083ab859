package biometric

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	retry "github.com/appleboy/go-httpretry"

	"github.com/ahmedXDR/auth-visage-backend/internal/config"
)

// HTTPExtractor calls an external face inference service for embedding
// extraction and anti-spoofing.
type HTTPExtractor struct {
	config      *config.Config
	retryClient *retry.Client
}

// NewHTTPExtractor creates a new HTTP inference API extractor
func NewHTTPExtractor(cfg *config.Config, retryClient *retry.Client) *HTTPExtractor {
	return &HTTPExtractor{
		config:      cfg,
		retryClient: retryClient,
	}
}

type extractRequest struct {
	Image        string `json:"image"` // base64-encoded frame
	AntiSpoofing bool   `json:"anti_spoofing"`
	Embed        bool   `json:"embed"`
}

type extractResponse struct {
	FaceFound      bool      `json:"face_found"`
	Embedding      []float32 `json:"embedding"`
	IsReal         bool      `json:"is_real"`
	AntispoofScore float64   `json:"antispoof_score"`
	Message        string    `json:"message"`
}

// Extract sends the frame to the inference API's /extract endpoint.
func (e *HTTPExtractor) Extract(
	ctx context.Context,
	image []byte,
	opts ExtractOpts,
) (*Extraction, error) {
	reqBody := extractRequest{
		Image:        base64.StdEncoding.EncodeToString(image),
		AntiSpoofing: opts.AntiSpoofing,
		Embed:        opts.Embed,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := e.retryClient.Post(
		ctx,
		e.config.FaceAPIURL+"/extract",
		retry.WithBody("application/json", bytes.NewBuffer(jsonData)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInferenceConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", ErrInferenceInvalidResp)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		return nil, fmt.Errorf(
			"%w: HTTP %d - %s",
			ErrInferenceInvalidResp, resp.StatusCode, bodyPreview,
		)
	}

	var apiResp extractResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInferenceInvalidResp, err)
	}

	if apiResp.FaceFound && opts.Embed && len(apiResp.Embedding) == 0 {
		return nil, fmt.Errorf(
			"%w: API reported face_found=true but returned no embedding",
			ErrInferenceInvalidResp,
		)
	}

	return &Extraction{
		FaceFound:      apiResp.FaceFound,
		Embedding:      apiResp.Embedding,
		IsReal:         apiResp.IsReal,
		AntispoofScore: apiResp.AntispoofScore,
	}, nil
}
