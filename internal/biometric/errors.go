package biometric

import "errors"

var (
	// ErrNoFaceFound is returned when the inference API finds no face in
	// the frame. Recoverable: the client may send another frame.
	ErrNoFaceFound = errors.New("no face found in frame")

	// ErrSpoofingDetected is returned when the liveness check fails. This
	// is fatal for the connection that presented the frame.
	ErrSpoofingDetected = errors.New("spoofing detected")

	// ErrInferenceConnection is returned when the face inference API
	// cannot be reached after retries.
	ErrInferenceConnection = errors.New("failed to connect to face inference API")

	// ErrInferenceInvalidResp is returned when the inference API returns
	// an unparseable or incomplete response.
	ErrInferenceInvalidResp = errors.New("invalid response from face inference API")
)
