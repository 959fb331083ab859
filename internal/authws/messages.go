package authws

import (
	"encoding/json"

	"github.com/ahmedXDR/auth-visage-backend/internal/services"
)

// Auth flow types accepted in start_auth.
const (
	AuthTypeRegister = "register"
	AuthTypeLogin    = "login"
	AuthTypeOAuth    = "oauth"
)

// Client → server message types
const (
	MsgStartAuth       = "start_auth"
	MsgStream          = "stream"
	MsgConsentCaptured = "consent_captured"
)

// Server → client message types
const (
	MsgAuthStarted    = "auth_started"
	MsgSetOrientation = "set_orientation"
	MsgCaptureConsent = "capture_consent"
	MsgAuthSuccess    = "auth_success"
	MsgAuthError      = "auth_error"
)

// ClientMessage is the envelope for everything the browser sends.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// StartAuthPayload opens one of the three auth flows.
type StartAuthPayload struct {
	AuthType       string `json:"auth_type"`
	CodeChallenge  string `json:"code_challenge,omitempty"`
	OAuthSessionID string `json:"oauth_session_id,omitempty"`
}

// StreamPayload carries one camera frame. Frame is base64-encoded, with
// or without a data-URL prefix.
type StreamPayload struct {
	Frame       string `json:"frame"`
	Orientation string `json:"orientation"`
}

// ServerMessage is the envelope for everything sent to the browser.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// OrientationPayload prompts the client for a specific pose.
type OrientationPayload struct {
	Orientation string `json:"orientation"`
}

// ProjectInfo is the public project metadata shown on the consent prompt.
type ProjectInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ConsentPayload asks the user to approve a project.
type ConsentPayload struct {
	Project ProjectInfo `json:"project"`
}

// SuccessPayload closes a flow. Exactly one of the optional fields is
// set, depending on the auth type.
type SuccessPayload struct {
	UserID   string              `json:"user_id,omitempty"`   // register
	Tokens   *services.TokenPair `json:"tokens,omitempty"`    // login
	AuthCode string              `json:"auth_code,omitempty"` // oauth
}

// ErrorPayload reports a soft or fatal flow error.
type ErrorPayload struct {
	Error string `json:"error"`
}
