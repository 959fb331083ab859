package authws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/biometric"
	"github.com/ahmedXDR/auth-visage-backend/internal/metrics"
	"github.com/ahmedXDR/auth-visage-backend/internal/models"
	"github.com/ahmedXDR/auth-visage-backend/internal/services"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"

	"github.com/google/uuid"
)

// State of one websocket connection's auth flow.
type State int

const (
	StateIdle State = iota
	StateAwaitingFrame
	StateAwaitingConsent
	StateTerminated
)

// Sender delivers server messages to the connection. Writes after the
// connection closed may fail; the session ignores those errors.
type Sender interface {
	Send(msg *ServerMessage) error
}

// Deps bundles everything a connection session needs.
type Deps struct {
	Gateway *biometric.Gateway
	OAuth   *services.OAuthService
	SignIn  *services.SignInService
	Enroll  *services.EnrollmentService
	Policy  *services.TrustPolicy
	Store   *store.Store
	Metrics metrics.Recorder
}

// Session is the per-connection state machine. It is mutated only by the
// connection's handler goroutine; messages are processed sequentially.
type Session struct {
	deps   Deps
	sender Sender

	state  State
	origin string

	// Fixed at connect time; required for the register flow.
	authedUserID string

	authType      string
	codeChallenge string
	oauthSession  *models.OAuthSession

	// register flow
	enrollStep       int
	enrollEmbeddings map[models.Orientation]models.Vector

	// login/oauth flows
	challengeOrientation models.Orientation

	// oauth flow, set once a face matched but consent is missing
	matchedUserID string
}

// NewSession creates the state machine for one connection. authedUserID
// is empty unless the upgrade request carried a valid access token.
func NewSession(deps Deps, sender Sender, origin, authedUserID string) *Session {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNoopMetrics()
	}
	return &Session{
		deps:             deps,
		sender:           sender,
		state:            StateIdle,
		origin:           origin,
		authedUserID:     authedUserID,
		enrollEmbeddings: make(map[models.Orientation]models.Vector),
	}
}

// State exposes the current state for the transport loop and tests.
func (s *Session) State() State {
	return s.state
}

// HandleMessage dispatches one client message. The returned bool tells
// the transport loop to close the connection.
func (s *Session) HandleMessage(ctx context.Context, msg *ClientMessage) (closeConn bool) {
	if s.state == StateTerminated {
		return true
	}

	switch msg.Type {
	case MsgStartAuth:
		return s.handleStartAuth(ctx, msg.Payload)
	case MsgStream:
		return s.handleStream(ctx, msg.Payload)
	case MsgConsentCaptured:
		return s.handleConsentCaptured(ctx)
	default:
		s.sendError("unsupported message type")
		return false
	}
}

func (s *Session) handleStartAuth(ctx context.Context, payload json.RawMessage) bool {
	if s.state != StateIdle {
		s.sendError("auth already started")
		return false
	}

	var p StartAuthPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("invalid start_auth payload")
		return false
	}

	switch p.AuthType {
	case AuthTypeRegister:
		if s.authedUserID == "" {
			s.sendError("authentication required for register")
			return false
		}
		s.enrollStep = 0

	case AuthTypeLogin:
		s.challengeOrientation = randomOrientation()

	case AuthTypeOAuth:
		if p.CodeChallenge == "" {
			s.sendError("code_challenge is required")
			return false
		}
		if _, err := uuid.Parse(p.OAuthSessionID); err != nil {
			s.sendError("invalid oauth_session_id")
			return false
		}
		session, err := s.deps.OAuth.GetSession(ctx, p.OAuthSessionID)
		if err != nil {
			s.sendError("invalid oauth session")
			return false
		}
		// Untrusted origin is fatal: the page cannot recover by retrying.
		if err := s.deps.Policy.ValidateOrigin(s.origin, session.ProjectID); err != nil {
			s.sendError("origin not trusted for project")
			s.state = StateTerminated
			return true
		}
		s.oauthSession = session
		s.codeChallenge = p.CodeChallenge
		s.challengeOrientation = randomOrientation()

	default:
		s.sendError("unknown auth_type")
		return false
	}

	s.authType = p.AuthType
	s.state = StateAwaitingFrame
	s.send(&ServerMessage{Type: MsgAuthStarted})

	// Tell the client which pose to present first.
	switch p.AuthType {
	case AuthTypeRegister:
		s.promptOrientation(models.EnrollmentSequence[0])
	default:
		s.promptOrientation(s.challengeOrientation)
	}
	return false
}

func (s *Session) handleStream(ctx context.Context, payload json.RawMessage) bool {
	if s.state == StateIdle {
		s.sendError("start auth first")
		return false
	}
	if s.state != StateAwaitingFrame {
		s.sendError("not expecting frames")
		return false
	}

	var p StreamPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("invalid stream payload")
		return false
	}

	orientation, ok := parseOrientation(p.Orientation)
	if !ok {
		s.sendError("unrecognized orientation")
		return false
	}

	frame, err := decodeFrame(p.Frame)
	if err != nil {
		s.sendError("invalid image data")
		return false
	}

	start := time.Now()
	extraction, err := s.deps.Gateway.Extract(ctx, frame, biometric.ExtractOpts{
		AntiSpoofing: true,
		Embed:        true,
	})
	elapsed := time.Since(start)
	if err != nil {
		switch {
		case errors.Is(err, biometric.ErrSpoofingDetected):
			s.deps.Metrics.RecordFrameProcessed("spoof", elapsed)
			s.deps.Metrics.RecordAuthFlow(s.authType, "spoof")
			s.sendError("spoofing detected")
			s.state = StateTerminated
			return true
		case errors.Is(err, biometric.ErrNoFaceFound):
			s.deps.Metrics.RecordFrameProcessed("no_face", elapsed)
			s.sendError("no face found")
			return false
		default:
			s.deps.Metrics.RecordFrameProcessed("error", elapsed)
			log.Printf("[AuthWS] frame extraction failed: %v", err)
			s.sendError("face processing unavailable")
			return false
		}
	}
	s.deps.Metrics.RecordFrameProcessed("ok", elapsed)

	switch s.authType {
	case AuthTypeRegister:
		return s.streamRegister(ctx, orientation, extraction)
	case AuthTypeLogin:
		return s.streamLogin(ctx, orientation, extraction)
	case AuthTypeOAuth:
		return s.streamOAuth(ctx, orientation, extraction)
	}
	return false
}

func (s *Session) streamRegister(
	ctx context.Context,
	orientation models.Orientation,
	extraction *biometric.Extraction,
) bool {
	expected := models.EnrollmentSequence[s.enrollStep]
	if orientation != expected {
		// Frame not consumed; re-prompt the expected pose.
		s.promptOrientation(expected)
		return false
	}

	s.enrollEmbeddings[expected] = extraction.Embedding
	s.enrollStep++

	if s.enrollStep < len(models.EnrollmentSequence) {
		s.promptOrientation(models.EnrollmentSequence[s.enrollStep])
		return false
	}

	if err := s.deps.Enroll.SaveFace(ctx, s.authedUserID, s.enrollEmbeddings); err != nil {
		log.Printf("[AuthWS] failed to save enrollment for user %s: %v", s.authedUserID, err)
		s.deps.Metrics.RecordAuthFlow(s.authType, "error")
		s.sendError("failed to save enrollment")
		s.state = StateTerminated
		return true
	}

	s.deps.Metrics.RecordAuthFlow(s.authType, "success")
	s.send(&ServerMessage{
		Type:    MsgAuthSuccess,
		Payload: SuccessPayload{UserID: s.authedUserID},
	})
	s.state = StateTerminated
	return true
}

func (s *Session) streamLogin(
	ctx context.Context,
	orientation models.Orientation,
	extraction *biometric.Extraction,
) bool {
	// Untrusted origin is fatal: first-party tokens are never issued to a
	// page outside the configured login origins.
	if err := s.deps.Policy.ValidateLoginOrigin(s.origin); err != nil {
		s.sendError("origin not trusted for login")
		s.state = StateTerminated
		return true
	}

	if orientation != s.challengeOrientation {
		s.promptOrientation(s.challengeOrientation)
		return false
	}

	match, err := s.deps.Gateway.Match(ctx, extraction.Embedding, s.challengeOrientation)
	if err != nil {
		log.Printf("[AuthWS] face matching failed: %v", err)
		s.sendError("face matching unavailable")
		return false
	}
	s.deps.Metrics.RecordFaceMatch(match != nil)
	if match == nil {
		s.sendError("Face not recognized")
		return false
	}

	tokens, err := s.deps.SignIn.IssueTokens(ctx, match.OwnerID)
	if err != nil {
		log.Printf("[AuthWS] failed to issue sign-in tokens for user %s: %v", match.OwnerID, err)
		s.deps.Metrics.RecordAuthFlow(s.authType, "error")
		s.sendError("failed to issue tokens")
		s.state = StateTerminated
		return true
	}

	s.deps.Metrics.RecordTokenIssued(metrics.FlowSignIn)
	s.deps.Metrics.RecordAuthFlow(s.authType, "success")
	s.send(&ServerMessage{
		Type:    MsgAuthSuccess,
		Payload: SuccessPayload{Tokens: tokens},
	})
	s.state = StateTerminated
	return true
}

func (s *Session) streamOAuth(
	ctx context.Context,
	orientation models.Orientation,
	extraction *biometric.Extraction,
) bool {
	if orientation != s.challengeOrientation {
		s.promptOrientation(s.challengeOrientation)
		return false
	}

	match, err := s.deps.Gateway.Match(ctx, extraction.Embedding, s.challengeOrientation)
	if err != nil {
		log.Printf("[AuthWS] face matching failed: %v", err)
		s.sendError("face matching unavailable")
		return false
	}
	s.deps.Metrics.RecordFaceMatch(match != nil)
	if match == nil {
		s.sendError("Face not recognized")
		return false
	}

	hasConsent, err := s.deps.Policy.HasConsent(ctx, match.OwnerID, s.oauthSession.ProjectID)
	if err != nil {
		log.Printf("[AuthWS] consent lookup failed: %v", err)
		s.sendError("consent lookup failed")
		return false
	}

	if hasConsent {
		return s.issueAuthCode(ctx, match.OwnerID)
	}

	project, err := s.deps.Store.GetProjectByID(s.oauthSession.ProjectID)
	if err != nil {
		log.Printf("[AuthWS] project lookup failed: %v", err)
		s.sendError("project lookup failed")
		s.state = StateTerminated
		return true
	}

	s.matchedUserID = match.OwnerID
	s.send(&ServerMessage{
		Type: MsgCaptureConsent,
		Payload: ConsentPayload{Project: ProjectInfo{
			ID:          project.ID,
			Name:        project.Name,
			Description: project.Description,
		}},
	})
	s.state = StateAwaitingConsent
	return false
}

func (s *Session) handleConsentCaptured(ctx context.Context) bool {
	if s.state != StateAwaitingConsent {
		s.sendError("no consent pending")
		return false
	}
	if s.matchedUserID == "" || s.codeChallenge == "" || s.oauthSession == nil {
		s.sendError("no consent pending")
		return false
	}

	if err := s.deps.Policy.GrantConsent(ctx, s.matchedUserID, s.oauthSession.ProjectID); err != nil {
		log.Printf("[AuthWS] failed to grant consent: %v", err)
		s.sendError("failed to record consent")
		s.state = StateTerminated
		return true
	}

	return s.issueAuthCode(ctx, s.matchedUserID)
}

// issueAuthCode finishes the oauth flow: mints the code and terminates.
func (s *Session) issueAuthCode(ctx context.Context, ownerID string) bool {
	code, err := s.deps.OAuth.CreateAuthCode(
		ctx, ownerID, s.oauthSession.ProjectID, s.codeChallenge,
	)
	if err != nil {
		log.Printf("[AuthWS] failed to create auth code: %v", err)
		s.deps.Metrics.RecordAuthCodeIssued(false)
		s.deps.Metrics.RecordAuthFlow(s.authType, "error")
		s.sendError("failed to create authorization code")
		s.state = StateTerminated
		return true
	}

	s.deps.Metrics.RecordAuthCodeIssued(true)
	s.deps.Metrics.RecordAuthFlow(s.authType, "success")
	s.send(&ServerMessage{
		Type:    MsgAuthSuccess,
		Payload: SuccessPayload{AuthCode: code},
	})
	s.state = StateTerminated
	return true
}

func (s *Session) promptOrientation(o models.Orientation) {
	s.send(&ServerMessage{
		Type:    MsgSetOrientation,
		Payload: OrientationPayload{Orientation: string(o)},
	})
}

func (s *Session) sendError(message string) {
	s.send(&ServerMessage{Type: MsgAuthError, Payload: ErrorPayload{Error: message}})
}

func (s *Session) send(msg *ServerMessage) {
	if err := s.sender.Send(msg); err != nil {
		// Connection already gone; the transport loop will notice.
		log.Printf("[AuthWS] failed to send %s: %v", msg.Type, err)
	}
}

func randomOrientation() models.Orientation {
	return models.EnrollmentSequence[rand.IntN(len(models.EnrollmentSequence))]
}

func parseOrientation(s string) (models.Orientation, bool) {
	switch o := models.Orientation(strings.ToUpper(s)); o {
	case models.OrientationCenter, models.OrientationRight, models.OrientationLeft:
		return o, true
	default:
		return "", false
	}
}

// decodeFrame accepts base64 with or without a data-URL prefix.
func decodeFrame(frame string) ([]byte, error) {
	if idx := strings.Index(frame, ","); idx != -1 && strings.HasPrefix(frame, "data:") {
		frame = frame[idx+1:]
	}
	if frame == "" {
		return nil, errors.New("empty frame")
	}
	data, err := base64.StdEncoding.DecodeString(frame)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(frame)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
