package authws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/biometric"
	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/models"
	"github.com/ahmedXDR/auth-visage-backend/internal/services"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"
	"github.com/ahmedXDR/auth-visage-backend/internal/token"
	"github.com/ahmedXDR/auth-visage-backend/internal/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVerifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"

// fakeExtractor returns a canned extraction, standing in for the
// inference API.
type fakeExtractor struct {
	extraction *biometric.Extraction
	err        error
}

func (f *fakeExtractor) Extract(
	ctx context.Context,
	image []byte,
	opts biometric.ExtractOpts,
) (*biometric.Extraction, error) {
	return f.extraction, f.err
}

// fakeSender records every server message.
type fakeSender struct {
	messages []*ServerMessage
}

func (f *fakeSender) Send(msg *ServerMessage) error {
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeSender) last() *ServerMessage {
	if len(f.messages) == 0 {
		return nil
	}
	return f.messages[len(f.messages)-1]
}

func (f *fakeSender) lastOfType(msgType string) *ServerMessage {
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].Type == msgType {
			return f.messages[i]
		}
	}
	return nil
}

type testEnv struct {
	store     *store.Store
	extractor *fakeExtractor
	sender    *fakeSender
	deps      Deps
	oauth     *services.OAuthService
	signin    *services.SignInService
	enroll    *services.EnrollmentService
	policy    *services.TrustPolicy
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)

	cfg := &config.Config{
		BaseURL:             "http://localhost:8080",
		JWTSecret:           "test-secret-for-unit-tests-only",
		JWTExpiration:       time.Hour,
		RefreshCookieMaxAge: 720 * time.Hour,
		FaceMatchThreshold:  0.8,
		AntispoofThreshold:  0.7,
	}

	issuer := token.NewLocalIssuer(cfg)
	policy := services.NewTrustPolicy(s, []string{"https://app.example.com"})
	oauthSvc := services.NewOAuthService(s, cfg, issuer, policy)
	signinSvc := services.NewSignInService(s, cfg, issuer)
	enrollSvc := services.NewEnrollmentService(s)

	extractor := &fakeExtractor{
		extraction: &biometric.Extraction{
			FaceFound: true,
			Embedding: models.Vector{0.1, 0.2, 0.3},
			IsReal:    true,
		},
	}
	gateway := biometric.NewGateway(
		extractor,
		biometric.NewStoreMatcher(s),
		cfg.FaceMatchThreshold,
		cfg.AntispoofThreshold,
	)

	return &testEnv{
		store:     s,
		extractor: extractor,
		sender:    &fakeSender{},
		deps: Deps{
			Gateway: gateway,
			OAuth:   oauthSvc,
			SignIn:  signinSvc,
			Enroll:  enrollSvc,
			Policy:  policy,
			Store:   s,
		},
		oauth:  oauthSvc,
		signin: signinSvc,
		enroll: enrollSvc,
		policy: policy,
	}
}

func (e *testEnv) newSession(t *testing.T, origin, authedUserID string) *Session {
	t.Helper()
	return NewSession(e.deps, e.sender, origin, authedUserID)
}

func (e *testEnv) createProject(t *testing.T, origin string) *models.Project {
	t.Helper()
	project := &models.Project{
		ID:          uuid.New().String(),
		Name:        "Test Project",
		Description: "Integration test project",
		RedirectURL: "https://app.example.com/callback",
		IsActive:    true,
	}
	_, err := project.GenerateAPIKey()
	require.NoError(t, err)
	require.NoError(t, e.store.CreateProject(project))
	require.NoError(t, e.store.AddTrustedOrigin(project.ID, origin))
	return project
}

func (e *testEnv) enrollUser(t *testing.T, embedding models.Vector) string {
	t.Helper()
	userID := uuid.New().String()
	require.NoError(t, e.enroll.SaveFace(context.Background(), userID,
		map[models.Orientation]models.Vector{
			models.OrientationCenter: embedding,
			models.OrientationRight:  embedding,
			models.OrientationLeft:   embedding,
		}))
	return userID
}

func startAuth(t *testing.T, s *Session, p StartAuthPayload) bool {
	t.Helper()
	payload, err := json.Marshal(p)
	require.NoError(t, err)
	return s.HandleMessage(context.Background(), &ClientMessage{
		Type:    MsgStartAuth,
		Payload: payload,
	})
}

func streamFrame(t *testing.T, s *Session, orientation models.Orientation) bool {
	t.Helper()
	payload, err := json.Marshal(StreamPayload{
		Frame:       base64.StdEncoding.EncodeToString([]byte("frame-bytes")),
		Orientation: string(orientation),
	})
	require.NoError(t, err)
	return s.HandleMessage(context.Background(), &ClientMessage{
		Type:    MsgStream,
		Payload: payload,
	})
}

// promptedOrientation reads the pose the server last asked for.
func promptedOrientation(t *testing.T, sender *fakeSender) models.Orientation {
	t.Helper()
	msg := sender.lastOfType(MsgSetOrientation)
	require.NotNil(t, msg)
	payload, ok := msg.Payload.(OrientationPayload)
	require.True(t, ok)
	return models.Orientation(payload.Orientation)
}

// ============================================================
// Message ordering
// ============================================================

func TestStreamBeforeStart(t *testing.T) {
	env := setupEnv(t)
	session := env.newSession(t, "https://app.example.com", "")

	closed := streamFrame(t, session, models.OrientationCenter)

	assert.False(t, closed)
	assert.Equal(t, StateIdle, session.State())
	require.Equal(t, MsgAuthError, env.sender.last().Type)
}

func TestStartAuthTwice(t *testing.T) {
	env := setupEnv(t)
	session := env.newSession(t, "https://app.example.com", "")

	startAuth(t, session, StartAuthPayload{AuthType: AuthTypeLogin})
	closed := startAuth(t, session, StartAuthPayload{AuthType: AuthTypeLogin})

	assert.False(t, closed)
	assert.Equal(t, MsgAuthError, env.sender.last().Type)
}

func TestUnknownMessageType(t *testing.T) {
	env := setupEnv(t)
	session := env.newSession(t, "https://app.example.com", "")

	closed := session.HandleMessage(context.Background(), &ClientMessage{Type: "ping"})

	assert.False(t, closed)
	assert.Equal(t, MsgAuthError, env.sender.last().Type)
}

// ============================================================
// Register flow
// ============================================================

func TestRegisterRequiresAuthentication(t *testing.T) {
	env := setupEnv(t)
	session := env.newSession(t, "https://app.example.com", "")

	closed := startAuth(t, session, StartAuthPayload{AuthType: AuthTypeRegister})

	assert.False(t, closed)
	assert.Equal(t, StateIdle, session.State())
	assert.Equal(t, MsgAuthError, env.sender.last().Type)
}

func TestRegisterFlow(t *testing.T) {
	env := setupEnv(t)
	userID := uuid.New().String()
	session := env.newSession(t, "https://app.example.com", userID)

	startAuth(t, session, StartAuthPayload{AuthType: AuthTypeRegister})
	assert.Equal(t, StateAwaitingFrame, session.State())
	assert.Equal(t, models.OrientationCenter, promptedOrientation(t, env.sender))

	var closed bool
	for _, o := range models.EnrollmentSequence {
		closed = streamFrame(t, session, o)
	}

	assert.True(t, closed)
	assert.Equal(t, StateTerminated, session.State())

	success := env.sender.lastOfType(MsgAuthSuccess)
	require.NotNil(t, success)
	payload, ok := success.Payload.(SuccessPayload)
	require.True(t, ok)
	assert.Equal(t, userID, payload.UserID)

	face, err := env.store.GetFaceByUserID(userID)
	require.NoError(t, err)
	assert.Equal(t, models.Vector{0.1, 0.2, 0.3}, face.CenterEmbedding)
}

func TestRegisterWrongOrientationReprompts(t *testing.T) {
	env := setupEnv(t)
	session := env.newSession(t, "https://app.example.com", uuid.New().String())

	startAuth(t, session, StartAuthPayload{AuthType: AuthTypeRegister})

	// First expected pose is CENTER; a RIGHT frame is not consumed.
	closed := streamFrame(t, session, models.OrientationRight)
	assert.False(t, closed)
	assert.Equal(t, StateAwaitingFrame, session.State())
	assert.Equal(t, models.OrientationCenter, promptedOrientation(t, env.sender))

	// The sequence still starts from CENTER.
	streamFrame(t, session, models.OrientationCenter)
	assert.Equal(t, models.OrientationRight, promptedOrientation(t, env.sender))
}

// ============================================================
// Login flow
// ============================================================

func TestLoginFlow(t *testing.T) {
	env := setupEnv(t)
	userID := env.enrollUser(t, models.Vector{0.1, 0.2, 0.3})
	session := env.newSession(t, "https://app.example.com", "")

	startAuth(t, session, StartAuthPayload{AuthType: AuthTypeLogin})
	challenge := promptedOrientation(t, env.sender)

	closed := streamFrame(t, session, challenge)

	assert.True(t, closed)
	assert.Equal(t, StateTerminated, session.State())

	success := env.sender.lastOfType(MsgAuthSuccess)
	require.NotNil(t, success)
	payload, ok := success.Payload.(SuccessPayload)
	require.True(t, ok)
	require.NotNil(t, payload.Tokens)
	assert.NotEmpty(t, payload.Tokens.AccessToken)
	assert.NotEmpty(t, payload.Tokens.RefreshToken)

	// The tokens belong to the matched user.
	sessionRow, err := env.store.GetSignInSessionByID(payload.Tokens.SessionID)
	require.NoError(t, err)
	assert.Equal(t, userID, sessionRow.UserID)
}

func TestLoginWrongOrientationReprompts(t *testing.T) {
	env := setupEnv(t)
	env.enrollUser(t, models.Vector{0.1, 0.2, 0.3})
	session := env.newSession(t, "https://app.example.com", "")

	startAuth(t, session, StartAuthPayload{AuthType: AuthTypeLogin})
	challenge := promptedOrientation(t, env.sender)

	wrong := models.OrientationCenter
	if challenge == models.OrientationCenter {
		wrong = models.OrientationRight
	}

	closed := streamFrame(t, session, wrong)
	assert.False(t, closed)
	assert.Equal(t, StateAwaitingFrame, session.State())
	assert.Equal(t, challenge, promptedOrientation(t, env.sender))
}

func TestLoginNoMatchIsSoftError(t *testing.T) {
	env := setupEnv(t)
	env.enrollUser(t, models.Vector{10, 10, 10}) // far from the probe
	session := env.newSession(t, "https://app.example.com", "")

	startAuth(t, session, StartAuthPayload{AuthType: AuthTypeLogin})
	challenge := promptedOrientation(t, env.sender)

	closed := streamFrame(t, session, challenge)

	assert.False(t, closed)
	assert.Equal(t, StateAwaitingFrame, session.State())
	assert.Equal(t, MsgAuthError, env.sender.last().Type)
}

func TestLoginUntrustedOriginIsFatal(t *testing.T) {
	env := setupEnv(t)
	env.enrollUser(t, models.Vector{0.1, 0.2, 0.3})
	session := env.newSession(t, "https://evil.example.com", "")

	startAuth(t, session, StartAuthPayload{AuthType: AuthTypeLogin})
	challenge := promptedOrientation(t, env.sender)

	closed := streamFrame(t, session, challenge)

	assert.True(t, closed)
	assert.Equal(t, StateTerminated, session.State())
	assert.Nil(t, env.sender.lastOfType(MsgAuthSuccess))
	assert.Equal(t, MsgAuthError, env.sender.last().Type)
}

func TestLoginMissingOriginIsFatal(t *testing.T) {
	env := setupEnv(t)
	env.enrollUser(t, models.Vector{0.1, 0.2, 0.3})
	session := env.newSession(t, "", "")

	startAuth(t, session, StartAuthPayload{AuthType: AuthTypeLogin})
	challenge := promptedOrientation(t, env.sender)

	closed := streamFrame(t, session, challenge)

	assert.True(t, closed)
	assert.Equal(t, StateTerminated, session.State())
	assert.Nil(t, env.sender.lastOfType(MsgAuthSuccess))
}

func TestSpoofTerminatesConnection(t *testing.T) {
	env := setupEnv(t)
	env.extractor.extraction = &biometric.Extraction{
		FaceFound:      true,
		Embedding:      models.Vector{0.1, 0.2, 0.3},
		IsReal:         false,
		AntispoofScore: 0.95,
	}
	session := env.newSession(t, "https://app.example.com", "")

	startAuth(t, session, StartAuthPayload{AuthType: AuthTypeLogin})
	challenge := promptedOrientation(t, env.sender)

	closed := streamFrame(t, session, challenge)

	assert.True(t, closed)
	assert.Equal(t, StateTerminated, session.State())
}

func TestNoFaceIsSoftError(t *testing.T) {
	env := setupEnv(t)
	env.extractor.extraction = &biometric.Extraction{FaceFound: false}
	session := env.newSession(t, "https://app.example.com", "")

	startAuth(t, session, StartAuthPayload{AuthType: AuthTypeLogin})
	challenge := promptedOrientation(t, env.sender)

	closed := streamFrame(t, session, challenge)

	assert.False(t, closed)
	assert.Equal(t, StateAwaitingFrame, session.State())
}

// ============================================================
// OAuth flow
// ============================================================

func (e *testEnv) startOAuth(t *testing.T, session *Session, projectID string) bool {
	t.Helper()
	oauthSession, err := e.oauth.CreateSession(
		context.Background(), projectID, "https://app.example.com",
	)
	require.NoError(t, err)
	return startAuth(t, session, StartAuthPayload{
		AuthType:       AuthTypeOAuth,
		CodeChallenge:  util.SHA256Base64URL(testVerifier),
		OAuthSessionID: oauthSession.ID,
	})
}

func TestOAuthFlowWithConsentCapture(t *testing.T) {
	env := setupEnv(t)
	project := env.createProject(t, "https://app.example.com")
	userID := env.enrollUser(t, models.Vector{0.1, 0.2, 0.3})
	session := env.newSession(t, "https://app.example.com", "")

	env.startOAuth(t, session, project.ID)
	challenge := promptedOrientation(t, env.sender)

	closed := streamFrame(t, session, challenge)
	assert.False(t, closed)
	assert.Equal(t, StateAwaitingConsent, session.State())

	consent := env.sender.lastOfType(MsgCaptureConsent)
	require.NotNil(t, consent)
	payload, ok := consent.Payload.(ConsentPayload)
	require.True(t, ok)
	assert.Equal(t, project.ID, payload.Project.ID)
	assert.Equal(t, project.Name, payload.Project.Name)

	closed = session.HandleMessage(context.Background(), &ClientMessage{Type: MsgConsentCaptured})
	assert.True(t, closed)
	assert.Equal(t, StateTerminated, session.State())

	success := env.sender.lastOfType(MsgAuthSuccess)
	require.NotNil(t, success)
	successPayload, ok := success.Payload.(SuccessPayload)
	require.True(t, ok)
	require.NotEmpty(t, successPayload.AuthCode)

	// Consent was recorded and the code is redeemable exactly once.
	has, err := env.policy.HasConsent(context.Background(), userID, project.ID)
	require.NoError(t, err)
	assert.True(t, has)

	ownerID, projectID, err := env.oauth.RedeemCode(
		context.Background(), successPayload.AuthCode, testVerifier,
	)
	require.NoError(t, err)
	assert.Equal(t, userID, ownerID)
	assert.Equal(t, project.ID, projectID)
}

func TestOAuthFlowWithExistingConsent(t *testing.T) {
	env := setupEnv(t)
	project := env.createProject(t, "https://app.example.com")
	userID := env.enrollUser(t, models.Vector{0.1, 0.2, 0.3})
	require.NoError(t, env.policy.GrantConsent(context.Background(), userID, project.ID))
	session := env.newSession(t, "https://app.example.com", "")

	env.startOAuth(t, session, project.ID)
	challenge := promptedOrientation(t, env.sender)

	closed := streamFrame(t, session, challenge)

	assert.True(t, closed)
	success := env.sender.lastOfType(MsgAuthSuccess)
	require.NotNil(t, success)
	payload, ok := success.Payload.(SuccessPayload)
	require.True(t, ok)
	assert.NotEmpty(t, payload.AuthCode)
	assert.Nil(t, env.sender.lastOfType(MsgCaptureConsent))
}

func TestOAuthRequiresCodeChallenge(t *testing.T) {
	env := setupEnv(t)
	session := env.newSession(t, "https://app.example.com", "")

	closed := startAuth(t, session, StartAuthPayload{
		AuthType:       AuthTypeOAuth,
		OAuthSessionID: uuid.New().String(),
	})

	assert.False(t, closed)
	assert.Equal(t, StateIdle, session.State())
}

func TestOAuthInvalidSessionID(t *testing.T) {
	env := setupEnv(t)
	session := env.newSession(t, "https://app.example.com", "")

	closed := startAuth(t, session, StartAuthPayload{
		AuthType:       AuthTypeOAuth,
		CodeChallenge:  util.SHA256Base64URL(testVerifier),
		OAuthSessionID: "not-a-uuid",
	})

	assert.False(t, closed)
	assert.Equal(t, StateIdle, session.State())
}

func TestOAuthUntrustedOriginIsFatal(t *testing.T) {
	env := setupEnv(t)
	project := env.createProject(t, "https://app.example.com")
	oauthSession, err := env.oauth.CreateSession(
		context.Background(), project.ID, "https://app.example.com",
	)
	require.NoError(t, err)

	// The websocket connection came from somewhere else.
	session := env.newSession(t, "https://evil.example.com", "")

	closed := startAuth(t, session, StartAuthPayload{
		AuthType:       AuthTypeOAuth,
		CodeChallenge:  util.SHA256Base64URL(testVerifier),
		OAuthSessionID: oauthSession.ID,
	})

	assert.True(t, closed)
	assert.Equal(t, StateTerminated, session.State())
}

func TestConsentCapturedWithoutPending(t *testing.T) {
	env := setupEnv(t)
	session := env.newSession(t, "https://app.example.com", "")

	closed := session.HandleMessage(context.Background(), &ClientMessage{Type: MsgConsentCaptured})

	assert.False(t, closed)
	assert.Equal(t, MsgAuthError, env.sender.last().Type)
}
