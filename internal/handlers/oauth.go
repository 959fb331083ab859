package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/metrics"
	"github.com/ahmedXDR/auth-visage-backend/internal/services"
	"github.com/ahmedXDR/auth-visage-backend/internal/token"

	"github.com/gin-gonic/gin"
)

const (
	// errInvalidGrant is reused across redemption error paths so callers
	// cannot distinguish missing, expired and mismatched codes.
	errInvalidGrant = "invalid_grant"

	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

type OAuthHandler struct {
	oauthService  *services.OAuthService
	signInService *services.SignInService
	issuer        *token.LocalIssuer
	config        *config.Config
	metrics       metrics.Recorder
}

func NewOAuthHandler(
	os *services.OAuthService,
	ss *services.SignInService,
	issuer *token.LocalIssuer,
	cfg *config.Config,
	rec metrics.Recorder,
) *OAuthHandler {
	if rec == nil {
		rec = metrics.NewNoopMetrics()
	}
	return &OAuthHandler{
		oauthService:  os,
		signInService: ss,
		issuer:        issuer,
		config:        cfg,
		metrics:       rec,
	}
}

type createSessionRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
}

// CreateSession godoc
//
//	@Summary		Create an OAuth session
//	@Description	Creates the OAuth session handed to the websocket auth flow. The request Origin must be a trusted origin of the project.
//	@Tags			OAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		createSessionRequest	true	"Project ID"
//	@Success		200		{object}	object{id=string,project_id=string}	"Session created"
//	@Failure		400		{object}	object{error=string}	"Invalid project or untrusted origin"
//	@Router			/oauth/create-session [post]
func (h *OAuthHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
		return
	}

	origin := c.GetHeader("Origin")
	if origin == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing Origin header"})
		return
	}

	session, err := h.oauthService.CreateSession(c.Request.Context(), req.ProjectID, origin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidProject):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project"})
		case errors.Is(err, services.ErrInvalidOrigin):
			c.JSON(http.StatusBadRequest, gin.H{"error": "origin not trusted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         session.ID,
		"project_id": session.ProjectID,
	})
}

type tokenRequest struct {
	Code         string `json:"code" binding:"required"`
	CodeVerifier string `json:"code_verifier" binding:"required"`
}

// Token godoc
//
//	@Summary		Redeem an authorization code
//	@Description	Exchanges a single-use authorization code plus PKCE verifier for an access/refresh token pair. Tokens are also set as cookies.
//	@Tags			OAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tokenRequest	true	"Code and PKCE verifier"
//	@Success		200		{object}	services.TokenPair	"Tokens issued"
//	@Failure		400		{object}	object{error=string}	"Invalid grant"
//	@Router			/oauth/token [post]
func (h *OAuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and code_verifier are required"})
		return
	}

	ownerID, projectID, err := h.oauthService.RedeemCode(
		c.Request.Context(), req.Code, req.CodeVerifier,
	)
	if err != nil {
		h.metrics.RecordCodeRedemption(errInvalidGrant)
		// One generic answer for not-found, expired and verifier mismatch.
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidGrant})
		return
	}
	h.metrics.RecordCodeRedemption(metrics.ResultSuccess)

	pair, err := h.oauthService.IssueTokens(c.Request.Context(), ownerID, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue tokens"})
		return
	}

	h.metrics.RecordTokenIssued(metrics.FlowOAuth)
	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken godoc
//
//	@Summary		Rotate a refresh token
//	@Description	Exchanges the refresh token (cookie or body) for a new token pair. The presented token is retired.
//	@Tags			OAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		refreshRequest	false	"Refresh token when not sent as a cookie"
//	@Success		200		{object}	services.TokenPair	"Tokens rotated"
//	@Failure		400		{object}	object{error=string}	"Invalid or expired refresh token"
//	@Router			/oauth/refresh-token [post]
func (h *OAuthHandler) RefreshToken(c *gin.Context) {
	refreshToken := h.refreshTokenFromRequest(c)
	if refreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token is required"})
		return
	}

	pair, err := h.oauthService.Rotate(c.Request.Context(), refreshToken)
	if err != nil {
		h.metrics.RecordTokenRefresh(metrics.FlowOAuth, false)
		switch {
		case errors.Is(err, services.ErrInvalidRefreshToken),
			errors.Is(err, services.ErrSessionExpired):
			h.clearTokenCookies(c)
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidGrant})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate tokens"})
		}
		return
	}

	h.metrics.RecordTokenRefresh(metrics.FlowOAuth, true)
	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, pair)
}

// Logout godoc
//
//	@Summary		Revoke the current session
//	@Description	Revokes the session behind the presented access token and clears token cookies.
//	@Tags			OAuth
//	@Produce		json
//	@Success		200	{object}	object{message=string}	"Session revoked"
//	@Failure		401	{object}	object{error=string}	"Missing or invalid access token"
//	@Router			/oauth/logout [post]
func (h *OAuthHandler) Logout(c *gin.Context) {
	accessToken := h.accessTokenFromRequest(c)
	if accessToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}

	result, err := h.issuer.ValidateAccessToken(c.Request.Context(), accessToken)
	if err != nil || !result.Valid {
		h.clearTokenCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
		return
	}

	// project_id distinguishes third-party sessions from first-party ones.
	flow := metrics.FlowSignIn
	if result.ProjectID != "" {
		flow = metrics.FlowOAuth
		err = h.oauthService.RevokeSession(c.Request.Context(), result.SessionID)
	} else {
		err = h.signInService.RevokeSession(c.Request.Context(), result.SessionID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke session"})
		return
	}

	h.metrics.RecordSessionRevoked(flow)
	h.clearTokenCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *OAuthHandler) refreshTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *OAuthHandler) accessTokenFromRequest(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func (h *OAuthHandler) setTokenCookies(c *gin.Context, pair *services.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		accessTokenCookie, pair.AccessToken,
		int(h.config.JWTExpiration.Seconds()),
		"/", "", h.config.IsProduction, true,
	)
	c.SetCookie(
		refreshTokenCookie, pair.RefreshToken,
		int(h.config.RefreshCookieMaxAge.Seconds()),
		"/", "", h.config.IsProduction, true,
	)
}

func (h *OAuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", h.config.IsProduction, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", h.config.IsProduction, true)
}
