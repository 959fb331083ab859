package authws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/ahmedXDR/auth-visage-backend/internal/token"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/websocket"
)

// Decode failures tolerated before the connection is dropped.
const maxDecodeErrorsPerConn = 5

type wsContextKey struct{}

// wsContext is resolved before the upgrade and read by the connection
// handler through conn.Request().
type wsContext struct {
	origin       string
	authedUserID string
}

// Handler owns the websocket endpoint.
type Handler struct {
	deps   Deps
	issuer *token.LocalIssuer
}

// NewHandler creates the websocket auth handler.
func NewHandler(deps Deps, issuer *token.LocalIssuer) *Handler {
	return &Handler{deps: deps, issuer: issuer}
}

// Register mounts the websocket route.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ws/auth", gin.WrapH(h.httpHandler()))
}

func (h *Handler) httpHandler() http.Handler {
	wsHandler := websocket.Handler(h.handleConn)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wsCtx := wsContext{
			origin: r.Header.Get("Origin"),
		}

		// A bearer token is optional; it authenticates the connection
		// for the register flow.
		if accessToken := accessTokenFromRequest(r); accessToken != "" {
			result, err := h.issuer.ValidateAccessToken(r.Context(), accessToken)
			if err == nil && result.Valid {
				wsCtx.authedUserID = result.UserID
			}
		}

		ctx := context.WithValue(r.Context(), wsContextKey{}, wsCtx)
		wsHandler.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessTokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func (h *Handler) handleConn(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	var wsCtx wsContext
	ctx := context.Background()
	if request := conn.Request(); request != nil {
		ctx = request.Context()
		if resolved, ok := ctx.Value(wsContextKey{}).(wsContext); ok {
			wsCtx = resolved
		}
	}

	peer := newWSPeer(json.NewEncoder(conn))
	session := NewSession(h.deps, peer, wsCtx.origin, wsCtx.authedUserID)

	decoder := json.NewDecoder(conn)
	decodeErrors := 0

	for {
		var msg ClientMessage
		if err := decoder.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			_ = peer.Send(&ServerMessage{
				Type:    MsgAuthError,
				Payload: ErrorPayload{Error: "invalid message payload"},
			})
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if session.HandleMessage(ctx, &msg) {
			return
		}
	}
}

// wsPeer serializes writes to one connection.
type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) Send(msg *ServerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(msg)
}
