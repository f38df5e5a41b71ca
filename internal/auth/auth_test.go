package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/docwiseai/docwise/internal/config"
)

func jwksServer(t *testing.T, key *rsa.PrivateKey, kid string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/metadata", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"jwks_uri": srv.URL + "/keys"})
	})
	mux.HandleFunc("/keys", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
			}},
		})
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid, issuer, audience string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Add(-time.Minute).Unix(),
	})
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func newTestMiddleware(t *testing.T, srv *httptest.Server) echo.MiddlewareFunc {
	t.Helper()
	cfg := config.AuthConfig{
		ClientID:    "bot-app-id",
		TokenIssuer: "https://api.botframework.com",
	}
	keys := NewKeyCache(srv.URL+"/metadata", nil)
	return Middleware(cfg, keys, func(c echo.Context) bool {
		return c.Request().URL.Path == "/ping"
	})
}

func performRequest(mw echo.MiddlewareFunc, path, authHeader string) int {
	e := echo.New()
	e.Use(mw)
	e.POST("/api/messages", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	method := http.MethodPost
	if path == "/ping" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestMiddleware_ValidToken(t *testing.T) {
	t.Parallel()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := jwksServer(t, key, "kid-1")
	mw := newTestMiddleware(t, srv)

	token := signToken(t, key, "kid-1", "https://api.botframework.com", "bot-app-id", time.Now().Add(time.Hour))
	require.Equal(t, http.StatusOK, performRequest(mw, "/api/messages", "Bearer "+token))
}

func TestMiddleware_RejectsBadTokens(t *testing.T) {
	t.Parallel()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := jwksServer(t, key, "kid-1")
	mw := newTestMiddleware(t, srv)

	t.Run("missing", func(t *testing.T) {
		require.Equal(t, http.StatusBadRequest, performRequest(mw, "/api/messages", ""))
	})
	t.Run("wrong audience", func(t *testing.T) {
		token := signToken(t, key, "kid-1", "https://api.botframework.com", "someone-else", time.Now().Add(time.Hour))
		require.Equal(t, http.StatusUnauthorized, performRequest(mw, "/api/messages", "Bearer "+token))
	})
	t.Run("wrong issuer", func(t *testing.T) {
		token := signToken(t, key, "kid-1", "https://evil.example.com", "bot-app-id", time.Now().Add(time.Hour))
		require.Equal(t, http.StatusUnauthorized, performRequest(mw, "/api/messages", "Bearer "+token))
	})
	t.Run("expired", func(t *testing.T) {
		token := signToken(t, key, "kid-1", "https://api.botframework.com", "bot-app-id", time.Now().Add(-time.Hour))
		require.Equal(t, http.StatusUnauthorized, performRequest(mw, "/api/messages", "Bearer "+token))
	})
	t.Run("unknown kid", func(t *testing.T) {
		token := signToken(t, key, "kid-other", "https://api.botframework.com", "bot-app-id", time.Now().Add(time.Hour))
		require.Equal(t, http.StatusUnauthorized, performRequest(mw, "/api/messages", "Bearer "+token))
	})
	t.Run("unsigned alg rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"iss": "https://api.botframework.com",
			"aud": "bot-app-id",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		unsigned.Header["kid"] = "kid-1"
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, performRequest(mw, "/api/messages", "Bearer "+token))
	})
}

func TestMiddleware_SkipsHeartbeat(t *testing.T) {
	t.Parallel()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := jwksServer(t, key, "kid-1")
	mw := newTestMiddleware(t, srv)

	require.Equal(t, http.StatusOK, performRequest(mw, "/ping", ""))
}
