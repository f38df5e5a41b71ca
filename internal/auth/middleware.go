package auth

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/docwiseai/docwise/internal/config"
)

// Middleware returns the bearer-token middleware for the activity endpoint.
// Tokens must be RS256-signed by the platform, issued by the configured
// issuer, and addressed to this bot's client id.
func Middleware(cfg config.AuthConfig, keys *KeyCache, skipper middleware.Skipper) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper: skipper,
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			token, err := jwt.Parse(auth, keys.Keyfunc,
				jwt.WithValidMethods([]string{"RS256"}),
				jwt.WithIssuer(cfg.TokenIssuer),
				jwt.WithAudience(cfg.ClientID),
				jwt.WithExpirationRequired(),
			)
			if err != nil {
				return nil, err
			}
			return token, nil
		},
	})
}
