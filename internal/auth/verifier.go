// Package auth validates tokens issued by the external identity provider.
// Identity itself lives elsewhere; this package only verifies what the
// provider issued, either locally against a shared HS256 secret or remotely
// through the provider's introspection endpoint.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/raxitsanghani/Nexura-Sports/pkg/httpclient"
	"github.com/raxitsanghani/Nexura-Sports/pkg/middleware"
)

// Config selects the verification mode. A non-empty JWTSecret enables local
// verification; otherwise IntrospectURL must point at the provider's token
// introspection endpoint.
type Config struct {
	JWTSecret     string
	Issuer        string
	Audience      string
	IntrospectURL string
}

// tokenClaims are the provider-issued JWT claims we consume.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewVerifier builds a middleware.TokenValidator for the configured mode.
func NewVerifier(cfg Config, client *httpclient.CircuitBreakerClient, logger *slog.Logger) (middleware.TokenValidator, error) {
	if cfg.JWTSecret != "" {
		return newLocalVerifier(cfg), nil
	}
	if cfg.IntrospectURL == "" {
		return nil, fmt.Errorf("auth: either a JWT secret or an introspection URL is required")
	}
	return newRemoteVerifier(cfg.IntrospectURL, client, logger), nil
}

func newLocalVerifier(cfg Config) middleware.TokenValidator {
	secret := []byte(cfg.JWTSecret)
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(cfg.Audience))
	}

	return func(_ context.Context, token string) (*middleware.Claims, error) {
		var claims tokenClaims
		parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, parserOpts...)
		if err != nil {
			return nil, fmt.Errorf("parse token: %w", err)
		}
		if !parsed.Valid {
			return nil, fmt.Errorf("invalid token")
		}
		if claims.Subject == "" {
			return nil, fmt.Errorf("token missing subject")
		}

		return &middleware.Claims{
			UserID: claims.Subject,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}
}

// introspection is the RFC 7662 response shape the provider returns.
type introspection struct {
	Active bool   `json:"active"`
	Sub    string `json:"sub"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func newRemoteVerifier(introspectURL string, client *httpclient.CircuitBreakerClient, logger *slog.Logger) middleware.TokenValidator {
	return func(ctx context.Context, token string) (*middleware.Claims, error) {
		form := url.Values{"token": {token}}
		resp, err := client.Post(ctx, introspectURL,
			"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
		if err != nil {
			logger.WarnContext(ctx, "token introspection failed", slog.String("error", err.Error()))
			return nil, fmt.Errorf("introspect token: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("introspect token: status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err != nil {
			return nil, fmt.Errorf("read introspection response: %w", err)
		}

		var result introspection
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("decode introspection response: %w", err)
		}
		if !result.Active || result.Sub == "" {
			return nil, fmt.Errorf("token not active")
		}

		return &middleware.Claims{
			UserID: result.Sub,
			Email:  result.Email,
			Role:   result.Role,
		}, nil
	}
}
