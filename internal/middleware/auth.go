package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Dan9191/club-service/internal/auth"
	"github.com/Dan9191/club-service/internal/response"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ctxKey string

const adminKey ctxKey = "admin"

// TokenValidator checks a bearer token and returns the admin it was issued for
type TokenValidator interface {
	Validate(token string) (string, error)
}

// AuthMiddleware rejects requests without a valid admin bearer token.
// Authenticated requests carry the admin username in their context.
func AuthMiddleware(tokens TokenValidator, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := authorize(r.Header, tokens)
			if err != nil {
				log.WithFields(logrus.Fields{
					"request_id": GetRequestID(r.Context()),
					"path":       r.URL.Path,
					"reason":     err.Error(),
				}).Warn("Rejected admin request")

				if errors.Is(err, auth.ErrTokenMissing) {
					response.Error(w, http.StatusUnauthorized, "Token missing")
				} else {
					response.Error(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authorize extracts and validates the bearer token from the Authorization header
func authorize(h http.Header, tokens TokenValidator) (string, error) {
	authHeader := h.Get("Authorization")
	if authHeader == "" {
		return "", auth.ErrTokenMissing
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", auth.ErrTokenInvalid
	}

	username, err := tokens.Validate(strings.TrimSpace(token))
	if err != nil {
		return "", auth.ErrTokenInvalid
	}
	return username, nil
}

// AdminFromContext returns the authenticated admin username, if any
func AdminFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(adminKey).(string)
	return username, ok && username != ""
}
