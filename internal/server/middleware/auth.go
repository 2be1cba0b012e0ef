package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskwire/taskwire/internal/server/handlers"
	"github.com/taskwire/taskwire/internal/server/storage"
	"github.com/taskwire/taskwire/pkg/api"
)

// AuthMiddleware gates every protected route. It extracts the bearer
// token, validates it as an access token, confirms the user still exists
// and puts the resolved user id into the request context. Task handlers
// trust only that context value for ownership checks.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("missing Authorization header", "path", r.URL.Path)
				unauthorized(logger, w, "authentication required")
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.Warn("invalid Authorization header format", "path", r.URL.Path)
				unauthorized(logger, w, "invalid token format")
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, parts[1])
			if err != nil {
				if errors.Is(err, handlers.ErrTokenExpired) {
					logger.Warn("expired access token", "path", r.URL.Path)
					unauthorized(logger, w, "token expired")
					return
				}
				logger.Warn("invalid access token", "error", err, "path", r.URL.Path)
				unauthorized(logger, w, "invalid token")
				return
			}

			// The token may outlive the account it was issued for.
			if _, err := users.GetUserByID(r.Context(), claims.UserID); err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					logger.Warn("access token for deleted user", "user_id", claims.UserID)
					unauthorized(logger, w, "user not found")
					return
				}
				logger.Error("failed to resolve user", "error", err, "user_id", claims.UserID)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := handlers.WithUserID(r.Context(), claims.UserID)

			logger.Debug("user authenticated", "user_id", claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized writes the uniform 401 JSON body
func unauthorized(logger *slog.Logger, w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	resp := api.ErrorResponse{
		Error:   http.StatusText(http.StatusUnauthorized),
		Message: message,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}
