package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JWTAccessTokenMiddleware admits requests carrying a valid bearer token and
// stores the caller's user ID in the request context. Every rejection gets
// the same 401 body.
func (s *service) JWTAccessTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if authHeader == "" || tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
				writeJSONError(w, http.StatusUnauthorized, NotAuthorizedMessage)
				return
			}

			userID, err := s.VerifyToken(r.Context(), strings.TrimSpace(tokenString))
			if err != nil {
				if apperrors.IsAuthError(err) {
					writeJSONError(w, http.StatusUnauthorized, NotAuthorizedMessage)
					return
				}
				s.log.WithError(err).Error("could not verify access token")
				writeJSONError(w, http.StatusInternalServerError, "Server Error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// writeJSONError writes an error response in JSON format
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Message: message,
	})
}
