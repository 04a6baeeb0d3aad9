package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kotoba-nexus/backend/internal/auth"
	"github.com/kotoba-nexus/backend/internal/models"
)

// AuthMiddleware validates the Bearer token and puts the user id into
// the request context under "user_id".
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			writeUnauthorized(w, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), "user_id", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthMiddleware attaches the user id when a valid token is
// present and lets the request through untouched otherwise. Used by
// endpoints that also accept an explicit user id in the body.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, err := userIDFromRequest(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), "user_id", userID))
		}
		next.ServeHTTP(w, r)
	})
}

func userIDFromRequest(r *http.Request) (int64, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, fmt.Errorf("authorization header required")
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return 0, fmt.Errorf("authorization header must be a Bearer token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return auth.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("token missing user_id")
	}
	return int64(rawID), nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}
