package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"miniblog/internal/models"
)

// CookieName is the cookie the client presents the token in.
const CookieName = "access_token"

// Claims defines the JWT claims structure. Subject duplicates UserID for
// standards-compliant consumers.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type contextKey string

// UserClaimsKey is the context key for user claims.
const UserClaimsKey = contextKey("userClaims")

// ClaimsFromContext retrieves the authenticated claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

// Service issues and verifies tokens with a secret fixed at construction.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service signing with the given secret. Tokens
// expire after ttl.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Generate creates a new signed token for a given user.
func (s *Service) Generate(user models.User) (string, error) {
	expirationTime := time.Now().Add(s.ttl)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a token string.
func (s *Service) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Middleware creates a middleware for protecting routes. The cookie is
// checked before the Authorization header. A missing token is 401, a token
// that fails verification is 403.
func (s *Service) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try the access_token cookie
			if cookie, err := r.Cookie(CookieName); err == nil {
				tokenStr = cookie.Value
			}

			// 2. Fall back to the Authorization header
			if tokenStr == "" {
				authHeader := r.Header.Get("Authorization")
				if authHeader != "" {
					parts := strings.SplitN(authHeader, " ", 2)
					if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
						tokenStr = parts[1]
					}
				}
			}

			// 3. If we still have no token, fail
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			// 4. Validate the token
			claims, err := s.Validate(tokenStr)
			if err != nil {
				log.Warn().Err(err).Msg("Rejected invalid auth token")
				writeError(w, http.StatusForbidden, "Invalid token")
				return
			}

			// 5. Pass claims down via context
			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
