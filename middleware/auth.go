package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"shikayat/models"
	"shikayat/utils"
)

type contextKey string

const callerKey contextKey = "caller"

// CallerFromContext returns the authenticated caller set by RequireAuth.
func CallerFromContext(ctx context.Context) (models.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(models.Caller)
	return caller, ok
}

// AuthMiddleware validates bearer tokens and attaches the caller's identity,
// role and jurisdiction binding to the request context.
type AuthMiddleware struct {
	jwtSecret []byte
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: []byte(jwtSecret)}
}

// RequireAuth rejects requests without a valid token. The jurisdiction
// binding travels in the token, so authorization decisions downstream never
// trust request parameters for identity.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondUnauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondUnauthorized(w, "Invalid authorization format. Expected: Bearer <token>")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondUnauthorized(w, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondUnauthorized(w, "Invalid token claims")
			return
		}

		caller, err := callerFromClaims(claims)
		if err != nil {
			respondUnauthorized(w, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerFromClaims(claims jwt.MapClaims) (models.Caller, error) {
	userIDFloat, ok := claims[utils.ClaimUserID].(float64)
	if !ok {
		return models.Caller{}, fmt.Errorf("invalid token: user_id not found")
	}
	roleStr, ok := claims[utils.ClaimRole].(string)
	if !ok {
		return models.Caller{}, fmt.Errorf("invalid token: role not found")
	}
	role, ok := models.ParseRole(roleStr)
	if !ok {
		return models.Caller{}, fmt.Errorf("invalid token: unknown role %q", roleStr)
	}

	caller := models.Caller{
		UserID: int64(userIDFloat),
		Role:   role,
	}
	caller.ProvinceID = claimID(claims, utils.ClaimProvinceID)
	caller.DistrictID = claimID(claims, utils.ClaimDistrictID)
	caller.TehsilID = claimID(claims, utils.ClaimTehsilID)
	return caller, nil
}

func claimID(claims jwt.MapClaims, key string) *int64 {
	if v, ok := claims[key].(float64); ok {
		id := int64(v)
		return &id
	}
	return nil
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":"Unauthorized","message":%q,"code":%d}`, message, http.StatusUnauthorized)
}
