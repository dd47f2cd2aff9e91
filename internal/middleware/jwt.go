// jwt.go issues and validates PodPicker session tokens.
//
// Sessions exist so listeners can keep a saved-topics library across
// devices; API keys stay the primary credential for programmatic
// transcript access. Both credentials are accepted on extraction routes
// via DualAuth below.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/podpicker/podpicker-api/internal/database"
	"github.com/podpicker/podpicker-api/internal/models"
)

const userContextKey = "user"

// tokenIssuer marks tokens minted by this service so a leaked secret
// shared with another internal app can't be replayed here.
const tokenIssuer = "podpicker-api"

// sessionLifetime is a week: long enough that someone collecting topics
// across a podcast backlog isn't logged out mid-binge, short enough that
// a stolen token ages out. Clients refresh via POST /api/v1/auth/refresh.
const sessionLifetime = 7 * 24 * time.Hour

// SessionClaims is the payload of a PodPicker session token.
// UserID is duplicated into the registered Subject claim so generic
// JWT tooling can identify the principal without knowing our shape.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateSessionToken mints an HS256 session token for a user.
func GenerateSessionToken(user *models.User, secret string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates a session token and returns its claims.
// Only HS256 tokens issued by this service are accepted; anything else
// (wrong alg, wrong issuer, expired, tampered) is rejected.
func ParseSessionToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// JWTAuth guards routes that only make sense for a logged-in listener
// (saved topics, profile). API keys are not accepted here.
func JWTAuth(db *database.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Sign in and send 'Authorization: Bearer <token>'",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		claims, err := ParseSessionToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Session token is invalid or expired",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		// The account may have been deleted since the token was minted.
		user, err := db.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Account no longer exists",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// DualAuth accepts either credential on extraction routes: an X-API-Key
// header for integrations, or a session token for listeners using the
// web app. The API key wins when both are present.
func DualAuth(db *database.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rawKey := c.GetHeader(apiKeyHeader); rawKey != "" && strings.HasPrefix(rawKey, KeyPrefix) {
			apiKey, err := db.GetAPIKeyByHash(c.Request.Context(), HashAPIKey(rawKey))
			if err == nil {
				c.Set(string(apiKeyContextKey), apiKey)
				touchLastUsed(db, apiKey.ID)
				c.Next()
				return
			}
		}

		if tokenString, ok := bearerToken(c); ok {
			claims, err := ParseSessionToken(tokenString, jwtSecret)
			if err == nil {
				user, err := db.GetUserByID(c.Request.Context(), claims.UserID)
				if err == nil {
					c.Set(userContextKey, user)
					c.Next()
					return
				}
			}
		}

		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Send a valid X-API-Key header or 'Authorization: Bearer <token>'",
			Code:    http.StatusUnauthorized,
		})
		c.Abort()
	}
}

// bearerToken extracts the token from an 'Authorization: Bearer' header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return token, token != ""
}

// GetUser retrieves the authenticated user from the request context,
// or nil when the request was authenticated by API key only.
func GetUser(c *gin.Context) *models.User {
	val, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}
