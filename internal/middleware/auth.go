package middleware

import (
	"strconv"
	"strings"

	"github.com/gamassss/shortlink/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "auth_user_id"

// Auth validates a bearer token and stores the owner id on the
// context. Token issuance lives elsewhere; this service only needs the
// subject claim.
type Auth struct {
	secret []byte
}

func NewAuth(jwtSecret string) *Auth {
	return &Auth{secret: []byte(jwtSecret)}
}

func (a *Auth) userID(c *gin.Context) (int64, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, false
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
		func(*jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid {
		return 0, false
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

// Required rejects requests without a valid token.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := a.userID(c)
		if !ok {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}

// Optional attaches the owner id when a valid token is present but
// lets anonymous requests through. Used on link creation.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := a.userID(c); ok {
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

// SetUserID stamps an owner id on the context directly, bypassing
// token validation. Intended for tests.
func SetUserID(c *gin.Context, id int64) {
	c.Set(userIDKey, id)
}

// UserID returns the authenticated owner id, if any.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
