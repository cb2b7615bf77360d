package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"medicare/models"
	"medicare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCache is the token hash cache written at sign-in.
type SessionCache interface {
	Lookup(ctx context.Context, userID string) (string, error)
	Save(ctx context.Context, userID, tokenHash string) error
}

// UserLookup resolves an active account by ID.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   "Insufficient authorization",
	})
}

// JWTAuthUserMiddleware requires a bearer token for an active user. A cached
// session hash short-circuits the account lookup; a mismatching hash means the
// token was superseded by a newer sign-in. sessions may be nil.
func JWTAuthUserMiddleware(users UserLookup, sessions SessionCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLogger(c)
		ctx := c.Request.Context()

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			unauthorized(c)
			return
		}
		computedHash := utils.HashToken(tokenString)

		if sessions != nil {
			cached, err := sessions.Lookup(ctx, userID)
			switch {
			case err == nil && cached == computedHash:
				c.Set("userID", userID)
				c.Next()
				return
			case err == nil:
				unauthorized(c)
				return
			case !errors.Is(err, utils.ErrSessionNotFound):
				logger.Warn("auth cache unavailable, falling back to DB lookup", zap.Error(err))
			}
		}

		if _, err := users.GetUser(ctx, userID); err != nil {
			logger.Info("token rejected", zap.String("userID", userID), zap.Error(err))
			unauthorized(c)
			return
		}
		if sessions != nil {
			if err := sessions.Save(ctx, userID, computedHash); err != nil {
				logger.Warn("failed to cache auth session", zap.Error(err))
			}
		}

		c.Set("userID", userID)
		c.Next()
	}
}
