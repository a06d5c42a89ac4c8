package router

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/auth"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/handler"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/model"
	"github.com/gin-gonic/gin"
)

// UserResolver loads the user a verified token points at.
type UserResolver interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// LoggerMiddleware logs HTTP requests with slog
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// Process request
		c.Next()

		// Log request details
		logger.Info("HTTP Request",
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
			slog.Int("body_size", c.Writer.Size()),
		)

		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				logger.Error("Request error",
					slog.String("error", e.Error()),
				)
			}
		}
	}
}

// AuthMiddleware verifies the session token from the cookie or the
// Authorization header, resolves it to a user, and aborts with 401 on any
// failure so the downstream handler never runs unauthenticated.
func AuthMiddleware(logger *slog.Logger, tokens *auth.TokenManager, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token provided",
			})
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Warn("Token carried an unresolvable user",
				slog.String("user_id", claims.UserID),
				slog.String("error", err.Error()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			return
		}

		c.Set(handler.ContextUserKey, user)
		c.Next()
	}
}

// extractToken prefers the session cookie, falling back to a bearer header.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return after
	}

	return ""
}
