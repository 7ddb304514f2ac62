package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/session"
)

// AuthMiddleware verifies the bearer token and requires it to belong to the
// gate's active session. The process serves one signed-in identity at a time,
// so a valid token for a different user is refused rather than silently
// switching documents.
func AuthMiddleware(gate *session.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, http.StatusUnauthorized, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWith(c, http.StatusUnauthorized, apperrors.ErrUnauthorized)
			return
		}

		claims, err := session.ValidateToken(parts[1])
		if err != nil {
			abortWith(c, http.StatusUnauthorized, apperrors.ErrUnauthorized)
			return
		}

		active := gate.Session()
		if active == nil {
			abortWith(c, apperrors.ErrSignInRequired.StatusCode, apperrors.ErrSignInRequired)
			return
		}
		if active.UserID != claims.UserID {
			abortWith(c, apperrors.ErrSessionMismatch.StatusCode, apperrors.ErrSessionMismatch)
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func abortWith(c *gin.Context, status int, appErr *apperrors.AppError) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
	c.Abort()
}
