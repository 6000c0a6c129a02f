package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/WebDev-Insider/movie-api-project-defence/utils"
)

// AdminMiddleware guards the admin surface with a bearer token. With no
// secret configured the routes stay open, matching the development posture.
func AdminMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.Envelope{
				Success: false, Message: "Authorization header missing",
			})
			return
		}

		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.Envelope{
				Success: false, Message: "Invalid Authorization header",
			})
			return
		}

		claims, err := utils.ValidateToken(secret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.Envelope{
				Success: false, Message: "Invalid or expired token",
			})
			return
		}
		if claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.Envelope{
				Success: false, Message: "Admins only",
			})
			return
		}
		c.Next()
	}
}
