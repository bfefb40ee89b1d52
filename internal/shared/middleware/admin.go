package middleware

import (
	"github.com/gin-gonic/gin"

	user "publisher-backoffice/internal/domains/user"
	"publisher-backoffice/internal/shared/response"
)

// AdminMiddleware lets only admin principals through. It must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		if !principal.IsAdmin {
			response.Forbidden(c, user.ErrForbidden.Error())
			c.Abort()
			return
		}

		c.Next()
	}
}
