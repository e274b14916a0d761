package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vonix/internal/shared/utils"
)

// CronSecret guards maintenance endpoints with a shared secret. External
// cron services differ in how they attach credentials, so the secret is
// accepted as a Bearer token, an x-cron-secret header, or a query
// parameter. An empty configured secret disables the endpoints entirely.
func CronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "cron endpoints are not configured")
			c.Abort()
			return
		}

		presented := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			presented = strings.TrimPrefix(auth, "Bearer ")
		} else if h := c.GetHeader("x-cron-secret"); h != "" {
			presented = h
		} else {
			presented = c.Query("secret")
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid cron secret")
			c.Abort()
			return
		}

		c.Next()
	}
}
