package middlewares

import (
	"hbs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaffOnly admits employees and admins. It must run after AuthMiddleware.
func StaffOnly(ctx *gin.Context) {
	role := types.Role(ctx.GetString("role"))
	if !role.IsStaff() {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "staff only"})
		return
	}
	ctx.Next()
}

// GuestOnly requires a guest profile for the authenticated user.
func GuestOnly(ctx *gin.Context) {
	if ctx.GetString("guest_id") == "" {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "guest profile required"})
		return
	}
	ctx.Next()
}

func SecureHeaders(ctx *gin.Context) {
	h := ctx.Writer.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	ctx.Next()
}
