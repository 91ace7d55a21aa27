package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SynilogicTeam/kundliGen/internal/store"
	"github.com/SynilogicTeam/kundliGen/internal/token"
)

const (
	ContextUserID  = "userId"
	ContextAdminID = "adminId"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthRequired accepts any correctly signed, unexpired user token whose
// subject still references an existing active account; user sessions keep
// no server-side state.
func AuthRequired(secret string, users *store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
			return
		}

		claims, err := token.Verify(raw, secret)
		if err != nil || claims.Kind != token.KindUser {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, token failed"})
			return
		}

		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, token failed"})
			return
		}

		user, err := users.FindByID(id)
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, user not found"})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// AdminRequired additionally requires the admin account to still exist and
// be active. The persisted token column is the "current session" pointer,
// not a revocation list; an older token that still validates is accepted.
func AdminRequired(secret string, admins *store.Admins) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
			return
		}

		claims, err := token.Verify(raw, secret)
		if err != nil || claims.Kind != token.KindAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, token failed"})
			return
		}

		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, token failed"})
			return
		}

		admin, err := admins.FindByID(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, admin not found"})
			return
		}
		if !admin.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Your account has been deactivated"})
			return
		}

		c.Set(ContextAdminID, admin.ID)
		c.Next()
	}
}
