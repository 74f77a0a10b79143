package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"opsflow/dashboard/model"
	"opsflow/dashboard/repository"
	"opsflow/pkg/utils"
	"opsflow/pkg/utils/resp"
)

const (
	// ContextUserID and friends are the gin context keys handlers read
	// after the auth middleware ran.
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// AuthMiddleware validates the bearer token and loads the account so a
// user disabled after the token was issued is rejected immediately.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	userRepo := repository.NewUserRepository(db)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			resp.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(authHeader[7:])
		if err != nil {
			resp.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			resp.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		if !user.IsActive {
			resp.Forbidden(c, "account is disabled")
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUsername, user.Username)
		c.Set(ContextRole, user.Role)
		c.Next()
	}
}

// CurrentUser returns the authenticated user id and role from the gin
// context. It must only be called behind AuthMiddleware.
func CurrentUser(c *gin.Context) (string, model.Role) {
	id := c.GetString(ContextUserID)
	role, _ := c.Get(ContextRole)
	r, ok := role.(model.Role)
	if !ok {
		return id, model.RoleMember
	}
	return id, r
}
