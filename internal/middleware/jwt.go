package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"freight_routes/internal/apperr"
	"freight_routes/internal/auth"
	"freight_routes/internal/models"
	"freight_routes/internal/repository"
)

const userContextKey = "current_user"

func abortWith(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.Status, gin.H{"error": err})
}

// RequireAuth validates the bearer access token and loads the caller into
// the request context. Absent credentials are a 403; present but invalid
// credentials are a 401.
func RequireAuth(issuer *auth.Issuer, db *gorm.DB) gin.HandlerFunc {
	users := repository.NewUserRepository(db)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortWith(c, apperr.Authorization("No credentials provided"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		userID, err := issuer.Decode(tokenStr, auth.TokenTypeAccess)
		if err != nil {
			abortWith(c, apperr.Authentication("Invalid or expired token"))
			return
		}

		user, err := users.ByID(userID)
		if err != nil {
			abortWith(c, apperr.Internal())
			return
		}
		if user == nil {
			abortWith(c, apperr.Authentication("User not found"))
			return
		}
		if !user.IsActive {
			abortWith(c, apperr.Authentication("User account is deactivated"))
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAction gates the request on the authorization policy for the
// given action. Must run after RequireAuth.
func RequireAction(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWith(c, apperr.Authorization("No credentials provided"))
			return
		}
		if !auth.Can(user.Role, action) {
			abortWith(c, apperr.Authorization("Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
