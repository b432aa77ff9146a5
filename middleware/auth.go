package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/utils"
)

// SupabaseAuth requires a Supabase access token and stores the
// *utils.SupabaseUser under "user".
func SupabaseAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := utils.BearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			utils.LogError("Missing Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			return
		}

		user, err := utils.ValidateSupabaseToken(tokenString, jwtSecret)
		if err != nil {
			utils.LogError("Invalid Supabase token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": utils.ErrInvalidToken})
			return
		}

		c.Set("user", user)
		utils.LogDebug("Supabase user %s authenticated", user.ID)
		c.Next()
	}
}

// AdminAuth accepts either the admin cookie session or a bearer admin token
// that has not been revoked. The admin email is stored under "admin".
func AdminAuth(jwtSecret string, revoked repository.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if email, ok := session.Get(utils.SessionAdmin).(string); ok && email != "" {
			c.Set("admin", email)
			c.Next()
			return
		}

		tokenString := utils.BearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			utils.LogError("Admin route called without session or token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": utils.ErrUnauthorized})
			return
		}

		email, err := utils.ValidateAdminToken(tokenString, jwtSecret)
		if err != nil {
			utils.LogError("Invalid admin token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": utils.ErrInvalidToken})
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), utils.TokenFingerprint(tokenString))
			if err != nil {
				utils.LogError("Failed to check token blacklist: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": utils.ErrInternalServer})
				return
			}
			if isRevoked {
				utils.LogError("Revoked admin token used by %s", email)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": utils.ErrInvalidToken})
				return
			}
		}

		c.Set("admin", email)
		c.Next()
	}
}
