package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/auth"
	"github.com/volunhub-dev/volunhub/internal/models"
	"github.com/volunhub-dev/volunhub/internal/types"
)

// OptionalAuthMiddleware resolves the identity context when a valid token is
// present but lets anonymous requests through. Used on endpoints whose
// visibility rules depend on who is asking.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractToken(ctx)

		if tokenString == "" {
			ctx.Next()
			return
		}

		token, err := auth.VerifyJWT(tokenString)

		if err != nil || !token.Valid {
			ctx.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)

		if !ok {
			ctx.Next()
			return
		}

		userIDString, ok := claims["user_id"].(string)

		if !ok {
			ctx.Next()
			return
		}

		userID, err := uuid.Parse(userIDString)

		if err != nil {
			ctx.Next()
			return
		}

		var user models.User

		if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			ctx.Next()
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		})
		ctx.Next()
	}
}
