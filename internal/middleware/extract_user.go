package middleware

import (
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ContextUserIDValidated = "user_id_validated"

// ExtractUserID memastikan user_id dari token berupa UUID yang valid.
func ExtractUserID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(ContextUserID)
		if userID == "" {
			response.AbortWithError(ctx, apperror.ErrUnauthorized)
			return
		}

		if _, err := uuid.Parse(userID); err != nil {
			response.AbortWithError(ctx, apperror.InvalidField("user_id"))
			return
		}

		ctx.Set(ContextUserIDValidated, userID)
		ctx.Next()
	}
}
