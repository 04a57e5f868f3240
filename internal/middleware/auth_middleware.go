package middleware

import (
	"errors"
	"fmt"
	"strings"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// AuthMiddleware resolves the dashboard session from a bearer token or the
// access_token cookie and stores user_id and role on the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.AbortWithError(c, autherrors.ErrTokenMissing)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			response.AbortWithError(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.AbortWithError(c, autherrors.ErrInvalidToken)
			return
		}

		if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
			response.AbortWithError(c, autherrors.ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.AbortWithError(c, autherrors.ErrInvalidToken)
			return
		}

		role, _ := claims["role"].(string)

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, strings.ToUpper(role))

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(ContextRole)
		if userRole == "" {
			response.AbortWithError(c, autherrors.ErrForbidden)
			return
		}

		for _, role := range allowedRoles {
			if strings.EqualFold(userRole, role) {
				c.Next()
				return
			}
		}

		response.AbortWithError(c, autherrors.ErrForbidden)
	}
}
