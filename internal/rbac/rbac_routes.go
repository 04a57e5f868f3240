package rbac

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth ...gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(auth...)
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/me/permissions", handler.MyPermissions)
	}
}
