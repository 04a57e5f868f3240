package leave

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authMiddleware gin.HandlerFunc,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(authMiddleware, middleware.ExtractUserID())
	{
		submit := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionCreate)}
		if rdb != nil {
			submit = append(submit, middleware.Idempotency(rdb))
		}
		leaves.POST("", append(submit, handler.Submit)...)

		leaves.GET("/mine", middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionRead), handler.ListMine)
		leaves.GET("/pending-approvals", middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionApprove), handler.ListPendingApprovals)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionRead), handler.GetByID)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionApprove), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionApprove), handler.Reject)
	}

	// link email tidak punya sesi; token + password manager jadi buktinya
	emailActions := r.Group("/email-actions")
	emailActions.Use(middleware.RateLimitByIP(rate.Limit(0.5), 5))
	{
		emailActions.GET("", handler.PreviewEmailAction)
		emailActions.POST("/:id/approve", handler.EmailApprove)
		emailActions.POST("/:id/reject", handler.EmailReject)
	}
}
