package leave

import (
	"net/http"
	"strconv"

	"go-leave/internal/approvaltoken"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("user_id_validated")
	if actorID == "" {
		actorID = c.GetString("user_id")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Submit(c *gin.Context) {
	actorID := getActorID(c)
	h.logger.Debug("http submit leave", zap.String("actor_id", actorID))

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	resp, err := h.service.ListForEmployee(c.Request.Context(), getActorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writePage(c, resp)
}

func (h *Handler) ListPendingApprovals(c *gin.Context) {
	resp, err := h.service.ListPendingForManager(c.Request.Context(), getActorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writePage(c, resp)
}

func (h *Handler) writePage(c *gin.Context, items []LeaveResponse) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	paged, meta := response.Paginate(items, page, pageSize)
	response.Success(c, http.StatusOK, paged, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), getActorID(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.dashboardAction(c, approvaltoken.ActionApprove)
}

func (h *Handler) Reject(c *gin.Context) {
	h.dashboardAction(c, approvaltoken.ActionReject)
}

func (h *Handler) dashboardAction(c *gin.Context, action approvaltoken.Action) {
	leaveID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidLeaveID)
		return
	}
	actorID, err := uuid.Parse(getActorID(c))
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidActorID)
		return
	}

	var req DashboardActionRequest
	// body boleh kosong, comments opsional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
			return
		}
	}

	resp, err := h.service.ApplyAction(c.Request.Context(), ActionCommand{
		LeaveID:  leaveID,
		Action:   action,
		ActorID:  actorID,
		Channel:  ChannelDashboard,
		Comments: req.Comments,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// PreviewEmailAction serves the landing page of an emailed link.
func (h *Handler) PreviewEmailAction(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.writeServiceError(c, apperror.RequiredField("token"))
		return
	}

	resp, err := h.service.PreviewEmailAction(c.Request.Context(), token)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) EmailApprove(c *gin.Context) {
	h.emailAction(c, approvaltoken.ActionApprove)
}

func (h *Handler) EmailReject(c *gin.Context) {
	h.emailAction(c, approvaltoken.ActionReject)
}

func (h *Handler) emailAction(c *gin.Context, action approvaltoken.Action) {
	leaveID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidLeaveID)
		return
	}

	var req EmailActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.ApplyAction(c.Request.Context(), ActionCommand{
		LeaveID:  leaveID,
		Action:   action,
		Channel:  ChannelEmail,
		Token:    req.Token,
		Password: req.ManagerPassword,
		Comments: req.Comments,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
