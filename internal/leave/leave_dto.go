package leave

import (
	"time"

	"go-leave/internal/approvaltoken"

	"github.com/google/uuid"
)

type SubmitLeaveRequest struct {
	ManagerEmail string `json:"manager_email" binding:"required,email"`
	LeaveType    string `json:"leave_type" binding:"required,oneof=ANNUAL SICK UNPAID PERSONAL"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	Reason       string `json:"reason" binding:"max=1000"`
}

type DashboardActionRequest struct {
	Comments string `json:"comments" binding:"max=1000"`
}

type EmailActionRequest struct {
	Token           string `json:"token" binding:"required"`
	ManagerPassword string `json:"manager_password" binding:"required"`
	Comments        string `json:"comments" binding:"max=1000"`
}

// ActionCommand is one approve/reject attempt. Token and Password are only
// read for the email channel; ActorID only for the dashboard channel.
type ActionCommand struct {
	LeaveID  uuid.UUID
	Action   approvaltoken.Action
	ActorID  uuid.UUID
	Channel  Channel
	Token    string
	Password string
	Comments string
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	ManagerID       string  `json:"manager_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	IsActionTaken   bool    `json:"is_action_taken"`
	ApproverID      *string `json:"approver_id,omitempty"`
	ActionTimestamp *string `json:"action_timestamp,omitempty"`
	ProcessedVia    string  `json:"processed_via"`
	Comments        *string `json:"comments,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type ActionResponse struct {
	Status   string        `json:"status"`
	Message  string        `json:"message"`
	Comments *string       `json:"comments,omitempty"`
	Leave    LeaveResponse `json:"leave"`
}

// EmailActionPreview is what the email landing page shows before the manager
// confirms with their password.
type EmailActionPreview struct {
	Leave     LeaveResponse `json:"leave"`
	Action    string        `json:"action"`
	ExpiresAt string        `json:"expires_at"`
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		ManagerID:     l.ManagerID.String(),
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format(dateLayout),
		EndDate:       l.EndDate.Format(dateLayout),
		TotalDays:     l.TotalDays,
		Reason:        l.Reason,
		Status:        l.Status,
		IsActionTaken: l.IsActionTaken,
		ProcessedVia:  string(l.ProcessedVia),
		Comments:      l.Comments,
		CreatedAt:     l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.ApproverID != nil {
		v := l.ApproverID.String()
		resp.ApproverID = &v
	}
	if l.ActionTimestamp != nil {
		v := l.ActionTimestamp.UTC().Format(time.RFC3339)
		resp.ActionTimestamp = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
