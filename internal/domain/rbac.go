package domain

// Role names carried in the JWT role claim.
const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleHR       = "HR"
)

// Resources and actions guarded by the casbin policy.
const (
	ResourceLeave = "leave"

	ActionCreate  = "create"
	ActionRead    = "read"
	ActionApprove = "approve"
)

type EnforceRequest struct {
	Role     string `json:"role"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
