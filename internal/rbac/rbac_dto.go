package rbac

import "go-leave/internal/domain"

type EnforceRequest = domain.EnforceRequest

type EnforceResponse = domain.EnforceResponse

type RolePermissionsResponse struct {
	Role        string                      `json:"role"`
	Permissions []domain.PermissionResponse `json:"permissions"`
}
