package rbac

import "go-leave/internal/domain"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetRolePermissions() ([]RolePermissionRow, error)
	GetRoleInheritance() ([]RoleInheritanceRow, error)
}

type RolePermissionRow struct {
	Role     string
	Resource string
	Action   string
}

// RoleInheritanceRow: Role mewarisi semua permission milik Parent.
type RoleInheritanceRow struct {
	Role   string
	Parent string
}

type staticRepository struct {
	permissions []RolePermissionRow
	inheritance []RoleInheritanceRow
}

func NewStaticRepository(permissions []RolePermissionRow, inheritance []RoleInheritanceRow) Repository {
	return &staticRepository{permissions: permissions, inheritance: inheritance}
}

// NewDefaultRepository serves the built-in leave policy.
func NewDefaultRepository() Repository {
	return NewStaticRepository(
		[]RolePermissionRow{
			{Role: domain.RoleEmployee, Resource: domain.ResourceLeave, Action: domain.ActionCreate},
			{Role: domain.RoleEmployee, Resource: domain.ResourceLeave, Action: domain.ActionRead},
			{Role: domain.RoleManager, Resource: domain.ResourceLeave, Action: domain.ActionApprove},
		},
		[]RoleInheritanceRow{
			{Role: domain.RoleManager, Parent: domain.RoleEmployee},
			{Role: domain.RoleHR, Parent: domain.RoleEmployee},
		},
	)
}

func (r *staticRepository) GetRolePermissions() ([]RolePermissionRow, error) {
	out := make([]RolePermissionRow, len(r.permissions))
	copy(out, r.permissions)
	return out, nil
}

func (r *staticRepository) GetRoleInheritance() ([]RoleInheritanceRow, error) {
	out := make([]RoleInheritanceRow, len(r.inheritance))
	copy(out, r.inheritance)
	return out, nil
}
