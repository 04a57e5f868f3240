package leave

import (
	"context"

	"go-leave/internal/approvaltoken"

	"gorm.io/gorm"
)

// Contact is the addressable part of a user.
type Contact struct {
	ID    string
	Name  string
	Email string
}

type ManagerNotification struct {
	Leave    LeaveResponse
	Employee Contact
	Manager  Contact
	Tokens   approvaltoken.Pair
}

type EmployeeNotification struct {
	Leave    LeaveResponse
	Employee Contact
	Manager  Contact
}

// Notifier delivers best-effort messages. Errors are logged by the caller and
// never undo a state change.
//
//go:generate mockgen -source=leave_notifier.go -destination=mock/leave_notifier_mock.go -package=mock
type Notifier interface {
	NotifyManager(ctx context.Context, msg ManagerNotification) error
	NotifyEmployee(ctx context.Context, msg EmployeeNotification) error
}

// OutboxNotifier is a Notifier that can stage the employee notification in
// the transaction that resolves the leave. It reports false when nothing was
// staged and the caller should fall back to NotifyEmployee after commit.
type OutboxNotifier interface {
	Notifier
	StageEmployee(ctx context.Context, tx *gorm.DB, msg EmployeeNotification) (bool, error)
}

// CredentialVerifier checks a plaintext password against a stored hash.
type CredentialVerifier interface {
	Verify(plain, hash string) bool
}
