package leave

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id uuid.UUID) (*Leave, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Leave, error)
	FindPendingByManager(ctx context.Context, managerID uuid.UUID) ([]Leave, error)
	ResolveIfPending(ctx context.Context, id uuid.UUID, res Resolution) (bool, error)
	HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time) (bool, error)
	LockEmployee(ctx context.Context, employeeID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPendingByManager(ctx context.Context, managerID uuid.UUID) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Where("status = ?", StatusPending).
		Where("is_action_taken = ?", false).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

// ResolveIfPending writes the resolution only while is_action_taken is still
// false. false, nil means another request resolved the leave first.
func (r *repository) ResolveIfPending(ctx context.Context, id uuid.UUID, res Resolution) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ? AND is_action_taken = ?", id, false).
		Updates(map[string]any{
			"status":           res.Status,
			"is_action_taken":  true,
			"approver_id":      res.ApproverID,
			"action_timestamp": res.ActionTimestamp,
			"processed_via":    res.ProcessedVia,
			"comments":         res.Comments,
			"updated_at":       res.ActionTimestamp,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

// LockEmployee holds the employee row until the surrounding transaction ends,
// so overlap checks for one employee run one at a time.
func (r *repository) LockEmployee(ctx context.Context, employeeID uuid.UUID) error {
	var row struct{ ID uuid.UUID }
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Table("users").
		Select("id").
		Where("id = ?", employeeID).
		Take(&row).Error
}
