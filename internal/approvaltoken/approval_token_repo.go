package approvaltoken

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=approval_token_repo.go -destination=mock/approval_token_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tokens ...*ApprovalToken) error
	FindByHash(ctx context.Context, hash string) (*ApprovalToken, error)
	MarkUsed(ctx context.Context, hash string, usedAt time.Time) (bool, error)
	RevokeAllForLeave(ctx context.Context, leaveID uuid.UUID, revokedAt time.Time) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, tokens ...*ApprovalToken) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(tokens).Error
}

// FindByHash returns nil, nil when no row carries the digest.
func (r *repository) FindByHash(ctx context.Context, hash string) (*ApprovalToken, error) {
	var t ApprovalToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", hash).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkUsed flips is_used only while it is still false; the boolean reports
// whether this call was the one that flipped it.
func (r *repository) MarkUsed(ctx context.Context, hash string, usedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&ApprovalToken{}).
		Where("token_hash = ? AND is_used = ?", hash, false).
		Updates(map[string]any{
			"is_used": true,
			"used_at": usedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) RevokeAllForLeave(ctx context.Context, leaveID uuid.UUID, revokedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&ApprovalToken{}).
		Where("leave_id = ? AND is_used = ?", leaveID, false).
		Updates(map[string]any{
			"is_used":    true,
			"revoked_at": revokedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&ApprovalToken{})
	return res.RowsAffected, res.Error
}
