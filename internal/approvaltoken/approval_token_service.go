package approvaltoken

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	approvaltokenerrors "go-leave/internal/approvaltoken/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// 32 byte = 256 bit entropy, jadi 43 karakter base64url tanpa padding.
	tokenBytes  = 32
	prefixChars = 8
)

//go:generate mockgen -source=approval_token_service.go -destination=mock/approval_token_service_mock.go -package=mock
type Service interface {
	WithTx(tx *gorm.DB) Service
	Mint(ctx context.Context, leaveID, managerID uuid.UUID, action Action, validity time.Duration) (string, error)
	MintPair(ctx context.Context, leaveID, managerID uuid.UUID, validity time.Duration) (Pair, error)
	Validate(ctx context.Context, token string) (*ApprovalToken, error)
	Consume(ctx context.Context, token string) (bool, error)
	RevokeAllForLeave(ctx context.Context, leaveID uuid.UUID) (int64, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithClock(repo, func() time.Time { return time.Now().UTC() }, logger...)
}

// NewServiceWithClock is NewService with an explicit time source.
func NewServiceWithClock(repo Repository, now func() time.Time, logger ...*zap.Logger) Service {
	l := zap.L().Named("approvaltoken.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approvaltoken.service")
	}
	return &service{repo: repo, now: now, logger: l}
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx), now: s.now, logger: s.logger}
}

func (s *service) Mint(ctx context.Context, leaveID, managerID uuid.UUID, action Action, validity time.Duration) (string, error) {
	if !action.Valid() {
		return "", approvaltokenerrors.ErrInvalidAction
	}

	plain, record, err := s.newToken(leaveID, managerID, action, validity)
	if err != nil {
		return "", err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("persist approval token failed",
			zap.String("leave_id", leaveID.String()),
			zap.String("action", action.String()),
			zap.Error(err),
		)
		return "", err
	}

	tokensMinted.WithLabelValues(action.String()).Inc()
	s.logger.Info("approval token minted",
		zap.String("leave_id", leaveID.String()),
		zap.String("action", action.String()),
		zap.String("token_prefix", record.TokenPrefix),
		zap.Time("expires_at", record.ExpiresAt),
	)
	return plain, nil
}

func (s *service) MintPair(ctx context.Context, leaveID, managerID uuid.UUID, validity time.Duration) (Pair, error) {
	approvePlain, approveRec, err := s.newToken(leaveID, managerID, ActionApprove, validity)
	if err != nil {
		return Pair{}, err
	}
	rejectPlain, rejectRec, err := s.newToken(leaveID, managerID, ActionReject, validity)
	if err != nil {
		return Pair{}, err
	}

	if err := s.repo.Create(ctx, approveRec, rejectRec); err != nil {
		s.logger.Error("persist approval token pair failed",
			zap.String("leave_id", leaveID.String()),
			zap.Error(err),
		)
		return Pair{}, err
	}

	tokensMinted.WithLabelValues(ActionApprove.String()).Inc()
	tokensMinted.WithLabelValues(ActionReject.String()).Inc()
	s.logger.Info("approval token pair minted",
		zap.String("leave_id", leaveID.String()),
		zap.String("approve_prefix", approveRec.TokenPrefix),
		zap.String("reject_prefix", rejectRec.TokenPrefix),
		zap.Time("expires_at", approveRec.ExpiresAt),
	)

	return Pair{Approve: approvePlain, Reject: rejectPlain}, nil
}

func (s *service) Validate(ctx context.Context, token string) (*ApprovalToken, error) {
	if token == "" {
		return nil, approvaltokenerrors.ErrTokenInvalid
	}

	record, err := s.repo.FindByHash(ctx, HashToken(token))
	if err != nil {
		return nil, err
	}
	if record == nil || !record.IsLive(s.now()) {
		s.logger.Debug("approval token rejected", zap.String("token_prefix", Prefix(token)))
		return nil, approvaltokenerrors.ErrTokenInvalid
	}
	return record, nil
}

func (s *service) Consume(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	won, err := s.repo.MarkUsed(ctx, HashToken(token), s.now())
	if err != nil {
		return false, err
	}

	if won {
		tokensConsumed.WithLabelValues("won").Inc()
	} else {
		tokensConsumed.WithLabelValues("lost").Inc()
		s.logger.Info("approval token already consumed", zap.String("token_prefix", Prefix(token)))
	}
	return won, nil
}

func (s *service) RevokeAllForLeave(ctx context.Context, leaveID uuid.UUID) (int64, error) {
	n, err := s.repo.RevokeAllForLeave(ctx, leaveID, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		tokensRevoked.Add(float64(n))
		s.logger.Info("approval tokens revoked",
			zap.String("leave_id", leaveID.String()),
			zap.Int64("count", n),
		)
	}
	return n, nil
}

func (s *service) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		tokensSwept.Add(float64(n))
	}
	return n, nil
}

func (s *service) newToken(leaveID, managerID uuid.UUID, action Action, validity time.Duration) (string, *ApprovalToken, error) {
	if validity < 0 {
		validity = 0
	}

	plain, err := generateToken()
	if err != nil {
		s.logger.Error("approval token entropy read failed", zap.Error(err))
		return "", nil, approvaltokenerrors.ErrTokenGenerationFailed
	}

	now := s.now()
	return plain, &ApprovalToken{
		ID:          uuid.New(),
		TokenHash:   HashToken(plain),
		TokenPrefix: Prefix(plain),
		LeaveID:     leaveID,
		ManagerID:   managerID,
		Action:      action,
		ExpiresAt:   now.Add(validity),
		IsUsed:      false,
		CreatedAt:   now,
	}, nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken is the lookup key stored in place of the plaintext token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Prefix returns the part of a token that is safe to log.
func Prefix(token string) string {
	if len(token) <= prefixChars {
		return token
	}
	return token[:prefixChars]
}
