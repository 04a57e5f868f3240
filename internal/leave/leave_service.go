package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leave/internal/approvaltoken"
	approvaltokenerrors "go-leave/internal/approvaltoken/errors"
	"go-leave/internal/auth"
	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/bootstrap"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error)
	ApplyAction(ctx context.Context, cmd ActionCommand) (ActionResponse, error)
	PreviewEmailAction(ctx context.Context, token string) (EmailActionPreview, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	ListPendingForManager(ctx context.Context, managerID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, viewerID, id string) (LeaveResponse, error)
}

// UserDirectory resolves employees and managers.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*auth.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

type Config struct {
	// TokenTTL is how long emailed approval links stay usable.
	TokenTTL time.Duration
	Audit    bootstrap.AuditLogger
	Now      func() time.Time
}

type service struct {
	db       *gorm.DB
	repo     Repository
	tokens   approvaltoken.Service
	users    UserDirectory
	verifier CredentialVerifier
	notifier Notifier
	rdb      *redis.Client
	sf       *singleflight.Group
	tokenTTL time.Duration
	audit    bootstrap.AuditLogger
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	tokens approvaltoken.Service,
	users UserDirectory,
	verifier CredentialVerifier,
	notifier Notifier,
	rdb *redis.Client,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.Audit == nil {
		cfg.Audit = bootstrap.NopAuditLogger{}
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		db:       db,
		repo:     repo,
		tokens:   tokens,
		users:    users,
		verifier: verifier,
		notifier: notifier,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		tokenTTL: cfg.TokenTTL,
		audit:    cfg.Audit,
		now:      cfg.Now,
		logger:   l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("submit leave requested",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	employee, err := s.users.GetByID(ctx, empID)
	if err != nil {
		if errors.Is(err, autherrors.ErrUserNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}

	manager, err := s.users.GetByEmail(ctx, req.ManagerEmail)
	if err != nil {
		if errors.Is(err, autherrors.ErrUserNotFound) {
			return LeaveResponse{}, leaveerrors.ErrManagerNotFound
		}
		return LeaveResponse{}, err
	}
	if manager.ID == employee.ID {
		return LeaveResponse{}, leaveerrors.ErrSelfApproval
	}
	if !manager.IsManager() {
		return LeaveResponse{}, leaveerrors.ErrNotAManager
	}

	l, err := NewLeave(employee.ID, manager.ID, req.LeaveType, req.StartDate, req.EndDate, req.Reason, s.now())
	if err != nil {
		log.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	var pair approvaltoken.Pair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := qtx.LockEmployee(ctx, l.EmployeeID); err != nil {
			return err
		}

		overlap, err := qtx.HasOverlappingPeriod(ctx, l.EmployeeID, l.StartDate, l.EndDate)
		if err != nil {
			return err
		}
		if overlap {
			log.Warn("submit leave overlap detected",
				zap.String("employee_id", employeeID),
				zap.String("start_date", req.StartDate),
				zap.String("end_date", req.EndDate),
			)
			return leaveerrors.ErrLeaveOverlap
		}

		if err := qtx.Create(ctx, l); err != nil {
			return err
		}

		pair, err = s.tokens.WithTx(tx).MintPair(ctx, l.ID, l.ManagerID, s.tokenTTL)
		return err
	})
	if err != nil {
		if !isAppError(err) {
			log.Error("submit leave persist failed", zap.Error(err))
		}
		return LeaveResponse{}, err
	}

	leavesSubmitted.Inc()
	s.invalidatePendingCache(ctx, l.ManagerID)

	resp := mapToResponse(*l)
	log.Info("submit leave success",
		zap.String("leave_id", resp.ID),
		zap.String("employee_id", resp.EmployeeID),
		zap.String("manager_id", resp.ManagerID),
	)

	if err := s.notifier.NotifyManager(ctx, ManagerNotification{
		Leave:    resp,
		Employee: contactOf(employee),
		Manager:  contactOf(manager),
		Tokens:   pair,
	}); err != nil {
		log.Warn("notify manager failed",
			zap.String("leave_id", resp.ID),
			zap.Error(err),
		)
	}

	return resp, nil
}

func (s *service) ApplyAction(ctx context.Context, cmd ActionCommand) (resp ActionResponse, err error) {
	log := s.log(ctx)
	defer func() {
		leaveActions.WithLabelValues(string(cmd.Channel), cmd.Action.Status(), resultLabel(err)).Inc()
	}()

	if !cmd.Action.Valid() {
		return ActionResponse{}, leaveerrors.ErrInvalidAction
	}
	if !cmd.Channel.Valid() {
		return ActionResponse{}, leaveerrors.ErrInvalidChannel
	}

	// 1. leave harus ada
	l, err := s.repo.FindByID(ctx, cmd.LeaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActionResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return ActionResponse{}, err
	}

	// 2. hanya boleh sekali
	if l.IsActionTaken {
		return ActionResponse{}, leaveerrors.ErrAlreadyResolved
	}

	// 3. otorisasi per channel
	approverID, err := s.authorize(ctx, l, cmd)
	if err != nil {
		log.Warn("leave action rejected",
			zap.String("leave_id", l.ID.String()),
			zap.String("channel", string(cmd.Channel)),
			zap.String("action", cmd.Action.String()),
			zap.String("token_prefix", approvaltoken.Prefix(cmd.Token)),
			zap.Error(err),
		)
		return ActionResponse{}, err
	}

	now := s.now()
	res := Resolution{
		Status:          cmd.Action.Status(),
		ApproverID:      approverID,
		ActionTimestamp: now,
		ProcessedVia:    cmd.Channel,
		Comments:        optionalString(cmd.Comments),
	}

	resolved := *l
	resolved.Status = res.Status
	resolved.IsActionTaken = true
	resolved.ApproverID = &res.ApproverID
	resolved.ActionTimestamp = &res.ActionTimestamp
	resolved.ProcessedVia = res.ProcessedVia
	resolved.Comments = res.Comments
	resolved.UpdatedAt = now
	leaveResp := mapToResponse(resolved)

	stager, _ := s.notifier.(OutboxNotifier)
	var staged *EmployeeNotification
	if stager != nil {
		staged = s.employeeNotification(ctx, l, leaveResp)
	}
	queued := false

	// 4-5. update bersyarat + konsumsi token + revoke (+ outbox) dalam satu transaksi
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).ResolveIfPending(ctx, l.ID, res)
		if err != nil {
			return err
		}
		if !ok {
			return leaveerrors.ErrAlreadyResolved
		}

		tokens := s.tokens.WithTx(tx)
		if cmd.Channel == ChannelEmail {
			won, err := tokens.Consume(ctx, cmd.Token)
			if err != nil {
				return err
			}
			if !won {
				return approvaltokenerrors.ErrTokenInvalid
			}
		}

		if _, err := tokens.RevokeAllForLeave(ctx, l.ID); err != nil {
			return err
		}

		if staged != nil {
			queued, err = stager.StageEmployee(ctx, tx, *staged)
			if err != nil {
				return fmt.Errorf("stage employee notification: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if !isAppError(err) {
			log.Error("leave action persist failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		}
		return ActionResponse{}, err
	}
	*l = resolved

	log.Info("leave resolved",
		zap.String("leave_id", leaveResp.ID),
		zap.String("status", leaveResp.Status),
		zap.String("processed_via", leaveResp.ProcessedVia),
		zap.String("approver_id", approverID.String()),
	)
	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "LEAVE_RESOLVED",
		ActorID: approverID.String(),
		Message: fmt.Sprintf("leave %s %s via %s", leaveResp.ID, leaveResp.Status, leaveResp.ProcessedVia),
		Meta: map[string]any{
			"leave_id":      leaveResp.ID,
			"status":        leaveResp.Status,
			"processed_via": leaveResp.ProcessedVia,
		},
	})

	s.invalidatePendingCache(ctx, l.ManagerID)
	switch {
	case queued:
	case staged != nil:
		s.sendEmployee(ctx, *staged)
	default:
		if msg := s.employeeNotification(ctx, l, leaveResp); msg != nil {
			s.sendEmployee(ctx, *msg)
		}
	}

	return ActionResponse{
		Status:   leaveResp.Status,
		Message:  fmt.Sprintf("Leave request %s successfully.", leaveResp.Status),
		Comments: leaveResp.Comments,
		Leave:    leaveResp,
	}, nil
}

// authorize returns the approver id recorded on the leave.
func (s *service) authorize(ctx context.Context, l *Leave, cmd ActionCommand) (uuid.UUID, error) {
	switch cmd.Channel {
	case ChannelDashboard:
		if cmd.ActorID == uuid.Nil || cmd.ActorID != l.ManagerID {
			return uuid.Nil, leaveerrors.ErrUnauthorizedApprover
		}
		return cmd.ActorID, nil

	case ChannelEmail:
		record, err := s.tokens.Validate(ctx, cmd.Token)
		if err != nil {
			return uuid.Nil, err
		}
		if !record.Matches(l.ID, l.ManagerID, cmd.Action) {
			return uuid.Nil, leaveerrors.ErrSecurityMismatch
		}

		manager, err := s.users.GetByID(ctx, l.ManagerID)
		if err != nil {
			if errors.Is(err, autherrors.ErrUserNotFound) {
				return uuid.Nil, leaveerrors.ErrInvalidCredential
			}
			return uuid.Nil, err
		}
		if !s.verifier.Verify(cmd.Password, manager.Password) {
			return uuid.Nil, leaveerrors.ErrInvalidCredential
		}
		return manager.ID, nil
	}
	return uuid.Nil, leaveerrors.ErrInvalidChannel
}

// employeeNotification returns nil when either party can no longer be found.
func (s *service) employeeNotification(ctx context.Context, l *Leave, resp LeaveResponse) *EmployeeNotification {
	log := s.log(ctx)

	employee, err := s.users.GetByID(ctx, l.EmployeeID)
	if err != nil {
		log.Warn("notify employee skipped: employee lookup failed", zap.String("leave_id", resp.ID), zap.Error(err))
		return nil
	}
	manager, err := s.users.GetByID(ctx, l.ManagerID)
	if err != nil {
		log.Warn("notify employee skipped: manager lookup failed", zap.String("leave_id", resp.ID), zap.Error(err))
		return nil
	}

	return &EmployeeNotification{
		Leave:    resp,
		Employee: contactOf(employee),
		Manager:  contactOf(manager),
	}
}

func (s *service) sendEmployee(ctx context.Context, msg EmployeeNotification) {
	if err := s.notifier.NotifyEmployee(ctx, msg); err != nil {
		s.log(ctx).Warn("notify employee failed", zap.String("leave_id", msg.Leave.ID), zap.Error(err))
	}
}

func (s *service) PreviewEmailAction(ctx context.Context, token string) (EmailActionPreview, error) {
	record, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return EmailActionPreview{}, err
	}

	l, err := s.repo.FindByID(ctx, record.LeaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmailActionPreview{}, leaveerrors.ErrLeaveNotFound
		}
		return EmailActionPreview{}, err
	}
	if l.IsActionTaken {
		return EmailActionPreview{}, leaveerrors.ErrAlreadyResolved
	}

	return EmailActionPreview{
		Leave:     mapToResponse(*l),
		Action:    record.Action.String(),
		ExpiresAt: record.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	leaves, err := s.repo.FindByEmployee(ctx, empID)
	if err != nil {
		s.log(ctx).Error("list leaves for employee failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListPendingForManager(ctx context.Context, managerID string) ([]LeaveResponse, error) {
	mgrID, err := uuid.Parse(managerID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	// 1. Cek Redis
	resp, gen, ok := s.readPendingCache(ctx, mgrID)
	if ok {
		return resp, nil
	}

	// 2. Singleflight supaya dashboard yang di-refresh bersamaan cukup satu query.
	// Generasi ikut di key, caller yang datang setelah invalidasi tidak ikut flight lama.
	flightKey := GetPendingApprovalsKey(mgrID) + "@" + gen
	fillCtx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(flightKey, func() (interface{}, error) {
		leaves, err := s.repo.FindPendingByManager(fillCtx, mgrID)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(leaves)
		s.writePendingCache(fillCtx, mgrID, gen, resp)
		return resp, nil
	})
	if err != nil {
		s.log(ctx).Error("list pending approvals failed", zap.Error(err))
		return nil, err
	}

	return v.([]LeaveResponse), nil
}

func (s *service) GetByID(ctx context.Context, viewerID, id string) (LeaveResponse, error) {
	viewer, err := uuid.Parse(viewerID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if viewer != l.EmployeeID && viewer != l.ManagerID {
		return LeaveResponse{}, leaveerrors.ErrLeaveAccessDenied
	}
	return mapToResponse(*l), nil
}

func contactOf(u *auth.User) Contact {
	return Contact{ID: u.ID.String(), Name: u.Name, Email: u.Email}
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func isAppError(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr)
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return apperror.ToHTTP(err).Code
}
