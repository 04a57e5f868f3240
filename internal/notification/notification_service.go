package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-leave/internal/approvaltoken"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Config struct {
	// ApprovalBaseURL is the landing page the emailed links point at.
	ApprovalBaseURL string
	// TokenTTL is only used to print the expiry in the email.
	TokenTTL time.Duration
	Now      func() time.Time
}

// Service emails managers directly and hands employee notifications to the
// outbox. Without an outbox the employee email is sent inline.
type Service struct {
	mailer Mailer
	outbox kafka.OutboxRepository
	cfg    Config
	logger *zap.Logger
}

var _ leave.OutboxNotifier = (*Service)(nil)

func NewService(mailer Mailer, outbox kafka.OutboxRepository, cfg Config, logger ...*zap.Logger) *Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &Service{mailer: mailer, outbox: outbox, cfg: cfg, logger: l}
}

func (s *Service) NotifyManager(ctx context.Context, msg leave.ManagerNotification) error {
	log := contextutil.GetLogger(ctx, s.logger)

	approveURL, err := ActionURL(s.cfg.ApprovalBaseURL, msg.Tokens.Approve, approvaltoken.ActionApprove.String())
	if err != nil {
		return err
	}
	rejectURL, err := ActionURL(s.cfg.ApprovalBaseURL, msg.Tokens.Reject, approvaltoken.ActionReject.String())
	if err != nil {
		return err
	}

	html, text, err := render(managerHTMLTpl, managerTextTpl, managerEmailData{
		EmployeeName: msg.Employee.Name,
		LeaveType:    msg.Leave.LeaveType,
		StartDate:    msg.Leave.StartDate,
		EndDate:      msg.Leave.EndDate,
		TotalDays:    msg.Leave.TotalDays,
		Reason:       msg.Leave.Reason,
		ApproveURL:   approveURL,
		RejectURL:    rejectURL,
		ExpiresAt:    s.cfg.Now().Add(s.cfg.TokenTTL).Format("02 Jan 2006 15:04 MST"),
	})
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, Message{
		To:      msg.Manager.Email,
		Subject: fmt.Sprintf("Leave request from %s (%s to %s)", msg.Employee.Name, msg.Leave.StartDate, msg.Leave.EndDate),
		Text:    text,
		HTML:    html,
	}); err != nil {
		return err
	}

	log.Info("manager notified",
		zap.String("leave_id", msg.Leave.ID),
		zap.String("manager_id", msg.Manager.ID),
		zap.String("approve_prefix", approvaltoken.Prefix(msg.Tokens.Approve)),
		zap.String("reject_prefix", approvaltoken.Prefix(msg.Tokens.Reject)),
	)
	return nil
}

func (s *Service) NotifyEmployee(ctx context.Context, msg leave.EmployeeNotification) error {
	event := s.resolvedEvent(msg)
	if s.outbox == nil {
		return s.HandleLeaveResolved(ctx, event)
	}
	return s.enqueue(ctx, s.outbox, event)
}

// StageEmployee writes the leave_resolved outbox row inside tx so it commits
// together with the resolution. Without an outbox nothing is staged.
func (s *Service) StageEmployee(ctx context.Context, tx *gorm.DB, msg leave.EmployeeNotification) (bool, error) {
	if s.outbox == nil {
		return false, nil
	}
	sqlTx, ok := tx.Statement.ConnPool.(*sql.Tx)
	if !ok {
		return false, errors.New("outbox staging requires an open transaction")
	}
	if err := s.enqueue(ctx, s.outbox.WithTx(sqlTx), s.resolvedEvent(msg)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) resolvedEvent(msg leave.EmployeeNotification) events.LeaveResolvedEvent {
	event := events.LeaveResolvedEvent{
		EventType:     events.LeaveResolvedEventType,
		LeaveID:       msg.Leave.ID,
		Status:        msg.Leave.Status,
		ProcessedVia:  msg.Leave.ProcessedVia,
		LeaveType:     msg.Leave.LeaveType,
		StartDate:     msg.Leave.StartDate,
		EndDate:       msg.Leave.EndDate,
		EmployeeID:    msg.Employee.ID,
		EmployeeName:  msg.Employee.Name,
		EmployeeEmail: msg.Employee.Email,
		ManagerName:   msg.Manager.Name,
		OccurredAt:    s.cfg.Now(),
	}
	if msg.Leave.Comments != nil {
		event.Comments = *msg.Leave.Comments
	}
	return event
}

func (s *Service) enqueue(ctx context.Context, repo kafka.OutboxRepository, event events.LeaveResolvedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := kafka.NewOutboxEvent(events.LeaveResolvedTopic, "leave", event.LeaveID, event.EventType, payload)
	outboxEvent.RequestID = contextutil.GetRequestID(ctx)
	if err := repo.Create(ctx, outboxEvent); err != nil {
		return fmt.Errorf("enqueue leave_resolved: %w", err)
	}

	contextutil.GetLogger(ctx, s.logger).Info("leave_resolved queued",
		zap.String("leave_id", event.LeaveID),
		zap.String("outbox_id", outboxEvent.ID),
	)
	return nil
}

// HandleLeaveResolved emails the employee the outcome of their request.
func (s *Service) HandleLeaveResolved(ctx context.Context, event events.LeaveResolvedEvent) error {
	html, text, err := render(employeeHTMLTpl, employeeTextTpl, employeeEmailData{
		ManagerName: event.ManagerName,
		Status:      event.Status,
		LeaveType:   event.LeaveType,
		StartDate:   event.StartDate,
		EndDate:     event.EndDate,
		Comments:    event.Comments,
	})
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, Message{
		To:      event.EmployeeEmail,
		Subject: fmt.Sprintf("Your leave request was %s", event.Status),
		Text:    text,
		HTML:    html,
	}); err != nil {
		return err
	}

	contextutil.GetLogger(ctx, s.logger).Info("employee notified",
		zap.String("leave_id", event.LeaveID),
		zap.String("status", event.Status),
		zap.String("request_id", contextutil.GetRequestID(ctx)),
	)
	return nil
}
