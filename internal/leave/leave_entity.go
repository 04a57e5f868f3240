package leave

import (
	"strings"
	"time"

	leaveerrors "go-leave/internal/leave/errors"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Channel is where an approval decision came from.
type Channel string

const (
	ChannelDashboard Channel = "dashboard"
	ChannelEmail     Channel = "email"
	// ChannelNone is stored on leaves that are still pending.
	ChannelNone Channel = "none"
)

func (c Channel) Valid() bool {
	return c == ChannelDashboard || c == ChannelEmail
}

const dateLayout = "2006-01-02"

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`
	ManagerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_manager_pending"`

	LeaveType string    `gorm:"type:varchar(30);not null;default:'ANNUAL'"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leaves_manager_pending"`
	IsActionTaken   bool       `gorm:"not null;default:false;index:idx_leaves_manager_pending"`
	ApproverID      *uuid.UUID `gorm:"type:uuid"`
	ActionTimestamp *time.Time
	ProcessedVia    Channel `gorm:"type:varchar(20);not null;default:'none'"`
	Comments        *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Leave) TableName() string {
	return "leaves"
}

// NewLeave builds a pending leave. Dates are calendar days in YYYY-MM-DD.
func NewLeave(employeeID, managerID uuid.UUID, leaveType, startDate, endDate, reason string, now time.Time) (*Leave, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, leaveerrors.ErrInvalidDateRange
	}

	return &Leave{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		ManagerID:     managerID,
		LeaveType:     strings.ToUpper(strings.TrimSpace(leaveType)),
		StartDate:     start,
		EndDate:       end,
		TotalDays:     int(end.Sub(start).Hours()/24) + 1,
		Reason:        strings.TrimSpace(reason),
		Status:        StatusPending,
		IsActionTaken: false,
		ProcessedVia:  ChannelNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (l *Leave) IsPending() bool {
	return !l.IsActionTaken && l.Status == StatusPending
}

// Resolution is the one-shot write applied when a leave leaves pending.
type Resolution struct {
	Status          string
	ApproverID      uuid.UUID
	ActionTimestamp time.Time
	ProcessedVia    Channel
	Comments        *string
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}
