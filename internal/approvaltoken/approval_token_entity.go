package approvaltoken

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	return a, a.Valid()
}

func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// Status is the leave status the action resolves to.
func (a Action) Status() string {
	switch a {
	case ActionApprove:
		return "approved"
	case ActionReject:
		return "rejected"
	}
	return ""
}

func (a Action) String() string {
	return string(a)
}

// ApprovalToken is the stored side of a one-time email link. The plaintext
// token is never persisted, only its SHA-256 digest.
type ApprovalToken struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TokenHash   string    `gorm:"type:char(64);uniqueIndex:uq_approval_tokens_hash;not null"`
	TokenPrefix string    `gorm:"type:varchar(8);not null"`
	LeaveID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ManagerID   uuid.UUID `gorm:"type:uuid;not null"`
	Action      Action    `gorm:"type:varchar(16);not null"`
	ExpiresAt   time.Time `gorm:"not null;index"`
	IsUsed      bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UsedAt      *time.Time
	RevokedAt   *time.Time
}

func (ApprovalToken) TableName() string {
	return "approval_tokens"
}

// IsLive: belum dipakai, belum dicabut, dan belum lewat expiry.
func (t *ApprovalToken) IsLive(now time.Time) bool {
	return !t.IsUsed && t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// Matches reports whether the token was minted for exactly this leave,
// manager and action.
func (t *ApprovalToken) Matches(leaveID, managerID uuid.UUID, action Action) bool {
	return t.LeaveID == leaveID && t.ManagerID == managerID && t.Action == action
}

// Pair holds the plaintext tokens handed to the notifier after a submit.
type Pair struct {
	Approve string
	Reject  string
}

func (p Pair) For(action Action) string {
	if action == ActionReject {
		return p.Reject
	}
	return p.Approve
}
