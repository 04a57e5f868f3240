package events

import "time"

const LeaveResolvedTopic = "hr.leave.resolved.v1"

const LeaveResolvedEventType = "leave_resolved"

// LeaveResolvedEvent is emitted once a leave leaves pending.
type LeaveResolvedEvent struct {
	EventType     string    `json:"event_type"`
	LeaveID       string    `json:"leave_id"`
	Status        string    `json:"status"`
	ProcessedVia  string    `json:"processed_via"`
	Comments      string    `json:"comments,omitempty"`
	LeaveType     string    `json:"leave_type"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	EmployeeID    string    `json:"employee_id"`
	EmployeeName  string    `json:"employee_name"`
	EmployeeEmail string    `json:"employee_email"`
	ManagerName   string    `json:"manager_name"`
	OccurredAt    time.Time `json:"occurred_at"`
}
