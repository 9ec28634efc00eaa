package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveSubmitted = "leave.submitted"
	LeaveApproved  = "leave.approved"
	LeaveRejected  = "leave.rejected"
	LeaveCancelled = "leave.cancelled"
)

// LeaveLifecycleEvent is written to the outbox on every workflow transition.
// ManagerID is empty when the employee has no manager on record.
type LeaveLifecycleEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	LeaveID       string    `json:"leave_id"`
	RequestNumber string    `json:"request_number"`
	EmployeeID    string    `json:"employee_id"`
	EmployeeName  string    `json:"employee_name,omitempty"`
	ManagerID     string    `json:"manager_id,omitempty"`
	ReviewerID    string    `json:"reviewer_id,omitempty"`
	LeaveType     string    `json:"leave_type"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	DaysRequested int       `json:"days_requested"`
	Status        string    `json:"status"`
	Comments      string    `json:"comments,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

const NotificationTopic = "hr.notifications.v1"

// NotificationEvent is what the Kafka notifier publishes for downstream
// delivery channels.
type NotificationEvent struct {
	Kind        string    `json:"kind"`
	RecipientID string    `json:"recipient_id"`
	Message     string    `json:"message"`
	OccurredAt  time.Time `json:"occurred_at"`
}
