package task

import "time"

type TaskStatus string

const (
	TaskPending  TaskStatus = "pending"
	TaskApproved TaskStatus = "approved"
	TaskRejected TaskStatus = "rejected"
)

// Decision records who resolved the task and how.
type Decision struct {
	Action     string    `bson:"action" json:"action"`
	ApproverID string    `bson:"approver_id" json:"approver_id"`
	Remarks    string    `bson:"remarks,omitempty" json:"remarks,omitempty"`
	At         time.Time `bson:"at" json:"at"`
}

// Task is an approval work item. IDs are small sequential integers so
// they survive round trips through email links and token claims.
type Task struct {
	ID          int        `bson:"task_id" json:"task_id"`
	Module      string     `bson:"module" json:"module"`
	SourceID    string     `bson:"source_id" json:"source_id"`
	Title       string     `bson:"title" json:"title"`
	RequesterID string     `bson:"requester_id,omitempty" json:"requester_id,omitempty"`
	ApproverID  string     `bson:"approver_id" json:"approver_id"`
	Status      TaskStatus `bson:"status" json:"status"`
	Decision    *Decision  `bson:"decision,omitempty" json:"decision,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

type CreateTaskRequest struct {
	Module      string `json:"module" validate:"required"`
	SourceID    string `json:"source_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	RequesterID string `json:"requester_id"`
	ApproverID  string `json:"approver_id" validate:"required"`
}
