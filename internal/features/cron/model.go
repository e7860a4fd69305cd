package cron_feature

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SweepLog records one retention sweep run.
type SweepLog struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StartTime            time.Time          `json:"start_time" bson:"start_time"`
	EndTime              *time.Time         `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Status               string             `json:"status" bson:"status"` // "success", "failed", "running"
	Cutoff               time.Time          `json:"cutoff" bson:"cutoff"`
	TokensDeleted        int64              `json:"tokens_deleted" bson:"tokens_deleted"`
	ExpiredTokensDeleted int64              `json:"expired_tokens_deleted" bson:"expired_tokens_deleted"`
	EmailsDeleted        int64              `json:"emails_deleted" bson:"emails_deleted"`
	AuditDeleted         int64              `json:"audit_deleted" bson:"audit_deleted"`
	LogsDeleted          int64              `json:"logs_deleted" bson:"logs_deleted"`
	Error                string             `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
}
