package token

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenData is the decoded payload of an approval token. The tuple
// (TaskID, ApproverID, Action, Nonce) uniquely identifies one issuance.
type TokenData struct {
	TaskID       int    `json:"task_id"`
	ApproverID   string `json:"approver_id"`
	SourceModule string `json:"source_module"`
	SourceID     string `json:"source_id"`
	Action       string `json:"action"`
	IssuedAt     int64  `json:"issued_at"`
	Nonce        string `json:"nonce"`
}

// Record is the persisted side of an issued token, keyed by nonce. The
// token string itself is self-describing (signed payload), so only the
// one-time-use bit and audit fields live here. Mutated exclusively by
// Consume/Release; the issuer never touches a record after creation.
type Record struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nonce        string             `bson:"nonce" json:"nonce"`
	TaskID       int                `bson:"task_id" json:"task_id"`
	ApproverID   string             `bson:"approver_id" json:"approver_id"`
	SourceModule string             `bson:"source_module" json:"source_module"`
	SourceID     string             `bson:"source_id" json:"source_id"`
	TemplateName string             `bson:"template_name" json:"template_name"`
	Action       string             `bson:"action" json:"action"`
	IsUsed       bool               `bson:"is_used" json:"is_used"`
	UsedAt       *time.Time         `bson:"used_at,omitempty" json:"used_at,omitempty"`
	Remarks      string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
