package email

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailStatus string

const (
	EmailPending EmailStatus = "PENDING"
	EmailSent    EmailStatus = "SENT"
	EmailFailed  EmailStatus = "FAILED"
)

// SentEmail is the audit entry of one outbound send attempt. Created once
// per attempt; immutable afterwards except for the PENDING -> SENT|FAILED
// status transition.
type SentEmail struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Module    string                 `bson:"module" json:"module"`
	SourceID  string                 `bson:"source_id,omitempty" json:"source_id,omitempty"`
	From      string                 `bson:"from" json:"from"`
	To        []string               `bson:"to" json:"to"`
	Cc        []string               `bson:"cc,omitempty" json:"cc,omitempty"`
	Bcc       []string               `bson:"bcc,omitempty" json:"bcc,omitempty"`
	Subject   string                 `bson:"subject" json:"subject"`
	HtmlBody  string                 `bson:"html_body,omitempty" json:"html_body,omitempty"`
	TextBody  string                 `bson:"text_body,omitempty" json:"text_body,omitempty"`
	Status    EmailStatus            `bson:"status" json:"status"`
	ErrorMsg  string                 `bson:"error_message,omitempty" json:"error_message,omitempty"`
	MessageID string                 `bson:"message_id,omitempty" json:"message_id,omitempty"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
	SentAt    *time.Time             `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
}
