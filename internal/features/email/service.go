package email

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

type EmailService interface {
	// Deliver records the email as PENDING, attempts transport, and
	// flips the record to SENT or FAILED. The returned record reflects
	// the final status even when err is non-nil.
	Deliver(ctx context.Context, email *SentEmail) (*SentEmail, error)
	GetEmail(ctx context.Context, id string) (*SentEmail, error)
	ListEmails(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]SentEmail, error)
	ExportEmails(ctx context.Context, filter map[string]interface{}) ([]byte, error)
}

type EmailServiceImpl struct {
	Repo   EmailRepository
	Sender Sender
	Logger *zap.Logger
}

func NewEmailService(repo EmailRepository, sender Sender, logger *zap.Logger) EmailService {
	return &EmailServiceImpl{
		Repo:   repo,
		Sender: sender,
		Logger: logger,
	}
}

func (s *EmailServiceImpl) Deliver(ctx context.Context, email *SentEmail) (*SentEmail, error) {
	email.Status = EmailPending
	email.CreatedAt = time.Now().UTC()

	if err := s.Repo.Create(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to record outgoing email: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	messageID, sendErr := s.Sender.Send(sendCtx, email)
	if sendErr != nil {
		email.Status = EmailFailed
		email.ErrorMsg = sendErr.Error()
		if err := s.Repo.UpdateStatus(ctx, email.ID, EmailFailed, sendErr.Error(), ""); err != nil {
			s.Logger.Error("failed to mark email as failed",
				zap.String("module", email.Module),
				zap.String("email_id", email.ID.Hex()),
				zap.Error(err))
		}
		s.Logger.Error("email delivery failed",
			zap.String("module", email.Module),
			zap.Strings("to", email.To),
			zap.Error(sendErr))
		return email, sendErr
	}

	email.Status = EmailSent
	email.MessageID = messageID
	now := time.Now().UTC()
	email.SentAt = &now
	if err := s.Repo.UpdateStatus(ctx, email.ID, EmailSent, "", messageID); err != nil {
		s.Logger.Error("failed to mark email as sent",
			zap.String("module", email.Module),
			zap.String("email_id", email.ID.Hex()),
			zap.Error(err))
	}

	s.Logger.Info("email sent",
		zap.String("module", email.Module),
		zap.Strings("to", email.To),
		zap.String("subject", email.Subject))
	return email, nil
}

func (s *EmailServiceImpl) GetEmail(ctx context.Context, id string) (*SentEmail, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *EmailServiceImpl) ListEmails(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]SentEmail, error) {
	return s.Repo.List(ctx, filter, limit, offset)
}

func (s *EmailServiceImpl) ExportEmails(ctx context.Context, filter map[string]interface{}) ([]byte, error) {
	emails, err := s.Repo.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch emails for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sent Emails"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Module", "Source ID", "To", "Subject", "Status", "Error", "Created At", "Sent At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, e := range emails {
		values := []interface{}{
			e.Module,
			e.SourceID,
			strings.Join(e.To, ", "),
			e.Subject,
			string(e.Status),
			e.ErrorMsg,
			e.CreatedAt.Format(time.RFC3339),
			formatSentAt(e.SentAt),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func formatSentAt(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
