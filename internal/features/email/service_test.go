package email

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memoryEmailRepo struct {
	mu      sync.Mutex
	records map[string]*SentEmail
}

func newMemoryEmailRepo() *memoryEmailRepo {
	return &memoryEmailRepo{records: map[string]*SentEmail{}}
}

func (r *memoryEmailRepo) Create(ctx context.Context, email *SentEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if email.ID.IsZero() {
		email.ID = primitive.NewObjectID()
	}
	stored := *email
	r.records[email.ID.Hex()] = &stored
	return nil
}

func (r *memoryEmailRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status EmailStatus, errorMsg, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id.Hex()]
	if !ok {
		return errors.New("not found")
	}
	rec.Status = status
	rec.ErrorMsg = errorMsg
	rec.MessageID = messageID
	return nil
}

func (r *memoryEmailRepo) GetByID(ctx context.Context, id string) (*SentEmail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return rec, nil
}

func (r *memoryEmailRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]SentEmail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []SentEmail{}
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (r *memoryEmailRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type stubSender struct {
	err       error
	messageID string
	sent      []*SentEmail
}

func (s *stubSender) Send(ctx context.Context, email *SentEmail) (string, error) {
	s.sent = append(s.sent, email)
	if s.err != nil {
		return "", s.err
	}
	return s.messageID, nil
}

func TestDeliverMarksSent(t *testing.T) {
	repo := newMemoryEmailRepo()
	sender := &stubSender{messageID: "<abc@mail.test>"}
	service := NewEmailService(repo, sender, zap.NewNop())

	record, err := service.Deliver(context.Background(), &SentEmail{
		Module:  "leave",
		To:      []string{"approver@acme.test"},
		Subject: "Leave request LR-204",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	assert.Equal(t, EmailSent, record.Status)
	assert.Equal(t, "<abc@mail.test>", record.MessageID)
	assert.NotNil(t, record.SentAt)

	stored, err := repo.GetByID(context.Background(), record.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, EmailSent, stored.Status)
}

func TestDeliverMarksFailedOnTransportError(t *testing.T) {
	repo := newMemoryEmailRepo()
	sender := &stubSender{err: ErrTransportFailure}
	service := NewEmailService(repo, sender, zap.NewNop())

	record, err := service.Deliver(context.Background(), &SentEmail{
		Module:  "expense",
		To:      []string{"approver@acme.test"},
		Subject: "Expense claim EXP-11",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransportFailure)

	require.NotNil(t, record)
	assert.Equal(t, EmailFailed, record.Status)
	assert.NotEmpty(t, record.ErrorMsg)

	stored, err := repo.GetByID(context.Background(), record.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, EmailFailed, stored.Status)
}

func TestExportEmailsProducesWorkbook(t *testing.T) {
	repo := newMemoryEmailRepo()
	sender := &stubSender{messageID: "<x@mail.test>"}
	service := NewEmailService(repo, sender, zap.NewNop())

	_, err := service.Deliver(context.Background(), &SentEmail{
		Module:  "timesheet",
		To:      []string{"lead@acme.test"},
		Subject: "Timesheet W34",
	})
	require.NoError(t, err)

	data, err := service.ExportEmails(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	// xlsx files are zip archives
	require.Greater(t, len(data), 4)
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
