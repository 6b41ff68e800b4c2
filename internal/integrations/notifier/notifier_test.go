package notifier

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/quotedprintable"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type fakeSender struct {
	messages []*gomail.Message
	err      error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.messages = append(f.messages, m...)
	return f.err
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	decoded, err := io.ReadAll(quotedprintable.NewReader(&buf))
	require.NoError(t, err)
	return string(decoded)
}

func TestSMTP_SendBookingConfirmation(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(sender, "noreply@example.com", logger.Nop())

	err := n.SendBookingConfirmation(context.Background(), BookingConfirmation{
		To:          "client@example.com",
		ContactName: "Анна",
		CaseNumber:  "CASE-2025-0001",
		Date:        "2025-03-03",
		StartTime:   "10:00",
		EndTime:     "10:30",
		MeetingLink: "https://meet/abc",
	})

	require.NoError(t, err)
	require.Len(t, sender.messages, 1)
	assert.Equal(t, []string{"client@example.com"}, sender.messages[0].GetHeader("To"))

	body := render(t, sender.messages[0])
	assert.Contains(t, body, "CASE-2025-0001")
	assert.Contains(t, body, "https://meet/abc")
	assert.Contains(t, body, "10:00-10:30")
}

func TestSMTP_SendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	n := NewWithSender(sender, "noreply@example.com", logger.Nop())

	err := n.SendCaseReceived(context.Background(), CaseReceived{To: "client@example.com", CaseNumber: "CASE-2025-0002"})
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestSMTP_CancelledContext(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(sender, "noreply@example.com", logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.SendCaseReceived(ctx, CaseReceived{To: "client@example.com"})
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Empty(t, sender.messages)
}
