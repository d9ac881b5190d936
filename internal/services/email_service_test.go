package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"hivedesk/internal/logger"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func newTestEmailService(sender mailSender) *emailService {
	return &emailService{
		sender: sender,
		opts: EmailOptions{
			FromEmail:  "noreply@hivedesk.test",
			FromName:   "HiveDesk",
			AppURL:     "http://localhost:3000",
			OTPTTLText: "10 minutes",
		},
		log: logger.Nop(),
	}
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestEmailService_SendOTP(t *testing.T) {
	sender := &fakeSender{}
	s := newTestEmailService(sender)

	require.NoError(t, s.SendOTP("ann@x.io", "482913", "Ann"))
	require.Len(t, sender.sent, 1)

	assert.Equal(t, []string{"ann@x.io"}, sender.sent[0].GetHeader("To"))
	raw := render(t, sender.sent[0])
	assert.Contains(t, raw, "482913")
	assert.Contains(t, raw, "10 minutes")
}

func TestEmailService_SendOTPDefaultsName(t *testing.T) {
	sender := &fakeSender{}
	s := newTestEmailService(sender)

	require.NoError(t, s.SendOTP("ann@x.io", "482913", ""))
	assert.Contains(t, render(t, sender.sent[0]), "Hello User!")
}

func TestEmailService_SendFailureIsWrapped(t *testing.T) {
	boom := errors.New("smtp down")
	s := newTestEmailService(&fakeSender{err: boom})

	err := s.SendOTP("ann@x.io", "482913", "Ann")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to send otp email"))
}

func TestEmailService_Welcome(t *testing.T) {
	sender := &fakeSender{}
	s := newTestEmailService(sender)

	require.NoError(t, s.SendWelcomeEmail("ann@x.io", "Ann"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, render(t, sender.sent[0]), "http://localhost:3000/dashboard")
}

func TestDryRunEmailService(t *testing.T) {
	s := NewDryRunEmailService(logger.Nop())
	assert.NoError(t, s.SendOTP("ann@x.io", "482913", "Ann"))
	assert.NoError(t, s.SendWelcomeEmail("ann@x.io", "Ann"))
}
