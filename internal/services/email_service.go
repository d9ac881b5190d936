package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"hivedesk/internal/logger"
)

// EmailService is the notification sender used by the auth flow.
type EmailService interface {
	SendOTP(email, code, name string) error
	SendWelcomeEmail(email, name string) error
}

type EmailOptions struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string
	AppURL       string
	OTPTTLText   string // e.g. "10 minutes"
}

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender mailSender
	opts   EmailOptions
	log    *logger.Logger
}

func NewEmailService(opts EmailOptions, log *logger.Logger) EmailService {
	dialer := gomail.NewDialer(opts.SMTPHost, opts.SMTPPort, opts.SMTPUser, opts.SMTPPassword)
	return &emailService{sender: dialer, opts: opts, log: log}
}

func (s *emailService) newMessage(to, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.opts.FromEmail, s.opts.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	return m
}

func (s *emailService) SendOTP(email, code, name string) error {
	if name == "" {
		name = "User"
	}
	m := s.newMessage(email, "Your HiveDesk Verification Code")

	text := fmt.Sprintf(`HiveDesk Verification Code

Hello %s!

Your verification code is: %s

This code will expire in %s.
Do not share this code with anyone.

If you didn't request this code, please ignore this email.
`, name, code, s.opts.OTPTTLText)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>Hello %s!</h2>
			<p>Please use the verification code below to complete your authentication:</p>
			<h1 style="letter-spacing: 8px;">%s</h1>
			<ul>
				<li>This code will expire in %s</li>
				<li>Do not share this code with anyone</li>
				<li>If you didn't request this code, please ignore this email</li>
			</ul>
		</div>
	`, html.EscapeString(name), code, s.opts.OTPTTLText)

	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	s.log.Info("[email][otp] sent", "to", email)
	return nil
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	m := s.newMessage(email, "Welcome to HiveDesk!")

	body := fmt.Sprintf(`
		<h2>Welcome to HiveDesk, %s!</h2>
		<p>Your account has been successfully created and verified.</p>
		<p><a href="%s/dashboard">Go to Dashboard</a></p>
		<p>Thank you for choosing HiveDesk!</p>
	`, html.EscapeString(name), s.opts.AppURL)

	m.SetBody("text/html", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

// dryRunEmailService writes codes to the log instead of sending mail.
type dryRunEmailService struct {
	log *logger.Logger
}

func NewDryRunEmailService(log *logger.Logger) EmailService {
	return &dryRunEmailService{log: log}
}

func (s *dryRunEmailService) SendOTP(email, code, name string) error {
	s.log.Info("[email][dry-run] otp", "to", email, "name", name, "code", code)
	return nil
}

func (s *dryRunEmailService) SendWelcomeEmail(email, name string) error {
	s.log.Info("[email][dry-run] welcome", "to", email, "name", name)
	return nil
}
