// Package mail sends transactional email (verification codes, doubt
// session notifications) through Resend.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
)

// Sender delivers a single HTML email. The context is advisory: the
// Resend client does not accept one, so callers should treat delivery as
// best-effort after their own deadline.
type Sender interface {
	Send(ctx context.Context, to string, subject string, html string) error
}

// ResendSender implements Sender on top of the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey string, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, to string, subject string, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("sending email to %s: %w", to, err)
	}
	return nil
}

// OTPKind selects the wording of a verification email.
type OTPKind int

const (
	OTPSignup OTPKind = iota
	OTPReset
)

// OTPSubject returns the subject line for a verification email.
func OTPSubject(kind OTPKind) string {
	if kind == OTPReset {
		return "Password Reset Request"
	}
	return "Welcome to HigherPolynomia!"
}

// DoubtAcceptSubject and DoubtRejectSubject are the subject lines for the
// doubt-session workflow.
const (
	DoubtAcceptSubject = "Your Doubt Session is Scheduled!"
	DoubtRejectSubject = "Update on your Doubt Session Request"
)

// FormatSchedule renders a session timestamp the way the notification
// emails display it.
func FormatSchedule(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006 15:04 MST")
}
