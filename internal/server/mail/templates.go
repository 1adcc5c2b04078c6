package mail

import (
	"fmt"
	"html"
	"time"
)

const layoutTop = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 24px; background-color: #f9f9f9; border-radius: 8px;">
  <h2 style="color: #1a1a2e; margin-top: 0;">%s</h2>`

const layoutBottom = `  <p style="color: #888; font-size: 12px; margin-top: 32px;">If you did not expect this email you can safely ignore it.</p>
</div>`

// SignupOTPHTML renders the email-verification message sent during signup.
func SignupOTPHTML(name, code string, validity time.Duration) string {
	return fmt.Sprintf(layoutTop, "Verify your email") + fmt.Sprintf(`
  <p style="color: #333;">Hi %s,</p>
  <p style="color: #333;">Thanks for signing up for HigherPolynomia. Use the code below to verify your email address:</p>
  <div style="background-color: #1a1a2e; color: #ffffff; font-size: 28px; letter-spacing: 8px; text-align: center; padding: 16px; border-radius: 6px; margin: 16px 0;">%s</div>
  <p style="color: #333;">This code expires in %d minutes.</p>
`, html.EscapeString(name), html.EscapeString(code), int(validity.Minutes())) + layoutBottom
}

// ResetOTPHTML renders the password-reset verification message.
func ResetOTPHTML(name, code string, validity time.Duration) string {
	return fmt.Sprintf(layoutTop, "Reset your password") + fmt.Sprintf(`
  <p style="color: #333;">Hi %s,</p>
  <p style="color: #333;">We received a request to reset your password. Use the code below to continue:</p>
  <div style="background-color: #1a1a2e; color: #ffffff; font-size: 28px; letter-spacing: 8px; text-align: center; padding: 16px; border-radius: 6px; margin: 16px 0;">%s</div>
  <p style="color: #333;">This code expires in %d minutes. If you did not request a reset, your password is unchanged.</p>
`, html.EscapeString(name), html.EscapeString(code), int(validity.Minutes())) + layoutBottom
}

// DoubtAcceptedHTML renders the notification sent when an instructor
// schedules a requested doubt session.
func DoubtAcceptedHTML(name, topic, duration, meetLink string, scheduledAt time.Time) string {
	return fmt.Sprintf(layoutTop, "Your doubt session is scheduled") + fmt.Sprintf(`
  <p style="color: #333;">Hi %s,</p>
  <p style="color: #333;">Good news: your doubt session on <strong>%s</strong> has been accepted.</p>
  <table style="width: 100%%; border-collapse: collapse; margin: 16px 0;">
    <tr><td style="padding: 8px; color: #666;">When</td><td style="padding: 8px; color: #333;">%s</td></tr>
    <tr><td style="padding: 8px; color: #666;">Duration</td><td style="padding: 8px; color: #333;">%s</td></tr>
  </table>
  <a href="%s" style="display: inline-block; background-color: #1a1a2e; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Join the session</a>
`, html.EscapeString(name), html.EscapeString(topic), FormatSchedule(scheduledAt), html.EscapeString(duration), html.EscapeString(meetLink)) + layoutBottom
}

// DoubtRejectedHTML renders the notification sent when a doubt session
// request is declined.
func DoubtRejectedHTML(name, topic string) string {
	return fmt.Sprintf(layoutTop, "About your doubt session request") + fmt.Sprintf(`
  <p style="color: #333;">Hi %s,</p>
  <p style="color: #333;">Unfortunately we could not schedule your doubt session on <strong>%s</strong> at this time.</p>
  <p style="color: #333;">Feel free to submit a new request with a different topic or timing.</p>
`, html.EscapeString(name), html.EscapeString(topic)) + layoutBottom
}
