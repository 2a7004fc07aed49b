package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// CrisisAlert describes an emergency booking a counselor must be told about
type CrisisAlert struct {
	CounselorEmail string
	CounselorName  string
	UserID         string
	AppointmentID  string
	Date           string
	Time           string
	Source         string
}

// CrisisNotifier sends crisis alerts
type CrisisNotifier interface {
	NotifyCrisisBooking(ctx context.Context, alert CrisisAlert) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	// AlertEmail receives a copy of every alert, e.g. the counselling centre desk
	AlertEmail string
}

// SMTPNotifier implements CrisisNotifier over SMTP
type SMTPNotifier struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(to []string, message []byte) error
}

// NewSMTPNotifier creates a new SMTPNotifier
func NewSMTPNotifier(config SMTPConfig, logger zerolog.Logger) *SMTPNotifier {
	n := &SMTPNotifier{
		config: config,
		logger: logger,
	}
	n.send = n.sendSMTP
	return n
}

// NotifyCrisisBooking mails the counselor (and the alert desk) about an emergency booking
func (s *SMTPNotifier) NotifyCrisisBooking(ctx context.Context, alert CrisisAlert) error {
	recipients := s.recipients(alert)
	if len(recipients) == 0 {
		s.logger.Warn().Str("appointmentID", alert.AppointmentID).Msg("No recipient for crisis alert")
		return nil
	}

	// If username or password is empty, log the alert (for development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Strs("to", recipients).
			Str("appointmentID", alert.AppointmentID).
			Str("date", alert.Date).
			Str("time", alert.Time).
			Msg("SMTP credentials not configured - crisis alert not sent.")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("Urgent: emergency session on %s at %s", alert.Date, alert.Time)
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #b91c1c;">Crisis intervention booking</h2>
				<p>Hello %s,</p>
				<p>A student message in the %s was classified as a crisis and an emergency session was booked with you.</p>
				<ul>
					<li>Appointment: <strong>%s</strong></li>
					<li>Date: %s</li>
					<li>Time: %s</li>
					<li>Student: %s</li>
				</ul>
				<p>Please reach out to the student as early as possible.</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(alert.CounselorName), html.EscapeString(alert.Source),
		html.EscapeString(alert.AppointmentID), html.EscapeString(alert.Date),
		html.EscapeString(alert.Time), html.EscapeString(alert.UserID))

	message := s.buildMessage(recipients, subject, body)
	if err := s.send(recipients, message); err != nil {
		s.logger.Error().Err(err).Str("appointmentID", alert.AppointmentID).Msg("Failed to send crisis alert")
		return err
	}
	return nil
}

func (s *SMTPNotifier) recipients(alert CrisisAlert) []string {
	var to []string
	if alert.CounselorEmail != "" {
		to = append(to, alert.CounselorEmail)
	}
	if s.config.AlertEmail != "" && s.config.AlertEmail != alert.CounselorEmail {
		to = append(to, s.config.AlertEmail)
	}
	return to
}

// buildMessage renders headers in a stable order followed by the HTML body
func (s *SMTPNotifier) buildMessage(to []string, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           strings.Join(to, ", "),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, k := range names {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// sendSMTP delivers message, over implicit TLS when configured
func (s *SMTPNotifier) sendSMTP(to []string, message []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, to, message); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
