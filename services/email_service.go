package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jagravi04/unimatch-finder/config"
	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/model"
)

const dialTimeout = 15 * time.Second

// EmailService sends applicant confirmation mails via SMTP
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailService creates a mailer from the loaded configuration
func NewEmailService(env *config.EnviornmentVariable) *EmailService {
	return &EmailService{
		host:     env.SMTP_HOST,
		port:     env.SMTP_PORT,
		username: env.SMTP_USERNAME,
		password: env.SMTP_PASSWORD,
		from:     env.SMTP_FROM,
	}
}

// IsConfigured checks if SMTP credentials are present
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// ApplicationSubmitted mails the applicant a receipt for their application
func (e *EmailService) ApplicationSubmitted(ctx context.Context, application model.Application, university model.University) error {
	if !e.IsConfigured() {
		log.Debugw("SMTP not configured, skipping confirmation", "application_id", application.ID)
		return nil
	}

	subject := fmt.Sprintf("Your application to %s", university.Name)
	return e.sendEmail(ctx, application.Email, subject, buildConfirmationBody(application, university))
}

func buildConfirmationBody(application model.Application, university model.University) string {
	name := strings.TrimSpace(application.FirstName + " " + application.LastName)
	if name == "" {
		name = "Applicant"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Application received</title></head>
<body>
<p>Hi %s,</p>
<p>We received your application to <strong>%s</strong> (%s, %s) for %s.</p>
<table>
<tr><td>Reference</td><td>%s</td></tr>
<tr><td>GPA</td><td>%s</td></tr>
<tr><td>IELTS</td><td>%s</td></tr>
<tr><td>Status</td><td>%s</td></tr>
</table>
<p>You will hear from us once the admissions team has reviewed it.</p>
</body>
</html>`,
		html.EscapeString(name),
		html.EscapeString(university.Name),
		html.EscapeString(university.City),
		html.EscapeString(university.Country),
		html.EscapeString(application.FieldOfStudy),
		html.EscapeString(application.ID),
		eligibility.FormatScore(application.GPA),
		eligibility.FormatScore(application.IELTSScore),
		application.Status,
	)
}

func buildMessage(from, to, subject, htmlBody string) string {
	headers := map[string]string{
		"From":         fmt.Sprintf("UniMatch <%s>", from),
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var message strings.Builder
	for _, k := range keys {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, headers[k]))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)
	return message.String()
}

// sendEmail sends an email using SMTP with STARTTLS. The whole exchange is
// bounded by ctx's deadline, or by dialTimeout when ctx has none.
func (e *EmailService) sendEmail(ctx context.Context, to, subject, htmlBody string) error {
	addr := net.JoinHostPort(e.host, strconv.Itoa(e.port))
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	dialer := net.Dialer{Timeout: dialTimeout}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(dialTimeout)
	}
	if err := netConn.SetDeadline(deadline); err != nil {
		netConn.Close()
		return fmt.Errorf("failed to set SMTP deadline: %w", err)
	}

	conn, err := smtp.NewClient(netConn, e.host)
	if err != nil {
		netConn.Close()
		return fmt.Errorf("failed to greet SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(&tls.Config{ServerName: e.host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write([]byte(buildMessage(e.from, to, subject, htmlBody))); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	_ = conn.Quit()
	log.Infow("confirmation email sent", "to", to)
	return nil
}
