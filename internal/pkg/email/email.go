package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/xrocketry/attendee-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// LowAttendanceEntry is one row of the aggregate admin report.
type LowAttendanceEntry struct {
	Name        string
	Email       string
	HoursWorked float64
	Deficit     float64
}

// RemovedSession is one discarded open session in the incomplete-session
// mail.
type RemovedSession struct {
	EntryTime time.Time
}

// Service is the notification sink for the cleanup and audit jobs.
// Implementations must never block core logic: callers treat failures as
// log-and-continue.
type Service interface {
	SendLowAttendanceNotification(to, name string, hoursWorked, requiredHours float64, date time.Time) error
	SendAdminLowAttendanceReport(to []string, entries []LowAttendanceEntry, requiredHours float64, date time.Time) error
	SendIncompleteSessionNotification(to, name string, removed []RemovedSession, date time.Time) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (Service, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type lowAttendanceEmailData struct {
	Name          string
	Date          string
	HoursWorked   string
	RequiredHours string
	Deficit       string
}

// SendLowAttendanceNotification mails an individual user whose worked
// hours fell below the daily requirement.
func (s *emailServiceImpl) SendLowAttendanceNotification(to, name string, hoursWorked, requiredHours float64, date time.Time) error {
	data := lowAttendanceEmailData{
		Name:          name,
		Date:          date.Format("Mon Jan 02 2006"),
		HoursWorked:   fmt.Sprintf("%.2f", hoursWorked),
		RequiredHours: fmt.Sprintf("%.2f", requiredHours),
		Deficit:       fmt.Sprintf("%.2f", requiredHours-hoursWorked),
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "low_attendance.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Low Attendance Alert - %s", data.Date)
	return s.sendHTML([]string{to}, subject, body.String())
}

type adminReportRow struct {
	Name        string
	Email       string
	HoursWorked string
	Deficit     string
}

type adminReportEmailData struct {
	Date          string
	Count         int
	RequiredHours string
	Rows          []adminReportRow
}

// SendAdminLowAttendanceReport mails the aggregate daily report to the
// configured admin recipients.
func (s *emailServiceImpl) SendAdminLowAttendanceReport(to []string, entries []LowAttendanceEntry, requiredHours float64, date time.Time) error {
	if len(to) == 0 {
		slog.Warn("No admin emails configured, skipping low attendance report")
		return nil
	}

	data := adminReportEmailData{
		Date:          date.Format("Mon Jan 02 2006"),
		Count:         len(entries),
		RequiredHours: fmt.Sprintf("%.2f", requiredHours),
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, adminReportRow{
			Name:        e.Name,
			Email:       e.Email,
			HoursWorked: fmt.Sprintf("%.2f", e.HoursWorked),
			Deficit:     fmt.Sprintf("%.2f", e.Deficit),
		})
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "admin_report.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Daily Low Attendance Report - %s", data.Date)
	return s.sendHTML(to, subject, body.String())
}

type incompleteSessionEmailData struct {
	Name       string
	Date       string
	EntryTimes []string
}

// SendIncompleteSessionNotification mails a user whose open sessions were
// discarded by the nightly cleanup, listing the voided entry times.
func (s *emailServiceImpl) SendIncompleteSessionNotification(to, name string, removed []RemovedSession, date time.Time) error {
	data := incompleteSessionEmailData{
		Name: name,
		Date: date.Format("Mon Jan 02 2006"),
	}
	for _, r := range removed {
		data.EntryTimes = append(data.EntryTimes, r.EntryTime.Format("3:04:05 PM"))
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "incomplete_session.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Incomplete Session Alert - %s", data.Date)
	return s.sendHTML([]string{to}, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to []string, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" || s.cfg.Username == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", strings.Join(to, ", "))
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, to, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
