package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	config "github.com/anjiri1684/learnsphere/configs"
	"github.com/pkg/errors"
)

const defaultBrevoURL = "https://api.brevo.com/v3/smtp/email"

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	URL         string
	client      *http.Client
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func NewBrevoService(apiKey, senderEmail, senderName, url string) *BrevoService {
	if url == "" {
		url = defaultBrevoURL
	}
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		URL:         url,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		slog.Warn("email service not configured, notifications are disabled")
		EmailClient = nil
		return
	}

	EmailClient = NewBrevoService(apiKey, senderEmail, senderName, config.Config("BREVO_API_URL"))
	slog.Info("email service initialized", "sender", senderEmail)
}

// Enabled reports whether outgoing e-mail is configured.
func Enabled() bool {
	return EmailClient != nil
}

func (s *BrevoService) Send(toEmail, toName, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return errors.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	body, err := json.Marshal(brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	})
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequest(http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return errors.Errorf("brevo rejected email: status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// SendEmail delivers one message and only logs failures. Callers usually run it
// in its own goroutine.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		slog.Debug("email client not initialized, skipping email", "to", toEmail, "subject", subject)
		return
	}

	if err := EmailClient.Send(toEmail, toName, subject, htmlContent); err != nil {
		slog.Error("failed to send email", "to", toEmail, "error", err)
		return
	}
	slog.Info("email sent", "to", toEmail, "subject", subject)
}

func TestResultEmail(testTitle string, score, total int) (string, string) {
	subject := fmt.Sprintf("Your result for %s", testTitle)
	body := fmt.Sprintf("<h1>Test submitted</h1><p>Your answers for <b>%s</b> were received.</p><p>Score: <b>%d / %d</b></p>",
		testTitle, score, total)
	return subject, body
}

func DueDateReminderEmail(testTitle, courseTitle string, dueDate time.Time) (string, string) {
	subject := fmt.Sprintf("Reminder: %s is due tomorrow", testTitle)
	body := fmt.Sprintf("<h1>Test Reminder</h1><p>The test <b>%s</b> in <b>%s</b> is due on %s.</p><p>You have not submitted it yet.</p>",
		testTitle, courseTitle, dueDate.Format("Mon Jan 2 15:04 MST"))
	return subject, body
}

func ClosedTestSummaryEmail(testTitle string, submissions, suspicious int64) (string, string) {
	subject := fmt.Sprintf("%s has closed", testTitle)
	body := fmt.Sprintf("<h1>Test closed</h1><p><b>%s</b> is past its due date.</p><ul><li>Submissions: %d</li><li>Suspicious activities: %d</li></ul>",
		testTitle, submissions, suspicious)
	return subject, body
}
