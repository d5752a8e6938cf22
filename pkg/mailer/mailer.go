/**
 * @description
 * This package sends transactional email through the SendGrid v3 mail API.
 *
 * @dependencies
 * - github.com/sendgrid/sendgrid-go: SendGrid client and mail helpers.
 */
package mailer

import (
	"context"
	"fmt"
	"strings"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	DefaultBaseURL = "https://api.sendgrid.com"
	mailSendPath   = "/v3/mail/send"
)

// Message is a single outbound email with both a plaintext and an HTML part.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// SendGridMailer sends messages from a fixed sender address.
type SendGridMailer struct {
	apiKey   string
	baseURL  string
	fromName string
	fromAddr string
}

// NewSendGridMailer creates a mailer. An empty baseURL falls back to the public API host.
func NewSendGridMailer(apiKey, baseURL, fromName, fromAddr string) *SendGridMailer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &SendGridMailer{
		apiKey:   apiKey,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		fromName: fromName,
		fromAddr: fromAddr,
	}
}

// From renders the sender as "Name <address>".
func (m *SendGridMailer) From() string {
	return fmt.Sprintf("%s <%s>", m.fromName, m.fromAddr)
}

// Send delivers msg. SendGrid answers 202 on acceptance; any status >= 300 is an error.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mailer: recipient address is required")
	}

	from := mail.NewEmail(m.fromName, m.fromAddr)
	to := mail.NewEmail(msg.ToName, msg.To)
	v3 := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	request := sendgrid.GetRequest(m.apiKey, mailSendPath, m.baseURL)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(v3)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d for %s: %s", response.StatusCode, msg.To, strings.TrimSpace(response.Body))
	}

	return nil
}
