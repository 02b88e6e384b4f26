// Package mailer delivers batch completion notifications over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/autobmg/processdocs/internal/observability/notify"
)

// Config captures the subset of SMTP behaviour we need.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Client delivers batch delivery notifications to a requester's mailbox.
type Client struct {
	from   string
	client *mail.Client
}

var _ notify.Sink = (*Client)(nil)

// NewClient builds an SMTP client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, errors.New("smtp host is required")
	}
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		return nil, errors.New("smtp from address is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &Client{from: from, client: client}, nil
}

// SendDelivery mails the requester the delivery links of a finished batch.
func (c *Client) SendDelivery(ctx context.Context, payload notify.DeliveryPayload) error {
	msg, err := buildMessage(c.from, payload)
	if err != nil {
		return err
	}
	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send delivery mail: %w", err)
	}
	return nil
}

func buildMessage(from string, payload notify.DeliveryPayload) (*mail.Msg, error) {
	if strings.TrimSpace(payload.Recipient) == "" {
		return nil, errors.New("delivery recipient is required")
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(payload.Recipient); err != nil {
		return nil, fmt.Errorf("set recipient address: %w", err)
	}
	msg.Subject(subjectLine(payload))
	msg.SetBodyString(mail.TypeTextHTML, FormatBody(payload))
	return msg, nil
}

func subjectLine(payload notify.DeliveryPayload) string {
	if len(payload.Links) == 0 {
		return "Process documents: no downloads produced"
	}
	return fmt.Sprintf("Process documents ready (%d download(s))", len(payload.Links))
}

// FormatBody renders the notification body. Exported for tests.
func FormatBody(payload notify.DeliveryPayload) string {
	var b strings.Builder
	b.WriteString("<p>Your document batch has finished processing.</p>")

	if len(payload.Links) > 0 {
		b.WriteString("<ul>")
		for _, link := range payload.Links {
			fmt.Fprintf(&b, `<li>Process %s: <a href="%s">download</a> (valid until %s)</li>`,
				html.EscapeString(link.ProcessCode),
				html.EscapeString(link.URL),
				link.ExpiresAt.UTC().Format(time.RFC1123))
		}
		b.WriteString("</ul>")
	}

	if len(payload.EmptyCodes) > 0 {
		fmt.Fprintf(&b, "<p>No documents were found for: %s.</p>",
			html.EscapeString(strings.Join(payload.EmptyCodes, ", ")))
	}
	if len(payload.FailedCodes) > 0 {
		fmt.Fprintf(&b, "<p>Processing failed for: %s. Please resubmit those codes.</p>",
			html.EscapeString(strings.Join(payload.FailedCodes, ", ")))
	}

	return b.String()
}
