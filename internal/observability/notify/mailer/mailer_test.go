package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobmg/processdocs/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{From: "noreply@example.com"})
	require.Error(t, err)

	_, err = NewClient(Config{Host: "smtp.example.com"})
	require.Error(t, err)

	client, err := NewClient(Config{
		Host: "smtp.example.com",
		Port: 587,
		From: "noreply@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestSubjectLine(t *testing.T) {
	withLink := notify.DeliveryPayload{
		Links: []notify.DeliveredLink{{ProcessCode: "CIV1001"}},
	}
	assert.Equal(t, "Process documents ready (1 download(s))", subjectLine(withLink))

	empty := notify.DeliveryPayload{EmptyCodes: []string{"CIV1001"}}
	assert.Equal(t, "Process documents: no downloads produced", subjectLine(empty))
}

func TestFormatBody(t *testing.T) {
	expires := time.Date(2026, 3, 14, 10, 26, 53, 0, time.UTC)
	payload := notify.DeliveryPayload{
		Recipient: "clerk@example.com",
		Links: []notify.DeliveredLink{
			{
				ProcessCode: "CIV1001",
				URL:         "https://bucket.s3.amazonaws.com/signed?X-Amz-Expires=3600",
				ExpiresAt:   expires,
			},
		},
		EmptyCodes:  []string{"CIV1002"},
		FailedCodes: []string{"CIV1003"},
	}

	body := FormatBody(payload)

	assert.Contains(t, body, "Process CIV1001")
	assert.Contains(t, body, `href="https://bucket.s3.amazonaws.com/signed?X-Amz-Expires=3600"`)
	assert.Contains(t, body, expires.UTC().Format(time.RFC1123))
	assert.Contains(t, body, "No documents were found for: CIV1002.")
	assert.Contains(t, body, "Processing failed for: CIV1003. Please resubmit those codes.")
}

func TestFormatBodyEscapesHTML(t *testing.T) {
	payload := notify.DeliveryPayload{
		Links: []notify.DeliveredLink{
			{
				ProcessCode: `<script>alert("x")</script>`,
				URL:         `https://example.com/?a=1&b=2`,
			},
		},
	}

	body := FormatBody(payload)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "a=1&amp;b=2")
}

func TestFormatBodyNoLinks(t *testing.T) {
	body := FormatBody(notify.DeliveryPayload{FailedCodes: []string{"CIV1001"}})

	assert.NotContains(t, body, "<ul>")
	assert.Contains(t, body, "Processing failed for: CIV1001.")
}

func TestBuildMessageRequiresRecipient(t *testing.T) {
	_, err := buildMessage("noreply@example.com", notify.DeliveryPayload{})
	require.Error(t, err)

	msg, err := buildMessage("noreply@example.com", notify.DeliveryPayload{
		Recipient: "clerk@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, msg)
}
