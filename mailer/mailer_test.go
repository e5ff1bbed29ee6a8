package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/techmart-online/storefront-api/config"
)

func TestNormalizeBody(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare LF", "hello\nworld", "hello\r\nworld\r\n"},
		{"already CRLF", "hello\r\nworld\r\n", "hello\r\nworld\r\n"},
		{"many trailing newlines", "hello\n\n\n", "hello\r\n"},
		{"empty", "", "\r\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeBody(tc.in))
		})
	}
}

func TestNormalizeHeadersInjectsDefaults(t *testing.T) {
	cfg := config.Config{
		MailFromName:    "TechMart Online",
		MailFromAddress: "orders@techmart.example",
		BaseURL:         "https://shop.techmart.example",
	}

	headers := normalizeHeaders(cfg, []string{"Reply-To: support@techmart.example", "  ", "not a header"})

	joined := strings.Join(headers, "\n")
	assert.Contains(t, joined, "Reply-To: support@techmart.example")
	assert.Contains(t, joined, "From: TechMart Online <orders@techmart.example>")
	assert.Contains(t, joined, "MIME-Version: 1.0")
	assert.Contains(t, joined, "Content-Transfer-Encoding: 8bit")
	assert.Contains(t, joined, "Date: ")
	assert.Contains(t, joined, "Message-ID: <")
	assert.Contains(t, joined, "@shop.techmart.example>")
	assert.NotContains(t, joined, "not a header")
}

func TestNormalizeHeadersKeepsCallerFrom(t *testing.T) {
	cfg := config.Config{MailFromName: "Default", MailFromAddress: "default@example.com"}

	headers := normalizeHeaders(cfg, []string{"From: Custom Sender <custom@example.com>"})

	joined := strings.Join(headers, "\n")
	assert.Contains(t, joined, "From: Custom Sender <custom@example.com>")
	assert.NotContains(t, joined, "default@example.com")
}

func TestMessageIDDomain(t *testing.T) {
	assert.Equal(t, "shop.example.com", messageIDDomain(config.Config{BaseURL: "https://shop.example.com/store"}))
	assert.Equal(t, "localhost", messageIDDomain(config.Config{BaseURL: ""}))
	assert.Equal(t, "localhost", messageIDDomain(config.Config{BaseURL: "://bad"}))
}

func TestDeliverRejectsHeaderInjection(t *testing.T) {
	cfg := config.Config{SendmailPath: "/nonexistent/sendmail"}

	assert.False(t, Deliver(cfg, "victim@example.com\r\nBcc: spam@example.com", "Hi", "body", nil))
	assert.False(t, Deliver(cfg, "victim@example.com\nBcc: spam@example.com", "Hi", "body", nil))
	assert.False(t, Deliver(cfg, "   ", "Hi", "body", nil))
}

func TestDeliverReportsFailureWhenAllTransportsFail(t *testing.T) {
	// No SMTP host and a sendmail path that does not exist: both transports
	// fail and Deliver must say so without panicking.
	cfg := config.Config{SendmailPath: "/nonexistent/sendmail"}

	assert.False(t, Deliver(cfg, "shopper@example.com", "Order Confirmation", "Thanks!", nil))
}
