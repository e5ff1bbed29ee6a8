// Package mailer delivers plain-text email best-effort: a hand-rolled SMTP
// client first, then the local sendmail binary. Callers never see an error;
// delivery failure is logged and reported as a boolean.
package mailer

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/techmart-online/storefront-api/config"
)

// Deliver sends a plain-text message to the recipient. It returns true only
// when one of the two transports reported success. Recipients containing
// CR or LF are rejected before any network activity (header injection).
func Deliver(cfg config.Config, to, subject, body string, headers []string) bool {
	recipient := strings.TrimSpace(to)
	if recipient == "" || strings.ContainsAny(recipient, "\r\n") {
		log.Printf("Refusing to send email: invalid recipient %q", to)
		return false
	}

	subject = strings.TrimSpace(subject)
	normalizedHeaders := normalizeHeaders(cfg, headers)
	normalizedBody := normalizeBody(body)

	if cfg.SMTPHost != "" {
		if err := smtpSend(cfg, recipient, subject, normalizedBody, normalizedHeaders); err == nil {
			return true
		} else {
			log.Printf("SMTP delivery failed, falling back to sendmail for %s: %v", recipient, err)
		}
	}

	if err := sendmailSend(cfg, recipient, subject, normalizedBody, normalizedHeaders); err != nil {
		log.Printf("sendmail failed to deliver message to %s: %v", recipient, err)
		return false
	}
	return true
}

// normalizeHeaders keeps well-formed caller headers and injects From,
// MIME-Version, Content-Transfer-Encoding, Date and Message-ID when absent.
func normalizeHeaders(cfg config.Config, headers []string) []string {
	var normalized []string
	seen := map[string]bool{}

	for _, line := range headers {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, _, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		normalized = append(normalized, line)
		seen[strings.ToLower(strings.TrimSpace(name))] = true
	}

	if !seen["from"] {
		normalized = append(normalized, fmt.Sprintf("From: %s <%s>", cfg.MailFromName, cfg.MailFromAddress))
	}
	if !seen["mime-version"] {
		normalized = append(normalized, "MIME-Version: 1.0")
	}
	if !seen["content-transfer-encoding"] {
		normalized = append(normalized, "Content-Transfer-Encoding: 8bit")
	}
	if !seen["date"] {
		normalized = append(normalized, "Date: "+time.Now().Format(time.RFC1123Z))
	}
	if !seen["message-id"] {
		normalized = append(normalized, fmt.Sprintf("Message-ID: <%s@%s>", strings.ReplaceAll(uuid.NewString(), "-", ""), messageIDDomain(cfg)))
	}

	return normalized
}

func messageIDDomain(cfg config.Config) string {
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return "localhost"
}

// normalizeBody converts line endings to CRLF and enforces exactly one
// trailing CRLF, per SMTP wire requirements.
func normalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\n", "\r\n")
	return strings.TrimRight(body, "\r\n") + "\r\n"
}
