package mailer

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/techmart-online/storefront-api/config"
)

// smtpTimeout bounds the connect and every read/write. A hung relay degrades
// checkout latency by at most this much before the sendmail fallback runs.
const smtpTimeout = 10 * time.Second

// smtpSend speaks a minimal client-side SMTP dialogue over a raw TCP
// connection. Any unexpected response code, socket error or timeout aborts
// the attempt with an error; the caller decides whether to fall back.
func smtpSend(cfg config.Config, to, subject, body string, headers []string) error {
	address := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))

	conn, err := net.DialTimeout("tcp", address, smtpTimeout)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", address, err)
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)

	read := func() (int, string, error) {
		if err := conn.SetReadDeadline(time.Now().Add(smtpTimeout)); err != nil {
			return 0, "", err
		}
		var response strings.Builder
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return 0, "", err
			}
			response.WriteString(line)
			// "250-..." marks a continued multiline reply.
			if len(line) >= 4 && line[3] == '-' {
				continue
			}
			break
		}
		text := response.String()
		if len(text) < 3 {
			return 0, "", fmt.Errorf("short SMTP response %q", text)
		}
		code, err := strconv.Atoi(text[:3])
		if err != nil {
			return 0, "", fmt.Errorf("malformed SMTP response %q", strings.TrimSpace(text))
		}
		return code, text, nil
	}

	write := func(s string) error {
		if err := conn.SetWriteDeadline(time.Now().Add(smtpTimeout)); err != nil {
			return err
		}
		_, err := conn.Write([]byte(s))
		return err
	}

	send := func(command string) error {
		return write(command + "\r\n")
	}

	expect := func(context string, codes ...int) error {
		code, text, err := read()
		if err != nil {
			return fmt.Errorf("%s: %w", context, err)
		}
		for _, want := range codes {
			if code == want {
				return nil
			}
		}
		return fmt.Errorf("unexpected SMTP response during %s: %s", context, strings.TrimSpace(text))
	}

	if err := expect("connection", 220); err != nil {
		return err
	}

	if err := send("EHLO " + localHostname()); err != nil {
		return err
	}
	if err := expect("EHLO", 250); err != nil {
		return err
	}

	if err := send("MAIL FROM:<" + cfg.MailFromAddress + ">"); err != nil {
		return err
	}
	if err := expect("MAIL FROM", 250); err != nil {
		return err
	}

	recipients := splitRecipients(to)
	if len(recipients) == 0 {
		return fmt.Errorf("no valid SMTP recipient provided")
	}
	for _, recipient := range recipients {
		if err := send("RCPT TO:<" + recipient + ">"); err != nil {
			return err
		}
		if err := expect("RCPT TO", 250, 251); err != nil {
			return err
		}
	}

	if err := send("DATA"); err != nil {
		return err
	}
	if err := expect("DATA", 354); err != nil {
		return err
	}

	message := assembleMessage(subject, body, headers)
	if err := write(message + ".\r\n"); err != nil {
		return err
	}
	if err := expect("message body", 250); err != nil {
		return err
	}

	// Best effort; the message was already accepted.
	_ = send("QUIT")
	return nil
}

func splitRecipients(to string) []string {
	var recipients []string
	for _, part := range strings.Split(to, ",") {
		if part = strings.TrimSpace(part); part != "" {
			recipients = append(recipients, part)
		}
	}
	return recipients
}

// assembleMessage prepends Subject to the header block and dot-stuffs the
// combined payload so a leading "." never terminates the DATA phase early.
func assembleMessage(subject, body string, headers []string) string {
	headerBlock := strings.Join(append([]string{"Subject: " + subject}, headers...), "\r\n")
	message := headerBlock + "\r\n\r\n" + body
	message = dotStuff(message)
	return strings.TrimRight(message, "\r\n") + "\r\n"
}

func dotStuff(message string) string {
	lines := strings.Split(message, "\r\n")
	for i, line := range lines {
		if strings.HasPrefix(line, ".") {
			lines[i] = "." + line
		}
	}
	return strings.Join(lines, "\r\n")
}

func localHostname() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "localhost"
}

// sendmailSend hands the message to the local mail-submission binary with the
// recipient list taken from the headers (-t). Fire and forget: a zero exit
// status is the only delivery guarantee.
func sendmailSend(cfg config.Config, to, subject, body string, headers []string) error {
	message := strings.Join([]string{
		"To: " + to,
		"Subject: " + subject,
		strings.Join(headers, "\r\n"),
		"",
		body,
	}, "\r\n")

	cmd := exec.Command(cfg.SendmailPath, "-t", "-i")
	cmd.Stdin = strings.NewReader(message)
	return cmd.Run()
}
