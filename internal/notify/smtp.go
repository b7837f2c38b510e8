package notify

import (
	"fmt"
	"net"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/pawmark/auth-service/internal/config"
)

const defaultDialTimeout = 10 * time.Second

// SMTPNotifier sends plain-text mail over authenticated SMTP. The dial is
// bounded by the configured timeout so a slow mail server cannot stall a
// request indefinitely.
type SMTPNotifier struct {
	config *config.SMTPConfig
	log    *zap.Logger
}

func NewSMTPNotifier(config *config.SMTPConfig, log *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		config: config,
		log:    log,
	}
}

func (n *SMTPNotifier) SendEnrollment(contact, username, enrollmentURI string) error {
	subject := "Your two-factor enrollment"
	body := fmt.Sprintf(
		"Hello %s,\n\nScan the following URI with your authenticator app to finish enrollment:\n%s\n\nKeep it secret.\n",
		username, enrollmentURI)
	return n.send(contact, subject, body)
}

func (n *SMTPNotifier) SendResetCode(contact, username, code string) error {
	subject := "Your password reset code"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour password reset code is: %s\nIt expires in 15 minutes and can be used once.\n",
		username, code)
	return n.send(contact, subject, body)
}

func (n *SMTPNotifier) send(recipient, subject, body string) error {
	host, _, err := net.SplitHostPort(n.config.Server)
	if err != nil {
		return fmt.Errorf("invalid smtp server %q (expected host:port): %w", n.config.Server, err)
	}

	timeout := n.config.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	conn, err := net.DialTimeout("tcp", n.config.Server, timeout)
	if err != nil {
		n.log.Warn("smtp dial failed", zap.String("server", n.config.Server), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	conn.SetDeadline(time.Now().Add(timeout))

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(nil); err != nil {
			return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
	}

	auth := smtp.PlainAuth("", n.config.User, n.config.Password, host)
	if ok, _ := client.Extension("AUTH"); ok {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
	}

	if err := client.Mail(n.config.From); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	msg := fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s\r\n", recipient, subject, body)
	if _, err := wc.Write([]byte(msg)); err != nil {
		wc.Close()
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return client.Quit()
}
