package notify

import (
	"errors"

	"go.uber.org/zap"
)

var ErrDeliveryFailed = errors.New("delivery failed")

// Notifier delivers out-of-band enrollment material and reset codes.
// Implementations must bound their own I/O time; callers never hold an
// account or session lock across a Send.
type Notifier interface {
	SendEnrollment(contact, username, enrollmentURI string) error
	SendResetCode(contact, username, code string) error
}

// LogNotifier is used when SMTP is unconfigured; it records that a delivery
// would have happened without disclosing the payload.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendEnrollment(contact, username, enrollmentURI string) error {
	n.log.Info("enrollment delivery skipped (no SMTP configured)",
		zap.String("username", username))
	return nil
}

func (n *LogNotifier) SendResetCode(contact, username, code string) error {
	n.log.Info("reset code delivery skipped (no SMTP configured)",
		zap.String("username", username))
	return nil
}
