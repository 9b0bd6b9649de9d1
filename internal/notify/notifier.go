// Package notify delivers out-of-band messages (OTP codes, card balance
// notices) to cardholders. Delivery is fire-and-forget from the caller's
// point of view: failures are logged, never propagated into the transfer
// pipeline.
package notify

import "log/slog"

// Notifier sends a text message to a phone number.
type Notifier interface {
	Send(phone, text string) error
}

// LogNotifier writes messages to the log instead of delivering them. It is
// the default sender for environments without Telegram credentials.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the message and reports success.
func (n *LogNotifier) Send(phone, text string) error {
	n.logger.Info("sending message", "phone", phone, "text", text)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
