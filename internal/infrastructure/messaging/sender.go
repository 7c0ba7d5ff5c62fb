package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/estate-leads-api/internal/config"
)

// Delivery channels reported by Sender.Channel.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
	ChannelLog      = "log"
)

// Sender delivers a verification code to a phone number.
type Sender interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
	// Channel names where codes actually go, after any fallback.
	Channel() string
}

func codeMessage(code string) string {
	return fmt.Sprintf("Your verification code is: %s\n\nThis code will expire in 10 minutes.", code)
}

// New picks the configured provider. Missing credentials fall back to the
// log sender so local development works without a messaging account.
func New(cfg *config.Config) Sender {
	switch cfg.MessagingProvider {
	case "whatsapp":
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
			slog.Warn("twilio credentials not configured; verification codes will only be logged")
			return NewLogSender()
		}
		return NewWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber)
	case "sms":
		s, err := NewSNSSender(cfg)
		if err != nil {
			slog.Warn("SNS sender not available; verification codes will only be logged", "err", err)
			return NewLogSender()
		}
		return s
	case "log":
		return NewLogSender()
	default:
		slog.Warn("unknown messaging provider; verification codes will only be logged", "provider", cfg.MessagingProvider)
		return NewLogSender()
	}
}

// LogSender writes codes to the log instead of delivering them.
type LogSender struct{}

func NewLogSender() *LogSender { return &LogSender{} }

func (LogSender) Channel() string { return ChannelLog }

func (LogSender) SendVerificationCode(_ context.Context, phone, code string) error {
	slog.Info("verification code issued", "phone", phone, "code", code)
	return nil
}
