package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the part of the Twilio Api service the sender uses.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// WhatsAppSender sends codes through Twilio Messages using the whatsapp:
// address scheme.
type WhatsAppSender struct {
	api  messageCreator
	from string
}

func NewWhatsAppSender(accountSID, authToken, from string) *WhatsAppSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &WhatsAppSender{api: client.Api, from: whatsappAddr(from)}
}

func whatsappAddr(phone string) string {
	if strings.HasPrefix(phone, "whatsapp:") {
		return phone
	}
	return "whatsapp:" + phone
}

func (s *WhatsAppSender) Channel() string { return ChannelWhatsApp }

// SendVerificationCode ignores ctx: the Twilio client has no context support.
func (s *WhatsAppSender) SendVerificationCode(_ context.Context, phone, code string) error {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(whatsappAddr(phone))
	params.SetBody(codeMessage(code))

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	var sid string
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	slog.Info("whatsapp verification code sent", "phone", phone, "sid", sid)
	return nil
}
