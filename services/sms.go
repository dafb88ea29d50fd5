package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts a fixed number through Twilio
type SMSNotifier struct {
	api    messageCreator
	from   string
	to     string
	logger zerolog.Logger
}

func NewSMSNotifier(accountSID, authToken, from, to string) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newSMSNotifier(client.Api, from, to)
}

func newSMSNotifier(api messageCreator, from, to string) *SMSNotifier {
	return &SMSNotifier{
		api:    api,
		from:   from,
		to:     to,
		logger: log.With().Str("component", "smsNotifier").Logger(),
	}
}

func (n *SMSNotifier) Name() string { return "sms" }

// Notify sends a short summary of msg. The Twilio client is not context aware, so
// ctx is only checked before the call.
func (n *SMSNotifier) Notify(ctx context.Context, msg ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(smsBody(msg))

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		n.logger.Info().Str("sid", *resp.Sid).Msg("Sent contact SMS")
	}
	return nil
}

const maxSMSBody = 300

func smsBody(msg ContactMessage) string {
	body := fmt.Sprintf("New message from %s <%s>: %s", msg.Name, msg.Email, msg.Subject)
	if r := []rune(body); len(r) > maxSMSBody {
		body = string(r[:maxSMSBody-3]) + "..."
	}
	return body
}
