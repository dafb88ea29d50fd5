package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-content-backend/config"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type ContactMessage = models.ContactMessage

// Notifier delivers a contact form message over one channel
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg ContactMessage) error
}

// EmailNotifier forwards contact messages to the site owner's inbox
type EmailNotifier struct {
	mailer    *Mailer
	recipient string
}

func NewEmailNotifier(mailer *Mailer, recipient string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, recipient: recipient}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(ctx context.Context, msg ContactMessage) error {
	subject := fmt.Sprintf("[Portfolio] %s", msg.Subject)
	body := fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message)
	_, err := n.mailer.SendEmail(ctx, subject, body, msg.Email, []string{n.recipient})
	return err
}

// ContactNotifier fans a message out to every configured channel. Delivery counts as
// successful when at least one channel accepted the message.
type ContactNotifier struct {
	notifiers []Notifier
	logger    zerolog.Logger
}

func NewContactNotifier(notifiers ...Notifier) *ContactNotifier {
	return &ContactNotifier{
		notifiers: notifiers,
		logger:    log.With().Str("component", "contactNotifier").Logger(),
	}
}

// NewContactNotifierFromConfig enables email when RESEND_API_KEY is set and SMS when
// the TWILIO_* keys and CONTACT_SMS_TO are set. Mail goes to the contact address.
func NewContactNotifierFromConfig(c map[string]string, contactEmail string) *ContactNotifier {
	var notifiers []Notifier

	if key := config.GetString(c, "RESEND_API_KEY", ""); key != "" {
		from := config.GetString(c, "RESEND_FROM_EMAIL", "")
		to := config.GetString(c, "CONTACT_EMAIL_TO", contactEmail)
		notifiers = append(notifiers, NewEmailNotifier(NewMailer(key, from), to))
	}

	sid := config.GetString(c, "TWILIO_ACCOUNT_SID", "")
	token := config.GetString(c, "TWILIO_AUTH_TOKEN", "")
	from := config.GetString(c, "TWILIO_FROM_NUMBER", "")
	to := config.GetString(c, "CONTACT_SMS_TO", "")
	if sid != "" && token != "" && from != "" && to != "" {
		notifiers = append(notifiers, NewSMSNotifier(sid, token, from, to))
	}

	return NewContactNotifier(notifiers...)
}

func (n *ContactNotifier) Enabled() bool {
	return len(n.notifiers) > 0
}

func (n *ContactNotifier) Send(ctx context.Context, msg ContactMessage) error {
	if !n.Enabled() {
		return errs.NewNotifierError("contact", fmt.Errorf("no notification channel configured"))
	}

	failures := make([]error, len(n.notifiers))
	var g errgroup.Group
	for i, notifier := range n.notifiers {
		i, notifier := i, notifier
		g.Go(func() error {
			if err := notifier.Notify(ctx, msg); err != nil {
				n.logger.Error().Err(err).Str("channel", notifier.Name()).Msg("Failed to deliver contact message")
				failures[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for i, err := range failures {
		if err != nil {
			failed = append(failed, n.notifiers[i].Name())
		}
	}
	if len(failed) == len(n.notifiers) {
		return errs.NewNotifierError(strings.Join(failed, ", "), failures[0])
	}
	return nil
}
