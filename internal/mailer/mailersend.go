package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client         *mailersend.Mailersend
	from           mailersend.From
	subscriptionTo string
	timeout        time.Duration
}

func NewMailerSend(apiKey, fromName, fromEmail, subscriptionTo string, timeout time.Duration) *MailerSendClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MailerSendClient{
		client: mailersend.NewMailersend(apiKey),
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
		subscriptionTo: subscriptionTo,
		timeout:        timeout,
	}
}

func (m *MailerSendClient) SendWelcome(ctx context.Context, toEmail, toName string) error {
	return m.sendEmail(ctx, toEmail, toName, WelcomeSubject, WelcomeText(toName), WelcomeHTML(toName))
}

func (m *MailerSendClient) SendSubscriptionNotice(ctx context.Context, subscriberEmail string) error {
	if m.subscriptionTo == "" {
		return fmt.Errorf("subscriptions inbox not configured")
	}
	return m.sendEmail(ctx, m.subscriptionTo, "", SubscriptionNoticeSubject, SubscriptionNoticeText(subscriberEmail), "")
}

func (m *MailerSendClient) sendEmail(ctx context.Context, toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
