package mailer

import (
	"context"

	"github.com/cthayes8/tlco-waitlist/pkg/logger"
)

// DevMailer logs instead of sending. Used when EMAIL_DEV_MODE is set.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendWelcome(ctx context.Context, toEmail, toName string) error {
	logger.InfoContext(ctx, "[DEV MAIL] Welcome email",
		"to", toEmail,
		"name", toName,
		"subject", WelcomeSubject,
	)
	return nil
}

func (d *DevMailer) SendSubscriptionNotice(ctx context.Context, subscriberEmail string) error {
	logger.InfoContext(ctx, "[DEV MAIL] Subscription notice",
		"subscriber", subscriberEmail,
		"subject", SubscriptionNoticeSubject,
	)
	return nil
}
