package mailer

import "context"

// Service delivers transactional email. Implementations must respect
// ctx cancellation; callers bound sends with a short timeout because a
// slow provider must never stall a signup response.
type Service interface {
	// SendWelcome sends the waitlist confirmation to a new signup.
	SendWelcome(ctx context.Context, toEmail, toName string) error
	// SendSubscriptionNotice notifies the internal subscriptions inbox
	// of a new blog subscriber.
	SendSubscriptionNotice(ctx context.Context, subscriberEmail string) error
}
