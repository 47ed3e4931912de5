package mailer

import (
	"fmt"
	"time"

	"github.com/cthayes8/tlco-waitlist/internal/domain"
)

const WelcomeSubject = "Welcome to the TLCO Beta Program"

// WelcomeText renders the plain-text confirmation body.
func WelcomeText(name string) string {
	return fmt.Sprintf("Welcome to the future, %s! You're now part of an exclusive group of beta testers who will shape the future of telecom distribution. We'll keep you updated on the beta launch timeline and your early access details.", domain.FirstName(name))
}

// WelcomeHTML renders the HTML confirmation body with the recipient's
// first name and the current calendar year.
func WelcomeHTML(name string) string {
	return welcomeHTML(name, time.Now())
}

func welcomeHTML(name string, now time.Time) string {
	displayName := domain.FirstName(name)
	year := now.Format("2006")

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Welcome to TLCO - The Future of Telecom</title>
</head>
<body style="margin: 0; padding: 0; background-color: #1a1a40; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.5; color: #ffffff;">
  <div style="max-width: 600px; margin: 0 auto; background: #1E1B4B; border-radius: 16px; overflow: hidden;">
    <div style="padding: 32px; text-align: center; background: linear-gradient(180deg, #1E1B4B 0%%, #2D2A5E 100%%);">
      <div style="margin-bottom: 24px; color: #8A4FFF; font-size: 24px;">&#9889;</div>
      <div style="display: inline-block; padding: 8px 16px; background: rgba(138, 79, 255, 0.1); border-radius: 100px; color: #8A4FFF; font-size: 14px; margin-bottom: 24px;">Launching 2025</div>
      <h1 style="margin: 0 0 16px; color: #ffffff; font-size: 28px; line-height: 1.2;">
        Welcome to TLCO, %s! &#128640;
      </h1>
      <p style="margin: 0; color: #94A3B8; font-size: 16px;">
        Thank you for joining our waitlist.<br>
        You're now part of an exclusive group that will be first to experience the future of telecom distribution.
      </p>
    </div>

    <div style="padding: 32px; color: #E2E8F0;">
      <div style="background: rgba(138, 79, 255, 0.05); border-radius: 12px; padding: 24px; margin: 24px 0;">
        <div style="margin-bottom: 16px;">&#9889; Get instant quotes in seconds, not days</div>
        <div style="margin-bottom: 16px;">&#128172; 24/7 AI-powered support at your fingertips</div>
        <div style="margin-bottom: 16px;">&#128176; Maximize commissions with TLCO GPT</div>
        <div>&#128202; Real-time closing AI analytics</div>
      </div>

      <p style="color: #94A3B8;">
        We're working hard to revolutionize telecom distribution with AI. As a waitlist member, you'll be the first to:
      </p>

      <div style="margin: 24px 0;">
        <div style="margin-bottom: 8px;">&bull; Access our beta platform</div>
        <div style="margin-bottom: 8px;">&bull; Receive exclusive launch offers</div>
        <div style="margin-bottom: 8px;">&bull; Get priority onboarding support</div>
      </div>

      <div style="text-align: center; margin: 32px 0;">
        <h2 style="margin: 0 0 16px; color: #ffffff; font-size: 20px;">Stay Connected</h2>
        <a href="https://tlco.ai" style="display: inline-block; padding: 12px 24px; background: #8A4FFF; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 500;">Visit Our Website</a>
      </div>
    </div>

    <div style="text-align: center; padding: 24px; border-top: 1px solid rgba(138, 79, 255, 0.1);">
      <h3 style="margin: 0 0 8px; color: #ffffff; font-size: 16px;">Interested in Investing?</h3>
      <p style="margin: 0; color: #94A3B8; font-size: 14px;">
        For investor inquiries, please contact us at
        <a href="mailto:invest@tlco.ai" style="color: #8A4FFF; text-decoration: none;">invest@tlco.ai</a>
      </p>
    </div>

    <div style="text-align: center; padding: 24px; color: #64748B; font-size: 14px;">
      <p style="margin: 0;">
        &copy; %s TLCO. All rights reserved.<br>
        <small style="color: #475569;">You're receiving this email because you joined our waitlist.</small>
      </p>
    </div>
  </div>
</body>
</html>`, displayName, year)
}

// SubscriptionNoticeText renders the internal notification for a new
// blog subscription.
func SubscriptionNoticeText(subscriberEmail string) string {
	return fmt.Sprintf("New blog subscription request from: %s", subscriberEmail)
}

const SubscriptionNoticeSubject = "New Blog Subscription"
