package service

import (
	"context"
	"fmt"

	"github.com/cthayes8/tlco-waitlist/internal/domain"
	"github.com/cthayes8/tlco-waitlist/internal/mailer"
	"github.com/cthayes8/tlco-waitlist/internal/repo/postgres"
	"github.com/cthayes8/tlco-waitlist/pkg/events"
	"github.com/cthayes8/tlco-waitlist/pkg/logger"
)

// WarnEmailNotSent is attached to an otherwise successful signup when
// the confirmation email could not be delivered.
const WarnEmailNotSent = "Entry saved but confirmation email could not be sent"

type SignupService interface {
	// Signup runs the intake pipeline: validate, duplicate-check,
	// persist, notify. The confirmation email and the analytics event
	// are best-effort; once the insert commits, Signup returns success.
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.SignupResult, error)

	// Subscribe records a blog subscription by emailing the internal
	// subscriptions inbox. Unlike Signup, delivery is the whole
	// operation, so a send failure fails the request.
	Subscribe(ctx context.Context, req *domain.SubscribeRequest) error

	ListEntries(ctx context.Context, limit, offset int) ([]domain.WaitlistEntry, int64, error)
}

type signupService struct {
	repo      postgres.WaitlistRepository
	mailer    mailer.Service
	publisher events.Publisher
}

func NewSignupService(repo postgres.WaitlistRepository, m mailer.Service, publisher events.Publisher) SignupService {
	return &signupService{
		repo:      repo,
		mailer:    m,
		publisher: publisher,
	}
}

func (s *signupService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.SignupResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Advisory pre-check for a fast duplicate response. A read error
	// here is logged and ignored: the insert below is the authoritative
	// check either way.
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		logger.ErrorContext(ctx, "Duplicate pre-check failed", "error", err)
	} else if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	entry, err := s.repo.Insert(ctx, req)
	if err != nil {
		if err == domain.ErrDuplicateEmail {
			// Lost the race against a concurrent signup. Same outcome
			// as the pre-check finding a row.
			return nil, err
		}
		return nil, fmt.Errorf("failed to insert waitlist entry: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.SignupCreated, events.SignupCreatedEvent{
		EntryID:   entry.ID,
		Email:     entry.Email,
		Company:   entry.Company,
		Source:    entry.Source,
		CreatedAt: entry.CreatedAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish signup event", "error", err, "entry_id", entry.ID)
	}

	result := &domain.SignupResult{Entry: entry}

	// The row is durably committed at this point. Email is a courtesy:
	// delivery failure is downgraded to a warning, never a failure.
	if err := s.mailer.SendWelcome(ctx, entry.Email, entry.Name); err != nil {
		logger.ErrorContext(ctx, "Failed to send confirmation email", "error", err, "email", entry.Email)
		result.Warning = WarnEmailNotSent
	}

	return result, nil
}

func (s *signupService) Subscribe(ctx context.Context, req *domain.SubscribeRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.mailer.SendSubscriptionNotice(ctx, req.Email); err != nil {
		return fmt.Errorf("failed to send subscription notice: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.SubscribeSent, map[string]string{"email": req.Email}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish subscribe event", "error", err)
	}

	return nil
}

func (s *signupService) ListEntries(ctx context.Context, limit, offset int) ([]domain.WaitlistEntry, int64, error) {
	entries, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list waitlist entries: %w", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count waitlist entries: %w", err)
	}

	return entries, total, nil
}
