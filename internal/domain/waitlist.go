package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// WaitlistEntry is a single signup captured from the marketing site.
// ID and CreatedAt are assigned by Postgres at insert time.
type WaitlistEntry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Phone     string    `json:"phone,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SignupRequest is the inbound waitlist submission. Phone and Source
// are optional; Source is an untrusted analytics tag and is never
// validated.
type SignupRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Source  string `json:"source"`
}

// SignupResult is the pipeline's success outcome. Warning is set when
// the entry was saved but the confirmation email could not be sent.
type SignupResult struct {
	Entry   *WaitlistEntry
	Warning string
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

// Pipeline failure categories. Handlers map these to the external
// response contract; anything else is a storage failure.
var (
	ErrDuplicateEmail = errors.New("email already on waitlist")
)

// ValidationError carries the user-facing message for a rejected
// submission.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) error {
	return &ValidationError{Message: msg}
}

var (
	// Matches the original site's validation exactly: something before
	// the @, something after, and a dot in the domain part.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Optional leading +, optional parenthesized area code, 3-3-4..6
	// digit grouping with -, space or . separators.
	phoneRegex = regexp.MustCompile(`^\+?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4,6}$`)
)

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	// Email is stored and matched verbatim, so trim only.
	r.Email = strings.TrimSpace(r.Email)
	r.Company = strings.TrimSpace(r.Company)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Source = strings.TrimSpace(r.Source)
}

// Validate reports the first failing rule. Required fields are checked
// before formats, matching the site's submission contract.
func (r *SignupRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Company == "" {
		return validationErr("Name, email, and company are required")
	}
	if !emailRegex.MatchString(r.Email) {
		return validationErr("Invalid email format")
	}
	if r.Phone != "" && !phoneRegex.MatchString(r.Phone) {
		return validationErr("Invalid phone format")
	}
	return nil
}

func (r *SubscribeRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *SubscribeRequest) Validate() error {
	if r.Email == "" {
		return validationErr("Email is required")
	}
	if !emailRegex.MatchString(r.Email) {
		return validationErr("Invalid email format")
	}
	return nil
}

// FirstName returns the leading whitespace-delimited token of a full
// name, for use in email greetings. Falls back to "Pioneer" when the
// name has no tokens.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "Pioneer"
	}
	return fields[0]
}
