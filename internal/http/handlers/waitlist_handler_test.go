package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/cthayes8/tlco-waitlist/internal/domain"
	"github.com/cthayes8/tlco-waitlist/internal/http/handlers"
	"github.com/cthayes8/tlco-waitlist/internal/ratelimit"
	"github.com/cthayes8/tlco-waitlist/internal/repo/postgres"
	"github.com/cthayes8/tlco-waitlist/internal/service"
)

// ---------- Mocks ----------

type fakeRepo struct {
	entries   map[string]*domain.WaitlistEntry
	nextID    int64
	insertErr error
}

var _ postgres.WaitlistRepository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[string]*domain.WaitlistEntry), nextID: 1}
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*domain.WaitlistEntry, error) {
	return f.entries[email], nil
}

func (f *fakeRepo) Insert(_ context.Context, req *domain.SignupRequest) (*domain.WaitlistEntry, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if _, exists := f.entries[req.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	e := &domain.WaitlistEntry{
		ID:        f.nextID,
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Phone:     req.Phone,
		Source:    req.Source,
		CreatedAt: time.Now(),
	}
	f.nextID++
	f.entries[req.Email] = e
	return e, nil
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]domain.WaitlistEntry, error) {
	var out []domain.WaitlistEntry
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.entries)), nil
}

type fakeMailer struct {
	sent    int
	sendErr error
}

func (f *fakeMailer) SendWelcome(_ context.Context, _, _ string) error {
	f.sent++
	return f.sendErr
}

func (f *fakeMailer) SendSubscriptionNotice(_ context.Context, _ string) error {
	f.sent++
	return f.sendErr
}

type fakePublisher struct{}

func (fakePublisher) Publish(context.Context, string, interface{}) error { return nil }
func (fakePublisher) Close() error                                       { return nil }

type testEnv struct {
	repo   *fakeRepo
	mail   *fakeMailer
	router http.Handler
}

func newTestEnv(t *testing.T, limiter *ratelimit.Limiter, adminKey string) *testEnv {
	t.Helper()

	repo := newFakeRepo()
	mail := &fakeMailer{}
	svc := service.NewSignupService(repo, mail, fakePublisher{})
	h := handlers.New(svc, limiter, adminKey)

	return &testEnv{repo: repo, mail: mail, router: handlers.Router(h)}
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("failed to decode json: %v body=%q", err, rr.Body.String())
	}
	return m
}

func validBody() map[string]string {
	return map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@acme.com",
		"company": "Acme",
	}
}

// ---------- Tests ----------

func TestJoinWaitlistSuccess(t *testing.T) {
	env := newTestEnv(t, nil, "")

	rr := postJSON(t, env.router, "/waitlist", validBody())
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	body := decodeJSON(t, rr)
	if body["success"] != true {
		t.Errorf("expected success=true, got %v", body)
	}
	if _, hasWarning := body["warning"]; hasWarning {
		t.Errorf("unexpected warning in %v", body)
	}
	if len(env.repo.entries) != 1 {
		t.Errorf("expected 1 row, got %d", len(env.repo.entries))
	}
	if env.mail.sent != 1 {
		t.Errorf("expected 1 email, got %d", env.mail.sent)
	}
}

func TestJoinWaitlistDuplicate(t *testing.T) {
	env := newTestEnv(t, nil, "")

	if rr := postJSON(t, env.router, "/waitlist", validBody()); rr.Code != http.StatusOK {
		t.Fatalf("first signup: expected 200, got %d", rr.Code)
	}

	rr := postJSON(t, env.router, "/waitlist", validBody())
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if body := decodeJSON(t, rr); body["error"] != "This email is already on the waitlist" {
		t.Errorf("unexpected body %v", body)
	}
	if len(env.repo.entries) != 1 {
		t.Errorf("row count changed on duplicate: %d", len(env.repo.entries))
	}
}

func TestJoinWaitlistDuplicateViaConstraint(t *testing.T) {
	// Insert hits the unique constraint without the pre-check seeing a
	// row; the caller-visible outcome is identical.
	env := newTestEnv(t, nil, "")
	env.repo.insertErr = domain.ErrDuplicateEmail

	rr := postJSON(t, env.router, "/waitlist", validBody())
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if body := decodeJSON(t, rr); body["error"] != "This email is already on the waitlist" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestJoinWaitlistMissingFields(t *testing.T) {
	env := newTestEnv(t, nil, "")

	body := validBody()
	body["name"] = ""
	rr := postJSON(t, env.router, "/waitlist", body)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if got := decodeJSON(t, rr); got["error"] != "Name, email, and company are required" {
		t.Errorf("unexpected body %v", got)
	}
	if len(env.repo.entries) != 0 {
		t.Error("rejected submission must not write a row")
	}
}

func TestJoinWaitlistInvalidEmail(t *testing.T) {
	env := newTestEnv(t, nil, "")

	body := validBody()
	body["email"] = "not-an-email"
	rr := postJSON(t, env.router, "/waitlist", body)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if got := decodeJSON(t, rr); got["error"] != "Invalid email format" {
		t.Errorf("unexpected body %v", got)
	}
}

func TestJoinWaitlistMalformedBody(t *testing.T) {
	env := newTestEnv(t, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/waitlist", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if got := decodeJSON(t, rr); got["error"] != "Invalid request body" {
		t.Errorf("unexpected body %v", got)
	}
}

func TestJoinWaitlistEmailFailureIsWarning(t *testing.T) {
	env := newTestEnv(t, nil, "")
	env.mail.sendErr = errors.New("provider down")

	rr := postJSON(t, env.router, "/waitlist", validBody())
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 despite email failure, got %d", rr.Code)
	}

	body := decodeJSON(t, rr)
	if body["success"] != true {
		t.Errorf("expected success=true, got %v", body)
	}
	if body["warning"] != "Entry saved but confirmation email could not be sent" {
		t.Errorf("unexpected warning %v", body["warning"])
	}
	if len(env.repo.entries) != 1 {
		t.Error("entry must be persisted despite email failure")
	}
}

func TestJoinWaitlistStorageFailure(t *testing.T) {
	env := newTestEnv(t, nil, "")
	env.repo.insertErr = errors.New("connection refused")

	rr := postJSON(t, env.router, "/waitlist", validBody())
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if got := decodeJSON(t, rr); got["error"] != "Failed to save to database" {
		t.Errorf("unexpected body %v", got)
	}
	if env.mail.sent != 0 {
		t.Error("no email may be sent when the insert failed")
	}
}

func TestMethodGate(t *testing.T) {
	env := newTestEnv(t, nil, "")

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/waitlist", nil)
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)

		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, rr.Code)
		}
		if got := decodeJSON(t, rr); got["error"] != "Method not allowed" {
			t.Errorf("%s: unexpected body %v", method, got)
		}
	}
	if len(env.repo.entries) != 0 {
		t.Error("method errors must have no side effects")
	}
}

func TestPreflight(t *testing.T) {
	env := newTestEnv(t, nil, "")

	req := httptest.NewRequest(http.MethodOptions, "/waitlist", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("preflight response must have no body, got %q", rr.Body.String())
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("unexpected allow-origin %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("unexpected allow-methods %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Errorf("unexpected allow-headers %q", got)
	}
}

func TestSubscribe(t *testing.T) {
	env := newTestEnv(t, nil, "")

	rr := postJSON(t, env.router, "/subscribe", map[string]string{"email": "reader@example.com"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := decodeJSON(t, rr); body["success"] != true {
		t.Errorf("unexpected body %v", body)
	}

	rr = postJSON(t, env.router, "/subscribe", map[string]string{"email": ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if body := decodeJSON(t, rr); body["error"] != "Email is required" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestSubscribeSendFailure(t *testing.T) {
	env := newTestEnv(t, nil, "")
	env.mail.sendErr = errors.New("timeout")

	rr := postJSON(t, env.router, "/subscribe", map[string]string{"email": "reader@example.com"})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if body := decodeJSON(t, rr); body["error"] != "Failed to process subscription" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestAdminListRequiresKey(t *testing.T) {
	env := newTestEnv(t, nil, "sekrit")

	req := httptest.NewRequest(http.MethodGet, "/admin/waitlist", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing key: expected 401, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/waitlist", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: expected 401, got %d", rr.Code)
	}
}

func TestAdminList(t *testing.T) {
	env := newTestEnv(t, nil, "sekrit")

	if rr := postJSON(t, env.router, "/waitlist", validBody()); rr.Code != http.StatusOK {
		t.Fatalf("signup failed: %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/waitlist", nil)
	req.Header.Set("X-Admin-Key", "sekrit")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	body := decodeJSON(t, rr)
	if body["total"] != float64(1) {
		t.Errorf("expected total=1, got %v", body["total"])
	}
	entries, ok := body["entries"].([]any)
	if !ok || len(entries) != 1 {
		t.Errorf("expected 1 entry, got %v", body["entries"])
	}
}

func TestAdminRoutesAbsentWithoutKey(t *testing.T) {
	env := newTestEnv(t, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/waitlist", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 when admin is unconfigured, got %d", rr.Code)
	}
}

func TestSignupRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := ratelimit.New(rdb, 1, time.Minute)

	env := newTestEnv(t, limiter, "")

	if rr := postJSON(t, env.router, "/waitlist", validBody()); rr.Code != http.StatusOK {
		t.Fatalf("first signup: expected 200, got %d", rr.Code)
	}

	body := validBody()
	body["email"] = "other@acme.com"
	rr := postJSON(t, env.router, "/waitlist", body)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if got := decodeJSON(t, rr); got["error"] != "Too many signup attempts. Try again later." {
		t.Errorf("unexpected body %v", got)
	}
	if len(env.repo.entries) != 1 {
		t.Error("rate-limited request must not write a row")
	}
}

func TestSignupRateLimitIgnoresRotatedForwardedSuffix(t *testing.T) {
	// Only the first X-Forwarded-For hop keys the limiter; a client
	// appending fresh hops must not mint new rate-limit keys.
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := ratelimit.New(rdb, 1, time.Minute)

	env := newTestEnv(t, limiter, "")

	post := func(email, forwardedFor string) *httptest.ResponseRecorder {
		body := validBody()
		body["email"] = email
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		req := httptest.NewRequest(http.MethodPost, "/waitlist", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		return rr
	}

	if rr := post("jane@acme.com", "198.51.100.7, 203.0.113.9"); rr.Code != http.StatusOK {
		t.Fatalf("first signup: expected 200, got %d", rr.Code)
	}

	rr := post("other@acme.com", "198.51.100.7, 203.0.113.10")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("rotated suffix must not bypass the limiter: expected 429, got %d", rr.Code)
	}
	if len(env.repo.entries) != 1 {
		t.Error("rate-limited request must not write a row")
	}
}
