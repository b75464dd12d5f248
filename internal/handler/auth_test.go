package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/campusmart/campusmart/internal/auth"
	"github.com/campusmart/campusmart/internal/model"
	"github.com/campusmart/campusmart/internal/notify"
	"github.com/campusmart/campusmart/internal/service"
)

const testCookieName = "campusmart_session"

type stubAuthFlow struct {
	signUpUser     *model.User
	signUpErr      error
	signInIdentity *model.Identity
	signInToken    string
	signInErr      error
	signOutErr     error

	signOutTokens []string
}

func (s *stubAuthFlow) SignUp(ctx context.Context, input service.SignUpInput) (*model.User, error) {
	return s.signUpUser, s.signUpErr
}

func (s *stubAuthFlow) SignIn(ctx context.Context, email, password string) (*model.Identity, string, error) {
	return s.signInIdentity, s.signInToken, s.signInErr
}

func (s *stubAuthFlow) SignOut(ctx context.Context, token string) error {
	s.signOutTokens = append(s.signOutTokens, token)
	return s.signOutErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthHandler(svc AuthFlow, notices *notify.Center) *AuthHandler {
	return NewAuthHandler(svc, notices, discardLogger(), testCookieName, time.Hour, false)
}

// formRequest builds a POST with an existing notice cookie so the test
// knows which key the handler posts notifications under.
func formRequest(target, noticeKey string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: noticeCookieName, Value: noticeKey})
	return r
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func requireNotice(t *testing.T, notices *notify.Center, key, message string, severity notify.Severity) {
	t.Helper()
	notice, ok := notices.Current(key)
	if !ok {
		t.Fatal("no notice posted")
	}
	if notice.Message != message {
		t.Errorf("notice message = %q, want %q", notice.Message, message)
	}
	if notice.Severity != severity {
		t.Errorf("notice severity = %s, want %s", notice.Severity, severity)
	}
}

func TestSignup_Success(t *testing.T) {
	t.Parallel()

	svc := &stubAuthFlow{signUpUser: &model.User{ID: "u1", Email: "jo@campus.edu"}}
	notices := notify.NewCenter()
	h := newTestAuthHandler(svc, notices)

	w := httptest.NewRecorder()
	h.Signup(w, formRequest("/auth/signup", "k1", url.Values{
		"email":    {"jo@campus.edu"},
		"password": {"hunter2hunter2"},
	}))

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	// Account creation never starts a session.
	if c := findCookie(t, w, testCookieName); c != nil {
		t.Errorf("signup set a session cookie: %v", c)
	}
	requireNotice(t, notices, "k1", "Signup successful! Please login.", notify.SeveritySuccess)
}

func TestSignup_EmailTaken(t *testing.T) {
	t.Parallel()

	svc := &stubAuthFlow{signUpErr: service.ErrEmailTaken}
	notices := notify.NewCenter()
	h := newTestAuthHandler(svc, notices)

	w := httptest.NewRecorder()
	h.Signup(w, formRequest("/auth/signup", "k1", url.Values{
		"email":    {"jo@campus.edu"},
		"password": {"hunter2hunter2"},
	}))

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	requireNotice(t, notices, "k1", service.ErrEmailTaken.Error(), notify.SeverityError)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	t.Parallel()

	svc := &stubAuthFlow{
		signInIdentity: &model.Identity{UserID: "u1", Email: "jo@campus.edu"},
		signInToken:    "st_" + strings.Repeat("a", 64),
	}
	notices := notify.NewCenter()
	h := newTestAuthHandler(svc, notices)

	w := httptest.NewRecorder()
	h.Login(w, formRequest("/auth/login", "k1", url.Values{
		"email":    {"jo@campus.edu"},
		"password": {"hunter2hunter2"},
	}))

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location = %q, want /", loc)
	}

	c := findCookie(t, w, testCookieName)
	if c == nil {
		t.Fatal("login did not set the session cookie")
	}
	if c.Value != svc.signInToken {
		t.Errorf("cookie value = %q, want the session token", c.Value)
	}
	if !c.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	if c.MaxAge != int(time.Hour.Seconds()) {
		t.Errorf("cookie MaxAge = %d, want %d", c.MaxAge, int(time.Hour.Seconds()))
	}
	requireNotice(t, notices, "k1", "Logged in successfully", notify.SeveritySuccess)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc := &stubAuthFlow{signInErr: service.ErrInvalidCredentials}
	notices := notify.NewCenter()
	h := newTestAuthHandler(svc, notices)

	w := httptest.NewRecorder()
	h.Login(w, formRequest("/auth/login", "k1", url.Values{
		"email":    {"jo@campus.edu"},
		"password": {"wrong"},
	}))

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if c := findCookie(t, w, testCookieName); c != nil {
		t.Error("failed login set a session cookie")
	}
	requireNotice(t, notices, "k1", service.ErrInvalidCredentials.Error(), notify.SeverityError)
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()

	token := "st_" + strings.Repeat("b", 64)
	svc := &stubAuthFlow{}
	notices := notify.NewCenter()
	h := newTestAuthHandler(svc, notices)

	r := formRequest("/auth/logout", "k1", url.Values{})
	r = r.WithContext(auth.ContextWithSessionToken(r.Context(), token))

	w := httptest.NewRecorder()
	h.Logout(w, r)

	if len(svc.signOutTokens) != 1 || svc.signOutTokens[0] != token {
		t.Errorf("SignOut called with %v, want [%s]", svc.signOutTokens, token)
	}

	c := findCookie(t, w, testCookieName)
	if c == nil {
		t.Fatal("logout did not touch the session cookie")
	}
	if c.Value != "" || c.MaxAge != -1 {
		t.Errorf("cookie not cleared: value=%q maxAge=%d", c.Value, c.MaxAge)
	}
	requireNotice(t, notices, "k1", "Logged out", notify.SeveritySuccess)
}

func TestLogout_ClearsCookieWhenRevocationFails(t *testing.T) {
	t.Parallel()

	// The browser must land on the guest view even if the session store is
	// down; the revocation failure is only logged.
	svc := &stubAuthFlow{signOutErr: errors.New("redis: connection refused")}
	notices := notify.NewCenter()
	h := newTestAuthHandler(svc, notices)

	r := formRequest("/auth/logout", "k1", url.Values{})
	r = r.WithContext(auth.ContextWithSessionToken(r.Context(), "st_"+strings.Repeat("c", 64)))

	w := httptest.NewRecorder()
	h.Logout(w, r)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	c := findCookie(t, w, testCookieName)
	if c == nil || c.Value != "" || c.MaxAge != -1 {
		t.Errorf("cookie not cleared despite revocation failure: %+v", c)
	}
	requireNotice(t, notices, "k1", "Logged out", notify.SeveritySuccess)
}

func TestLogout_GuestRequest(t *testing.T) {
	t.Parallel()

	svc := &stubAuthFlow{}
	notices := notify.NewCenter()
	h := newTestAuthHandler(svc, notices)

	w := httptest.NewRecorder()
	h.Logout(w, formRequest("/auth/logout", "k1", url.Values{}))

	if len(svc.signOutTokens) != 0 {
		t.Errorf("SignOut called without a session token: %v", svc.signOutTokens)
	}
	if c := findCookie(t, w, testCookieName); c == nil {
		t.Error("cookie not cleared for guest logout")
	}
}
