package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/campusmart/campusmart/internal/auth"
	"github.com/campusmart/campusmart/internal/model"
	"github.com/campusmart/campusmart/internal/notify"
	"github.com/campusmart/campusmart/internal/service"
)

// AuthFlow is the slice of AuthService the handler uses.
type AuthFlow interface {
	SignUp(ctx context.Context, input service.SignUpInput) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.Identity, string, error)
	SignOut(ctx context.Context, token string) error
}

// AuthHandler handles the signup, login and logout form posts.
type AuthHandler struct {
	svc           AuthFlow
	notices       *notify.Center
	logger        *slog.Logger
	cookieName    string
	sessionTTL    time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthFlow, notices *notify.Center, logger *slog.Logger, cookieName string, sessionTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		notices:       notices,
		logger:        logger,
		cookieName:    cookieName,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

// Signup handles POST /auth/signup.
// A successful signup does not start a session; the user logs in separately.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	key := noticeKey(w, r)

	user, err := h.svc.SignUp(r.Context(), service.SignUpInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Username: r.PostFormValue("username"),
		Bio:      r.PostFormValue("bio"),
	})
	if err != nil {
		h.notices.Notify(key, authErrorText(err), notify.SeverityError)
		if !isAuthUserError(err) {
			h.logger.Error("signup failed", "error", err, "request_id", requestID(r))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.logger.Info("user_signed_up", "user_id", user.ID)
	h.notices.Notify(key, "Signup successful! Please login.", notify.SeveritySuccess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	key := noticeKey(w, r)

	identity, token, err := h.svc.SignIn(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		h.notices.Notify(key, authErrorText(err), notify.SeverityError)
		if !isAuthUserError(err) {
			h.logger.Error("login failed", "error", err, "request_id", requestID(r))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, h.sessionTTL))

	h.logger.Info("user_logged_in", "user_id", identity.UserID)
	h.notices.Notify(key, "Logged in successfully", notify.SeveritySuccess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /auth/logout.
// The cookie is cleared and the guest view restored unconditionally, even
// when revoking the server session fails; the failure is only logged.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	key := noticeKey(w, r)

	if token := auth.SessionTokenFromContext(r.Context()); token != "" {
		if err := h.svc.SignOut(r.Context(), token); err != nil {
			h.logger.Warn("session revocation failed",
				"error", err,
				"request_id", requestID(r),
			)
		}
	}

	http.SetCookie(w, h.sessionCookie("", -time.Hour))

	h.notices.Notify(key, "Logged out", notify.SeveritySuccess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// sessionCookie builds the session cookie. A non-positive ttl expires it.
func (h *AuthHandler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if token == "" {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// authErrorText maps auth errors to the message shown in the notification.
func authErrorText(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrMissingCredentials):
		return err.Error()
	default:
		return "Something went wrong. Please try again."
	}
}

// isAuthUserError reports whether the error was caused by user input
// rather than a server fault.
func isAuthUserError(err error) bool {
	return errors.Is(err, service.ErrInvalidCredentials) ||
		errors.Is(err, service.ErrEmailTaken) ||
		errors.Is(err, service.ErrMissingCredentials)
}
