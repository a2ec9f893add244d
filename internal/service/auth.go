package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf16"

	"github.com/bookclub/bookclub-server/internal/auth"
	"github.com/bookclub/bookclub-server/internal/domain"
	domainerrors "github.com/bookclub/bookclub-server/internal/errors"
	"github.com/bookclub/bookclub-server/internal/metrics"
)

// MinPasswordLength is the shortest accepted password, in UTF-16 code units.
const MinPasswordLength = 8

// Messages shown on the sign-up and sign-in forms.
const (
	MsgPasswordTooShort = "Password must be at least 8 characters long."
	MsgPasswordMismatch = "Passwords do not match."
	MsgEmailRequired    = "Please enter your email."
	MsgEmailTaken       = "An account with this email already exists."
	MsgMissingFields    = "Please enter email and password."
	MsgNoAccount        = "No account found with this email."
	MsgWrongPassword    = "Incorrect password."
)

// SignUpRequest is a submitted registration form.
type SignUpRequest struct {
	FullName        string `json:"fullName" validate:"max=200" doc:"Display name"`
	Email           string `json:"email" validate:"max=320" doc:"Email address"`
	Password        string `json:"password" validate:"max=1024" doc:"Password, at least 8 characters"`
	ConfirmPassword string `json:"confirmPassword" validate:"max=1024" doc:"Password again"`
}

// SignInRequest is a submitted sign-in form.
type SignInRequest struct {
	Email    string `json:"email" validate:"max=320" doc:"Email address"`
	Password string `json:"password" validate:"max=1024" doc:"Password"`
}

// AuthService runs the sign-up, sign-in and logout flows.
type AuthService struct {
	passwords auth.Passwords
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(passwords auth.Passwords, logger *slog.Logger) *AuthService {
	return &AuthService{passwords: passwords, logger: logger}
}

// SignUp registers a new user and signs the session in. Checks run in a
// fixed order and the first failure is returned alone: password length,
// password confirmation, email presence, then email uniqueness.
func (s *AuthService) SignUp(ctx context.Context, scope Scope, req SignUpRequest) (*Result, error) {
	res, err := s.signUp(ctx, scope, req)
	metrics.SignUps.WithLabelValues(outcome(err)).Inc()
	return res, err
}

func (s *AuthService) signUp(ctx context.Context, scope Scope, req SignUpRequest) (*Result, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if passwordLength(req.Password) < MinPasswordLength {
		return nil, domainerrors.Validation(MsgPasswordTooShort)
	}
	if req.Password != req.ConfirmPassword {
		return nil, domainerrors.Validation(MsgPasswordMismatch)
	}
	if email == "" {
		return nil, domainerrors.Validation(MsgEmailRequired)
	}

	creds := NewCredentialStore(scope.Persistent)
	users := creds.Load(ctx)
	if _, exists := FindByEmail(users, email); exists {
		return nil, domainerrors.Conflict(MsgEmailTaken)
	}

	sealed, err := s.passwords.Seal(req.Password)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "could not store password")
	}

	users = append(users, domain.User{FullName: fullName, Email: email, Password: sealed})
	if err := creds.Save(ctx, users); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}

	if err := NewSessionFlags(scope.Session).Set(ctx, fullName); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "email", email, "users", len(users))

	return &Result{
		Redirect: Landing,
		Flag:     domain.SessionFlag{Authenticated: true, DisplayName: fullName},
	}, nil
}

// SignIn checks the credentials against the stored users and signs the
// session in with the user's full name.
func (s *AuthService) SignIn(ctx context.Context, scope Scope, req SignInRequest) (*Result, error) {
	res, err := s.signIn(ctx, scope, req)
	metrics.SignIns.WithLabelValues(outcome(err)).Inc()
	return res, err
}

func (s *AuthService) signIn(ctx context.Context, scope Scope, req SignInRequest) (*Result, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if email == "" || req.Password == "" {
		return nil, domainerrors.Validation(MsgMissingFields)
	}

	user, ok := FindByEmail(NewCredentialStore(scope.Persistent).Load(ctx), email)
	if !ok {
		return nil, domainerrors.NotFound(MsgNoAccount)
	}

	if !s.passwords.Match(user.Password, req.Password) {
		s.logger.Debug("sign-in rejected", "email", email)
		return nil, domainerrors.Auth(MsgWrongPassword)
	}

	if err := NewSessionFlags(scope.Session).Set(ctx, user.FullName); err != nil {
		return nil, err
	}

	return &Result{
		Redirect: Landing,
		Flag:     domain.SessionFlag{Authenticated: true, DisplayName: user.FullName},
	}, nil
}

// Logout clears the session flag.
func (s *AuthService) Logout(ctx context.Context, scope Scope) (*Result, error) {
	if err := NewSessionFlags(scope.Session).Clear(ctx); err != nil {
		return nil, err
	}
	metrics.Logouts.Inc()
	return &Result{Redirect: Landing}, nil
}

// Current returns the session flag for scope.
func (s *AuthService) Current(ctx context.Context, scope Scope) domain.SessionFlag {
	return NewSessionFlags(scope.Session).Current(ctx)
}

// passwordLength counts UTF-16 code units, the unit browsers use for
// minlength, so a character outside the BMP counts twice.
func passwordLength(password string) int {
	n := 0
	for _, r := range password {
		n += utf16.RuneLen(r)
	}
	return n
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	return strings.ToLower(string(domainerrors.CodeOf(err)))
}
