package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookclub/bookclub-server/internal/domain"
	"github.com/bookclub/bookclub-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signUp",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signup",
		Summary:     "Create account",
		Description: "Registers a user on this device and signs the session in",
		Tags:        []string{"Authentication"},
	}, s.handleSignUp)

	huma.Register(s.api, huma.Operation{
		OperationID: "signIn",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signin",
		Summary:     "Sign in",
		Description: "Checks credentials against the users registered on this device",
		Tags:        []string{"Authentication"},
	}, s.handleSignIn)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Log out",
		Description: "Clears the session flag",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/session",
		Summary:     "Current session",
		Description: "Returns whether the session is signed in and as whom",
		Tags:        []string{"Authentication"},
	}, s.handleGetSession)
}

// SignUpInput wraps the sign-up request for Huma.
type SignUpInput struct {
	Body service.SignUpRequest
}

// SignInInput wraps the sign-in request for Huma.
type SignInInput struct {
	Body service.SignInRequest
}

// AuthResponse tells the client where to go and what the session now is.
type AuthResponse struct {
	Redirect string             `json:"redirect" doc:"Page to show next"`
	Session  domain.SessionFlag `json:"session" doc:"Session state after the call"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// SessionOutput wraps the session flag for Huma.
type SessionOutput struct {
	Body domain.SessionFlag
}

func (s *Server) handleSignUp(ctx context.Context, input *SignUpInput) (*AuthOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	scope, err := requireScope(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Auth.SignUp(ctx, scope, input.Body)
	if err != nil {
		return nil, err
	}
	return authOutput(res), nil
}

func (s *Server) handleSignIn(ctx context.Context, input *SignInInput) (*AuthOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	scope, err := requireScope(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Auth.SignIn(ctx, scope, input.Body)
	if err != nil {
		return nil, err
	}
	return authOutput(res), nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*AuthOutput, error) {
	scope, err := requireScope(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Auth.Logout(ctx, scope)
	if err != nil {
		return nil, err
	}
	return authOutput(res), nil
}

func (s *Server) handleGetSession(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	scope, err := requireScope(ctx)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: s.services.Auth.Current(ctx, scope)}, nil
}

func authOutput(res *service.Result) *AuthOutput {
	return &AuthOutput{Body: AuthResponse{Redirect: res.Redirect, Session: res.Flag}}
}
