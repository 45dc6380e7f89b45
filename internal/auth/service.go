// Package auth runs the login, signup, and logout flows: backend call,
// session persistence, and the cart handoff that happens around an auth
// change.
package auth

import (
	"context"

	"github.com/nirajw/eshop-storefront/internal/api"
	"github.com/nirajw/eshop-storefront/internal/cart"
	"github.com/nirajw/eshop-storefront/internal/session"
	"github.com/nirajw/eshop-storefront/internal/ui"
	"github.com/nirajw/eshop-storefront/pkg/enums"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/logger"
	"github.com/nirajw/eshop-storefront/pkg/validation"
)

// AuthAPI is the slice of the backend client auth needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	Signup(ctx context.Context, req api.SignupRequest) error
}

// ServiceParams carries the auth dependencies.
type ServiceParams struct {
	API      AuthAPI
	Sessions *session.Store
	Cart     *cart.Manager
	Notifier ui.Notifier
	Logger   *logger.Logger
}

// Service drives the auth flows.
type Service struct {
	api      AuthAPI
	sessions *session.Store
	cart     *cart.Manager
	notifier ui.Notifier
	logg     *logger.Logger
}

// NewService validates dependencies and builds the auth service.
func NewService(params ServiceParams) (*Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: api client is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: session store is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: cart manager is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: logger is required")
	}
	if params.Notifier == nil {
		params.Notifier = ui.NopNotifier{}
	}
	return &Service{
		api:      params.API,
		sessions: params.Sessions,
		cart:     params.Cart,
		notifier: params.Notifier,
		logg:     params.Logger,
	}, nil
}

// LoginForm is the credentials form.
type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates, saves the session, and runs the cart login handoff.
// The returned session carries the role for the caller's redirect decision.
func (s *Service) Login(ctx context.Context, form LoginForm) (session.Session, error) {
	if err := validation.Struct(form); err != nil {
		s.notifier.Error(pkgerrors.UserMessage(err))
		return session.Session{}, err
	}

	result, err := s.api.Login(ctx, form.Username, form.Password)
	if err != nil {
		s.notifier.Error(pkgerrors.UserMessage(err))
		return session.Session{}, err
	}

	sess := sessionFromUser(result.User)
	if err := s.sessions.Save(ctx, sess, result.Token); err != nil {
		return session.Session{}, err
	}
	if err := s.cart.OnLogin(ctx, sess); err != nil {
		s.logg.Error(ctx, "cart login handoff", err)
	}

	s.notifier.Success("Welcome back, " + sess.DisplayName())
	return sess, nil
}

// SignupForm is the registration form.
type SignupForm struct {
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	PhoneNumber     string `json:"phoneNumber"`
}

// Signup registers a new account. No session is created; the user logs in
// afterwards.
func (s *Service) Signup(ctx context.Context, form SignupForm) error {
	if err := validation.Struct(form); err != nil {
		s.notifier.Error(pkgerrors.UserMessage(err))
		return err
	}

	err := s.api.Signup(ctx, api.SignupRequest{
		Username:    form.Username,
		Email:       form.Email,
		Password:    form.Password,
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		PhoneNumber: form.PhoneNumber,
	})
	if err != nil {
		s.notifier.Error(pkgerrors.UserMessage(err))
		return err
	}

	s.notifier.Success("Account created, please log in")
	return nil
}

// Logout runs the cart logout handoff and clears the session. Nothing here
// is fatal: the user always ends up logged out locally.
func (s *Service) Logout(ctx context.Context) error {
	sess, authed := s.sessions.Current(ctx)
	if authed {
		if err := s.cart.OnLogout(ctx, sess); err != nil {
			s.logg.Error(ctx, "cart logout handoff", err)
		}
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	s.notifier.Success("You have been logged out")
	return nil
}

func sessionFromUser(user api.User) session.Session {
	role := enums.RoleUser
	if enums.Role(user.Role) == enums.RoleAdmin {
		role = enums.RoleAdmin
	}
	return session.Session{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      role,
	}
}
