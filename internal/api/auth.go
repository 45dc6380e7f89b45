package api

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
)

// rejectionMessage digs the backend's error message out of a 4xx body.
func rejectionMessage(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return ""
	}
	details, ok := typed.Details().(statusDetails)
	if !ok || details.Body == "" {
		return ""
	}
	var envelope authEnvelope
	if json.Unmarshal([]byte(details.Body), &envelope) != nil {
		return ""
	}
	return envelope.Message
}

// User is the account payload the auth endpoints return.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Enabled   bool   `json:"enabled"`
}

// authEnvelope is the backend's auth response wrapper.
type authEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// LoginResult carries the session material from a successful login.
type LoginResult struct {
	Token string
	User  User
}

// Login authenticates with the backend. Rejected credentials come back as
// CodeUnauthorized carrying the backend's message.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}

	var envelope authEnvelope
	err := c.postJSON(ctx, "auth/login", body, &envelope)
	if err != nil {
		if StatusOf(err) == http.StatusBadRequest {
			message := rejectionMessage(err)
			if message == "" {
				message = "invalid username or password"
			}
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, message)
		}
		return nil, err
	}
	if !envelope.Success || envelope.User == nil {
		message := envelope.Message
		if message == "" {
			message = "login failed"
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, message)
	}
	return &LoginResult{Token: envelope.Token, User: *envelope.User}, nil
}

// SignupRequest is the registration payload.
type SignupRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Signup registers a new account. Backend rejections (duplicate username,
// duplicate email) surface as CodeValidation with the backend message.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	var envelope authEnvelope
	err := c.postJSON(ctx, "auth/signup", req, &envelope)
	if err != nil {
		if StatusOf(err) == http.StatusBadRequest {
			message := rejectionMessage(err)
			if message == "" {
				message = "signup rejected"
			}
			return pkgerrors.New(pkgerrors.CodeValidation, message)
		}
		return err
	}
	if !envelope.Success {
		message := envelope.Message
		if message == "" {
			message = "signup failed"
		}
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	}
	return nil
}
