package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/nirajw/eshop-storefront/pkg/enums"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/kvstore"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// Session identifies the authenticated user. Absent session = anonymous.
// Sessions are replaced wholesale on re-login, never mutated in place.
type Session struct {
	UserID    int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      enums.Role `json:"role"`
}

// DisplayName prefers the first name, falling back to the username.
func (s Session) DisplayName() string {
	if name := strings.TrimSpace(s.FirstName); name != "" {
		return name
	}
	if s.Username != "" {
		return s.Username
	}
	return "User"
}

// IsAdmin reports whether the session may access the admin dashboard.
func (s Session) IsAdmin() bool {
	return s.Role == enums.RoleAdmin
}

// CartKey returns the per-user local cart storage key.
func (s Session) CartKey() string {
	return fmt.Sprintf("userCart_%d", s.UserID)
}

// Store persists the session and auth token in local storage.
type Store struct {
	storage kvstore.Store
	logg    *logger.Logger
}

func NewStore(storage kvstore.Store, logg *logger.Logger) (*Store, error) {
	if storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "storage is required")
	}
	return &Store{storage: storage, logg: logg}, nil
}

// Current returns the active session, if any. Corrupt session data reads as
// anonymous.
func (s *Store) Current(ctx context.Context) (Session, bool) {
	var sess Session
	if !kvstore.ReadJSON(ctx, s.logg, s.storage, userKey, &sess) {
		return Session{}, false
	}
	if sess.UserID == 0 {
		return Session{}, false
	}
	return sess, true
}

// Token returns the stored opaque auth token.
func (s *Store) Token(ctx context.Context) string {
	token, ok, err := s.storage.Get(ctx, tokenKey)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "reading auth token", err)
		}
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// Save replaces the stored session and token.
func (s *Store) Save(ctx context.Context, sess Session, token string) error {
	if err := kvstore.WriteJSON(ctx, s.storage, userKey, sess); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "persisting session")
	}
	if err := s.storage.Set(ctx, tokenKey, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "persisting token")
	}
	return nil
}

// Clear removes the session and token. Safe to call while anonymous.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, userKey, tokenKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "clearing session")
	}
	return nil
}
