package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/filmdesk/filmdesk-backend/internal/auth"
	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
)

// TokenRevoker drops stored third-party tokens for the device on sign-out.
type TokenRevoker interface {
	Forget(ctx context.Context, userID string) error
}

// SessionService signs users in and out of the device. Every change goes through
// the Identity, which drives the workspace reload.
type SessionService struct {
	identity *auth.Identity
	kv       storage.KV
	tokens   TokenRevoker

	mu   sync.RWMutex
	user *domain.User
}

func NewSessionService(identity *auth.Identity, kv storage.KV, tokens TokenRevoker) *SessionService {
	return &SessionService{identity: identity, kv: kv, tokens: tokens}
}

// Login switches the device to u.
func (s *SessionService) Login(ctx context.Context, u domain.User) (*domain.User, error) {
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return nil, fmt.Errorf("user id required")
	}
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	if u.Name == "" {
		u.Name = nameFromEmail(u.Email)
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	logging.New(ctx, "session").LogInfof("login", "user=%s", u.ID)
	s.identity.Set(u.ID)
	return &u, nil
}

// Register starts a brand-new account from a blank canvas: anything stored on the
// device under that id is removed before signing in.
func (s *SessionService) Register(ctx context.Context, u domain.User) (*domain.User, error) {
	if strings.TrimSpace(u.ID) == "" {
		return nil, fmt.Errorf("user id required")
	}
	if s.kv != nil {
		if err := storage.ClearUser(ctx, s.kv, strings.TrimSpace(u.ID)); err != nil {
			return nil, err
		}
	}
	return s.Login(ctx, u)
}

// Logout clears the identity, which resets the workspace, and forgets provider tokens.
func (s *SessionService) Logout(ctx context.Context) error {
	uid := s.identity.Current()
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.identity.Set("")
	if s.tokens != nil {
		if err := s.tokens.Forget(ctx, uid); err != nil {
			logging.New(ctx, "session").LogError("logout", err)
			return err
		}
	}
	return nil
}

// Current returns the signed-in user or nil.
func (s *SessionService) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func nameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
