package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	drive "google.golang.org/api/drive/v3"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/filmdesk/filmdesk-backend/internal/storage"
)

const tokenKey = "google_token"

var ErrNoToken = errors.New("no google token for user")

// Scopes requested by the provider clients.
var Scopes = []string{calendar.CalendarScope, gmail.GmailSendScope, drive.DriveFileScope}

// OAuthConfig builds the installed-app OAuth client configuration.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       Scopes,
	}
}

// TokenStore keeps each user's OAuth token in the device KV store.
type TokenStore struct {
	kv storage.KV
}

func NewTokenStore(kv storage.KV) *TokenStore {
	return &TokenStore{kv: kv}
}

func (s *TokenStore) Load(ctx context.Context, userID string) (*oauth2.Token, error) {
	raw, ok, err := s.kv.Get(ctx, storage.ScopedKey(tokenKey, userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoToken
	}
	var tok oauth2.Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &tok, nil
}

func (s *TokenStore) Save(ctx context.Context, userID string, tok *oauth2.Token) error {
	if userID == "" {
		return fmt.Errorf("user id required")
	}
	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, storage.ScopedKey(tokenKey, userID), string(raw))
}

// Forget removes the stored token for userID.
func (s *TokenStore) Forget(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return s.kv.Delete(ctx, storage.ScopedKey(tokenKey, userID))
}

// TokenSource returns a refreshing source for userID that writes refreshed tokens back.
func (s *TokenStore) TokenSource(ctx context.Context, cfg *oauth2.Config, userID string) (oauth2.TokenSource, error) {
	tok, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &persistingSource{
		base:   cfg.TokenSource(context.WithoutCancel(ctx), tok),
		store:  s,
		userID: userID,
		last:   tok.AccessToken,
	}, nil
}

type persistingSource struct {
	base   oauth2.TokenSource
	store  *TokenStore
	userID string

	mu   sync.Mutex
	last string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := p.store.Save(context.Background(), p.userID, tok); err != nil {
			log.Printf("[google] persist refreshed token user=%s error=%v", p.userID, err)
		}
	}
	return tok, nil
}

// Providers bundles the clients built for one user.
type Providers struct {
	Calendar *Calendar
	Mail     *Mail
	Drive    *Drive
}

// NewProviders builds every client over ts; extra options are appended (endpoints in tests).
func NewProviders(ctx context.Context, ts oauth2.TokenSource, extra ...option.ClientOption) (*Providers, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, extra...)
	cal, err := NewCalendar(ctx, opts...)
	if err != nil {
		return nil, err
	}
	mail, err := NewMail(ctx, opts...)
	if err != nil {
		return nil, err
	}
	drv, err := NewDrive(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Providers{Calendar: cal, Mail: mail, Drive: drv}, nil
}
