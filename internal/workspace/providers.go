package workspace

import (
	"context"
	"errors"
	"io"
	"time"

	"golang.org/x/oauth2"

	"github.com/filmdesk/filmdesk-backend/internal/calendar"
	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/google"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
)

type Mailer interface {
	SendMessage(ctx context.Context, to, subject, body string) error
}

type EventProvider interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error)
	CreateEvent(ctx context.Context, e domain.CalendarEvent) (domain.CalendarEvent, error)
	UpdateEvent(ctx context.Context, e domain.CalendarEvent) error
	DeleteEvent(ctx context.Context, id string) error
}

type FileStore interface {
	ListFiles(ctx context.Context, folderID string) ([]google.File, error)
	Upload(ctx context.Context, folderID, name, mimeType string, r io.Reader) (google.File, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Providers are the third-party services available to the signed-in user. Any field
// may be nil.
type Providers struct {
	Mail     Mailer
	Calendar EventProvider
	Drive    FileStore
}

// ProviderFactory builds the providers for userID. google.ErrNoToken means the user has
// not connected an account.
type ProviderFactory func(ctx context.Context, userID string) (*Providers, error)

// GoogleProviders builds providers from the tokens stored for each user.
func GoogleProviders(tokens *google.TokenStore, cfg *oauth2.Config) ProviderFactory {
	return func(ctx context.Context, userID string) (*Providers, error) {
		ts, err := tokens.TokenSource(ctx, cfg, userID)
		if err != nil {
			return nil, err
		}
		p, err := google.NewProviders(context.WithoutCancel(ctx), ts)
		if err != nil {
			return nil, err
		}
		return &Providers{Mail: p.Mail, Calendar: p.Calendar, Drive: p.Drive}, nil
	}
}

// connect builds the user's providers and starts the calendar poller.
func (w *Workspace) connect(ctx context.Context, userID string) {
	if w.opts.Providers == nil {
		return
	}
	log := logging.New(ctx, "workspace")
	p, err := w.opts.Providers(ctx, userID)
	switch {
	case errors.Is(err, google.ErrNoToken):
		log.LogDebugf("providers", "user=%s not connected", userID)
		return
	case err != nil:
		log.LogErrorf("providers", "user=%s error=%v", userID, err)
		return
	}

	var poller *calendar.Poller
	if p.Calendar != nil {
		poller = calendar.NewPoller(p.Calendar, w.opts.CalendarPollInterval, w.opts.CalendarRefreshGap)
	}

	w.mu.Lock()
	if w.userID != userID {
		w.mu.Unlock()
		return
	}
	old := w.poller
	w.providers, w.poller = p, poller
	w.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	if poller != nil {
		if err := poller.Start(); err != nil {
			log.LogError("calendar-poller", err)
		}
	}
}

// Reconnect rebuilds providers for the signed-in user, after a token was stored.
func (w *Workspace) Reconnect(ctx context.Context) error {
	uid := w.UserID()
	if uid == "" {
		return ErrNoSession
	}
	w.connect(ctx, uid)
	if w.provider() == nil {
		return ErrNotConnected
	}
	return nil
}

func (w *Workspace) provider() *Providers {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.providers
}

func (w *Workspace) calendarPoller() *calendar.Poller {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.poller
}

// CalendarFetchedAt is when provider events were last fetched, zero if never.
func (w *Workspace) CalendarFetchedAt() time.Time {
	if p := w.calendarPoller(); p != nil {
		return p.FetchedAt()
	}
	return time.Time{}
}

// Connected reports whether provider services are available.
func (w *Workspace) Connected() bool { return w.provider() != nil }
