package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/config"
	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/platform/helpscout"
	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/storage"
)

var ErrNotLoggedIn = errors.New("not logged in, run 'go-helpscout-cli login' first")

// EnvFiles are the .env files consulted by every command.
var EnvFiles = []string{".env"}

type HelpScoutProvider struct {
	hs      *helpscout.Client
	storage *storage.Storage
	logger  zerolog.Logger

	savedToken string
}

// NewLogger returns the console logger used by the CLI.
func NewLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().
		Level(level)
}

// OpenStorage opens the configured storage directory, or the default one.
func OpenStorage(cfg *config.Config) (*storage.Storage, error) {
	if cfg.StorageDir != "" {
		return storage.NewStorage(cfg.StorageDir)
	}
	return storage.NewSessionStorage()
}

// ClientOptions translates configuration into client options.
func ClientOptions(cfg *config.Config, logger zerolog.Logger) []helpscout.Option {
	opts := []helpscout.Option{
		helpscout.WithLogger(logger.With().Str("module", "helpscout").Logger()),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, helpscout.WithBaseURL(cfg.BaseURL))
	}
	return opts
}

// ResolveCredentials prefers configured credentials over saved ones.
func ResolveCredentials(cfg *config.Config, store *storage.Storage) helpscout.Credentials {
	if cfg.HasCredentials() {
		return helpscout.Credentials{ClientID: cfg.ClientID, ClientSecret: cfg.ClientSecret}
	}

	saved, err := store.LoadCredentials()
	if err != nil || saved == nil {
		return helpscout.Credentials{}
	}
	return helpscout.Credentials{ClientID: saved.ClientID, ClientSecret: saved.ClientSecret}
}

// NewHelpScoutProvider restores the saved session, or logs in with the
// available credentials when there is none.
func NewHelpScoutProvider(ctx context.Context, debug bool) (*HelpScoutProvider, error) {
	cfg, err := config.Load(EnvFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := OpenStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session storage: %w", err)
	}

	logger := NewLogger(debug || cfg.Debug)

	return newProvider(ctx, store, ResolveCredentials(cfg, store), ClientOptions(cfg, logger), logger)
}

func newProvider(ctx context.Context, store *storage.Storage, creds helpscout.Credentials, opts []helpscout.Option, logger zerolog.Logger) (*HelpScoutProvider, error) {
	stored, err := store.LoadSession()
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring unreadable session")
		stored = nil
	}

	// a session minted for another application is useless with these credentials
	if stored != nil && creds.ClientID != "" && stored.ClientID != "" && stored.ClientID != creds.ClientID {
		logger.Debug().Msg("stored session belongs to a different client id")
		stored = nil
	}

	p := &HelpScoutProvider{storage: store, logger: logger}

	switch {
	case stored != nil:
		p.hs, err = helpscout.NewClientFromSession(stored, creds, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to restore session: %w", err)
		}
		p.savedToken = stored.AccessToken

	case creds.ClientID != "" && creds.ClientSecret != "":
		p.hs, err = helpscout.NewClient(ctx, creds, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
		if err := p.persist(); err != nil {
			return nil, err
		}

	default:
		return nil, ErrNotLoggedIn
	}

	return p, nil
}

func (p *HelpScoutProvider) Client() *helpscout.Client {
	return p.hs
}

func (p *HelpScoutProvider) Storage() *storage.Storage {
	return p.storage
}

// persist saves the session when the client has minted a new token.
func (p *HelpScoutProvider) persist() error {
	s := p.hs.ToSession()
	if s.AccessToken == "" || s.AccessToken == p.savedToken {
		return nil
	}

	if err := p.storage.SaveSession(s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	p.savedToken = s.AccessToken
	p.logger.Debug().Time("expiry", s.Expiry).Msg("session saved")
	return nil
}

// after persists a refreshed token; a failure to save never masks the
// operation's own result.
func (p *HelpScoutProvider) after() {
	if err := p.persist(); err != nil {
		p.logger.Warn().Err(err).Msg("could not save refreshed session")
	}
}

func (p *HelpScoutProvider) Mailboxes(ctx context.Context, all bool) ([]helpscout.Mailbox, error) {
	defer p.after()

	if all {
		return p.hs.ListAllMailboxes(ctx)
	}
	return p.hs.GetMailboxes(ctx)
}

func (p *HelpScoutProvider) CreateCustomer(ctx context.Context, firstName, lastName string) (string, error) {
	defer p.after()

	if firstName == "" && lastName == "" {
		return "", fmt.Errorf("first or last name is required")
	}
	return p.hs.CreateCustomer(ctx, firstName, lastName)
}

func (p *HelpScoutProvider) ImportCustomers(ctx context.Context, names []helpscout.CustomerName, concurrency int, reporter helpscout.ProgressReporter) (*helpscout.ImportResult, error) {
	defer p.after()

	if len(names) == 0 {
		return nil, fmt.Errorf("no customers to import")
	}
	return p.hs.ImportCustomers(ctx, names, concurrency, reporter)
}

func (p *HelpScoutProvider) CreateConversation(ctx context.Context, conv helpscout.NewConversation) error {
	defer p.after()

	if conv.MailboxID <= 0 {
		return fmt.Errorf("mailbox id must be positive")
	}
	return p.hs.CreateConversation(ctx, conv)
}
