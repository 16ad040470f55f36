package helpscout

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/platform/helpscout/session"
)

func newClient(opts ...Option) *Client {
	c := &Client{
		baseURL: APIBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")

	return c
}

// NewClient exchanges the client credentials for an access token and returns
// a ready client. There is no way to obtain an uninitialized client from it.
func NewClient(ctx context.Context, creds Credentials, opts ...Option) (*Client, error) {
	if !creds.complete() {
		return nil, ErrMissingCredential
	}

	c := newClient(opts...)
	c.creds = creds

	if _, err := c.authenticate(ctx, nil); err != nil {
		return nil, err
	}

	return c, nil
}

// NewClientFromSession restores a client from a stored token. creds may be
// empty, in which case the token is never refreshed.
func NewClientFromSession(stored *session.Session, creds Credentials, opts ...Option) (*Client, error) {
	if stored == nil || stored.AccessToken == "" {
		return nil, &AuthError{Reason: "stored session has no access token"}
	}

	c := newClient(opts...)
	c.creds = creds
	c.token = &oauth2.Token{
		AccessToken: stored.AccessToken,
		TokenType:   stored.TokenType,
		Expiry:      stored.Expiry,
	}
	c.issuedAt = stored.IssuedAt

	return c, nil
}

// Token returns a copy of the current access token, or nil before init.
func (c *Client) Token() *oauth2.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == nil {
		return nil
	}
	tok := *c.token
	return &tok
}

func (c *Client) ready() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == nil || c.token.AccessToken == "" {
		return ErrNotInitialized
	}
	return nil
}

// CanRefresh reports whether the client holds credentials to mint new tokens.
func (c *Client) CanRefresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds.complete()
}

// ToSession snapshots the client's token for storage.
func (c *Client) ToSession() *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := &session.Session{
		ClientID: c.creds.ClientID,
		IssuedAt: c.issuedAt,
	}
	if c.token != nil {
		s.AccessToken = c.token.AccessToken
		s.TokenType = c.token.Type()
		s.Expiry = c.token.Expiry
	}
	return s
}

func (c *Client) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// expired mirrors oauth2.Token.Valid but against the client's clock.
func (c *Client) expired(tok *oauth2.Token) bool {
	if tok.Expiry.IsZero() {
		return false
	}
	return tok.Expiry.Round(0).Add(-expiryDelta).Before(c.clock())
}

// currentToken returns a usable token, refreshing it first when it is about
// to expire and the client can mint a new one.
func (c *Client) currentToken(ctx context.Context) (*oauth2.Token, error) {
	c.mu.RLock()
	tok := c.token
	canRefresh := c.creds.complete()
	c.mu.RUnlock()

	if tok == nil || tok.AccessToken == "" {
		return nil, ErrNotInitialized
	}

	if canRefresh && c.expired(tok) {
		return c.authenticate(ctx, tok)
	}

	return tok, nil
}
