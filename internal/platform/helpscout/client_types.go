package helpscout

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	APIBaseURL = "https://api.helpscout.net/v2"

	authPath          = "/oauth2/token"
	mailboxesPath     = "/mailboxes"
	conversationsPath = "/conversations"
	customersPath     = "/customers"

	resourceIDHeader = "Resource-Id"

	// refresh this long before the server-side expiry
	expiryDelta = 30 * time.Second
)

// Credentials identify a Help Scout OAuth2 application.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func (c Credentials) complete() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Client is a Help Scout Mailbox API v2 client. The zero value is not
// initialized; build one with NewClient or NewClientFromSession.
type Client struct {
	mu sync.RWMutex

	creds    Credentials
	token    *oauth2.Token
	issuedAt time.Time

	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	now        func() time.Time

	refresh singleflight.Group
}

type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default HTTP client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// AuthError reports a missing or unusable access token.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Help Scout auth error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("Help Scout auth error: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ResponseShapeError reports a successful response that lacks a field or
// header the caller depends on.
type ResponseShapeError struct {
	Endpoint string
	Field    string
	Err      error
}

func (e *ResponseShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected response from %s: %s: %v", e.Endpoint, e.Field, e.Err)
	}
	return fmt.Sprintf("unexpected response from %s: missing %s", e.Endpoint, e.Field)
}

func (e *ResponseShapeError) Unwrap() error { return e.Err }

// TransportError is a network or HTTP-level failure. Message is the compact
// JSON of the server's error body when it sent one, otherwise the transport's
// own error text.
type TransportError struct {
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

var (
	ErrNotInitialized    = &AuthError{Reason: "client not initialized"}
	ErrMissingCredential = &AuthError{Reason: "client id and client secret are required"}
	ErrMissingToken      = &AuthError{Reason: "access_token missing from token response"}

	ErrInvalidCustomer = errors.New("customer reference must set exactly one of id or email")
)
