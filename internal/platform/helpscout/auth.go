package helpscout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// authenticate fetches a fresh token and stores it. Concurrent callers share
// a single token request, which runs detached from any one caller's context;
// each caller waits only as long as its own ctx allows. When stale is no
// longer the stored token and the stored one is still valid, another caller
// already refreshed and no request is made.
func (c *Client) authenticate(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error) {
	ch := c.refresh.DoChan("token", func() (any, error) {
		if stale != nil {
			c.mu.RLock()
			cur := c.token
			c.mu.RUnlock()

			if cur != nil && cur != stale && !c.expired(cur) {
				return cur, nil
			}
		}

		tok, issuedAt, err := c.fetchToken(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.token = tok
		c.issuedAt = issuedAt
		c.mu.Unlock()

		return tok, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug().Msg("joined in-flight token request")
		}
		return res.Val.(*oauth2.Token), nil
	}
}

func (c *Client) fetchToken(ctx context.Context) (*oauth2.Token, time.Time, error) {
	c.mu.RLock()
	creds := c.creds
	c.mu.RUnlock()

	if !creds.complete() {
		return nil, time.Time{}, ErrMissingCredential
	}

	payload, err := json.Marshal(tokenRequest{
		GrantType:    "client_credentials",
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
	})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+authPath, bytes.NewReader(payload))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	issuedAt := c.clock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, time.Time{}, &TransportError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, time.Time{}, &TransportError{StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	c.logger.Debug().
		Str("path", authPath).
		Int("status", resp.StatusCode).
		Msg("token response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, time.Time{}, newTransportError(resp.StatusCode, body)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, time.Time{}, &AuthError{Reason: "failed to parse token response", Err: err}
	}

	if tokenResp.AccessToken == "" {
		return nil, time.Time{}, ErrMissingToken
	}

	tok := &oauth2.Token{
		AccessToken: tokenResp.AccessToken,
		TokenType:   "Bearer",
	}
	if tokenResp.ExpiresIn > 0 {
		tok.Expiry = issuedAt.Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}

	return tok, issuedAt, nil
}
