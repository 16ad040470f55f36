package helpscout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// apiResponse is a successful (2xx) response.
type apiResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// do issues an authenticated request. A 401 triggers one token refresh and a
// single replay when the client holds credentials.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*apiResponse, error) {
	tok, err := c.currentToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, tok, method, path, payload)

	var te *TransportError
	if err != nil && errors.As(err, &te) && te.StatusCode == http.StatusUnauthorized && c.CanRefresh() {
		c.logger.Debug().Str("path", path).Msg("token rejected, refreshing")

		tok, err = c.authenticate(ctx, tok)
		if err != nil {
			return nil, err
		}
		return c.send(ctx, tok, method, path, payload)
	}

	return resp, err
}

func (c *Client) send(ctx context.Context, tok *oauth2.Token, method, path string, payload any) (*apiResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	tok.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With().
		Str("request_id", uuid.NewString()).
		Str("method", method).
		Str("path", path).
		Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("request failed")
		return nil, &TransportError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newTransportError(resp.StatusCode, respBody)
	}

	return &apiResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// newTransportError builds the error for a non-2xx response. A JSON object or
// array body becomes the message in compact form.
func newTransportError(status int, body []byte) *TransportError {
	te := &TransportError{
		StatusCode: status,
		Message:    fmt.Sprintf("request failed with status code %d", status),
		Body:       body,
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return te
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err == nil {
		te.Message = buf.String()
	}

	return te
}
