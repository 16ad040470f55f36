package helpscout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetMailboxes returns the mailboxes listed at _embedded.mailboxes, in the
// order the server sent them.
func (c *Client) GetMailboxes(ctx context.Context) ([]Mailbox, error) {
	mailboxes, _, err := c.getMailboxes(ctx, mailboxesPath)
	return mailboxes, err
}

// ListAllMailboxes follows the paging block until every page has been read.
func (c *Client) ListAllMailboxes(ctx context.Context) ([]Mailbox, error) {
	all, page, err := c.getMailboxes(ctx, mailboxesPath)
	if err != nil {
		return nil, err
	}

	if page == nil {
		return all, nil
	}

	// the first request is page 1 even when the block omits its number
	for n := max(page.Number, 1) + 1; n <= page.TotalPages; n++ {
		mailboxes, _, err := c.getMailboxes(ctx, fmt.Sprintf("%s?page=%d", mailboxesPath, n))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch mailbox page %d: %w", n, err)
		}
		all = append(all, mailboxes...)
	}

	return all, nil
}

func (c *Client) getMailboxes(ctx context.Context, path string) ([]Mailbox, *Page, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}

	var result mailboxesResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, nil, &ResponseShapeError{Endpoint: mailboxesPath, Field: "body", Err: err}
	}

	if result.Embedded == nil || result.Embedded.Mailboxes == nil {
		return nil, nil, &ResponseShapeError{Endpoint: mailboxesPath, Field: "_embedded.mailboxes"}
	}

	return *result.Embedded.Mailboxes, result.Page, nil
}
