package helpscout

import (
	"context"
	"net/http"
)

// CreateConversation opens an active email conversation whose first thread
// is authored by the customer.
func (c *Client) CreateConversation(ctx context.Context, conv NewConversation) error {
	if err := c.ready(); err != nil {
		return err
	}
	if !conv.Customer.valid() {
		return ErrInvalidCustomer
	}

	_, err := c.do(ctx, http.MethodPost, conversationsPath, conversationRequest{
		Subject:   conv.Subject,
		Customer:  conv.Customer,
		MailboxID: conv.MailboxID,
		Type:      conversationTypeEmail,
		Status:    conversationStatusActive,
		Threads: []conversationThread{{
			Type:     threadTypeCustomer,
			Customer: conv.Customer,
			Text:     conv.Body,
		}},
		AssignTo: conv.AssignTo,
	})
	return err
}
