package client

import (
	"context"
)

// ListMailboxes lists the mailboxes the app has access to, across all pages.
func (c *Client) ListMailboxes(ctx context.Context) ([]Mailbox, error) {
	return collectAs[Mailbox](ctx, c, "mailboxes", nil, "mailboxes")
}
