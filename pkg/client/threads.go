package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateChatThread adds a chat thread to a conversation.
func (c *Client) CreateChatThread(ctx context.Context, conversationID int64, thread any) error {
	_, err := c.Do(ctx, http.MethodPost, fmt.Sprintf("conversations/%d/chats", conversationID), &RequestOptions{Body: thread})
	return err
}

// CreateReplyThread adds a reply to the customer on a conversation.
func (c *Client) CreateReplyThread(ctx context.Context, conversationID int64, thread any) error {
	_, err := c.Do(ctx, http.MethodPost, fmt.Sprintf("conversations/%d/reply", conversationID), &RequestOptions{Body: thread})
	return err
}

// CreateNoteThread adds an internal note to a conversation.
func (c *Client) CreateNoteThread(ctx context.Context, conversationID int64, thread any) error {
	_, err := c.Do(ctx, http.MethodPost, fmt.Sprintf("conversations/%d/notes", conversationID), &RequestOptions{Body: thread})
	return err
}

// UpdateThread replaces a thread with a full body.
func (c *Client) UpdateThread(ctx context.Context, conversationID, threadID int64, thread any) error {
	_, err := c.Do(ctx, http.MethodPut, fmt.Sprintf("conversations/%d/threads/%d", conversationID, threadID), &RequestOptions{Body: thread})
	return err
}

// PatchThread applies one patch-style field operation to a thread.
func (c *Client) PatchThread(ctx context.Context, conversationID, threadID int64, op, path string, value any) error {
	body := PatchOperation{
		Op:    op,
		Path:  path,
		Value: value,
	}
	_, err := c.Do(ctx, http.MethodPatch, fmt.Sprintf("conversations/%d/threads/%d", conversationID, threadID), &RequestOptions{Body: body})
	return err
}

// ListThreads lists a conversation's threads across all pages.
func (c *Client) ListThreads(ctx context.Context, conversationID int64) ([]Thread, error) {
	return collectAs[Thread](ctx, c, fmt.Sprintf("conversations/%d/threads", conversationID), nil, "threads")
}

// SearchThreads runs a thread search and collects every result page.
func (c *Client) SearchThreads(ctx context.Context, searchQuery string) ([]Thread, error) {
	query := url.Values{}
	query.Set("query", searchQuery)

	return collectAs[Thread](ctx, c, "search/threads", query, "threads")
}
