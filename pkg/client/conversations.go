package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhelmers/helpscout-client/pkg/pagination"
)

// envelope returns the pagination envelope for the configured API version.
func (c *Client) envelope() pagination.Envelope {
	if c.config.APIVersion == APIVersionV1 {
		return pagination.EnvelopeLegacy
	}
	return pagination.EnvelopeHAL
}

// CollectAll gathers every page of a search-style endpoint into one raw item
// sequence. embeddedKey names the item collection in the v2 envelope.
func (c *Client) CollectAll(ctx context.Context, path string, query url.Values, embeddedKey string) ([]json.RawMessage, error) {
	return pagination.NewCollector(c, c.envelope()).Collect(ctx, path, query, embeddedKey)
}

// collectAs gathers all pages and decodes each item into T. A search with no
// results yields a nil slice.
func collectAs[T any](ctx context.Context, c *Client, path string, query url.Values, embeddedKey string) ([]T, error) {
	raw, err := c.CollectAll(ctx, path, query, embeddedKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	items := make([]T, 0, len(raw))
	for _, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("decode %s item: %w", path, err)
		}
		items = append(items, v)
	}
	return items, nil
}

// CreateConversation creates a conversation and returns the new
// conversation's ID, extracted from the Location header.
func (c *Client) CreateConversation(ctx context.Context, conversation any) (string, error) {
	resp, err := c.Do(ctx, http.MethodPost, "conversations", &RequestOptions{Body: conversation})
	if err != nil {
		return "", err
	}
	return resp.CreatedID(), nil
}

// GetConversation fetches one conversation by ID.
func (c *Client) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	resp, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("conversations/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var conversation Conversation
	if err := resp.JSON(&conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// UpdateConversation replaces a conversation's mutable fields.
func (c *Client) UpdateConversation(ctx context.Context, id int64, conversation any) error {
	_, err := c.Do(ctx, http.MethodPut, fmt.Sprintf("conversations/%d", id), &RequestOptions{Body: conversation})
	return err
}

// DeleteConversation deletes a conversation.
func (c *Client) DeleteConversation(ctx context.Context, id int64) error {
	_, err := c.Do(ctx, http.MethodDelete, fmt.Sprintf("conversations/%d", id), nil)
	return err
}

// ListConversations lists conversations matching the given query
// parameters, across all pages.
func (c *Client) ListConversations(ctx context.Context, query url.Values) ([]Conversation, error) {
	return collectAs[Conversation](ctx, c, "conversations", query, "conversations")
}

// SearchConversations runs a conversation search and collects every result
// page.
func (c *Client) SearchConversations(ctx context.Context, searchQuery string) ([]Conversation, error) {
	path := "conversations"
	if c.config.APIVersion == APIVersionV1 {
		path = "search/conversations"
	}

	query := url.Values{}
	query.Set("query", searchQuery)

	return collectAs[Conversation](ctx, c, path, query, "conversations")
}
