package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// UserRatingsReport fetches the happiness ratings report for one user,
// optionally filtered by rating name ("great", "okay", "not-good") and
// bounded by the given date range.
func (c *Client) UserRatingsReport(ctx context.Context, userID int64, rating string, start, end time.Time) (*RatingsReport, error) {
	query := url.Values{}
	query.Set("user", strconv.FormatInt(userID, 10))
	query.Set("start", start.UTC().Format(time.RFC3339))
	query.Set("end", end.UTC().Format(time.RFC3339))
	if rating != "" {
		query.Set("rating", rating)
	}

	resp, err := c.Do(ctx, http.MethodGet, "reports/happiness/ratings", &RequestOptions{Query: query})
	if err != nil {
		return nil, err
	}

	var report RatingsReport
	if err := resp.JSON(&report); err != nil {
		return nil, err
	}
	return &report, nil
}
