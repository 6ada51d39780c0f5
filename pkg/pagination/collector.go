package pagination

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for page collection.
var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpscout_pages_fetched_total",
		Help: "Total search pages fetched by endpoint",
	}, []string{"endpoint"})

	collectionItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpscout_collected_items_total",
		Help: "Total items accumulated from search pages by endpoint",
	}, []string{"endpoint"})
)

// Envelope selects how a page reports its items and total page count.
type Envelope string

const (
	// EnvelopeLegacy reads top-level items and pages fields (v1 API).
	EnvelopeLegacy Envelope = "legacy"

	// EnvelopeHAL reads _embedded[<key>] and page.totalPages (v2 API).
	EnvelopeHAL Envelope = "hal"
)

// PageFetcher is the interface the API client implements for single-page
// fetching. The returned bytes are one page's response body.
type PageFetcher interface {
	FetchPage(ctx context.Context, path string, query url.Values, page int) ([]byte, error)
}

// Collector accumulates all pages of a search endpoint.
type Collector struct {
	fetcher  PageFetcher
	envelope Envelope
}

// NewCollector creates a collector for the given envelope shape.
func NewCollector(fetcher PageFetcher, envelope Envelope) *Collector {
	if envelope == "" {
		envelope = EnvelopeHAL
	}
	return &Collector{
		fetcher:  fetcher,
		envelope: envelope,
	}
}

// Collect fetches pages starting at 1 and returns the concatenation of every
// page's items in page order. embeddedKey names the item collection inside
// the HAL _embedded container and is ignored for the legacy envelope.
//
// Each page is one full dispatcher round trip; fetching stops once the page
// index reaches the reported total, or immediately on an empty page. A
// search with no results returns a nil slice.
func (c *Collector) Collect(ctx context.Context, path string, query url.Values, embeddedKey string) ([]json.RawMessage, error) {
	start := time.Now()

	var collected []json.RawMessage
	for page := 1; ; page++ {
		raw, err := c.fetcher.FetchPage(ctx, path, query, page)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		pagesFetchedTotal.WithLabelValues(path).Inc()

		if len(bytes.TrimSpace(raw)) == 0 {
			break
		}

		items, totalPages, err := c.extract(raw, embeddedKey)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if len(items) == 0 {
			break
		}

		collected = append(collected, items...)
		collectionItemsTotal.WithLabelValues(path).Add(float64(len(items)))

		log.Debug().
			Str("endpoint", path).
			Int("page", page).
			Int("total_pages", totalPages).
			Int("items", len(items)).
			Msg("Collected search page")

		if page >= totalPages {
			break
		}
	}

	log.Info().
		Str("endpoint", path).
		Int("items", len(collected)).
		Dur("duration", time.Since(start)).
		Msg("Search collection complete")

	return collected, nil
}

// legacyPage is the v1 page envelope.
type legacyPage struct {
	Items []json.RawMessage `json:"items"`
	Pages int               `json:"pages"`
}

// halPage is the v2 page envelope.
type halPage struct {
	Embedded map[string]json.RawMessage `json:"_embedded"`
	Page     struct {
		TotalPages int `json:"totalPages"`
	} `json:"page"`
}

// extract pulls the item collection and total page count out of one page
// body according to the configured envelope.
func (c *Collector) extract(raw []byte, embeddedKey string) ([]json.RawMessage, int, error) {
	switch c.envelope {
	case EnvelopeLegacy:
		var page legacyPage
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, 0, fmt.Errorf("decode legacy page: %w", err)
		}
		return page.Items, page.Pages, nil

	case EnvelopeHAL:
		var page halPage
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, 0, fmt.Errorf("decode page: %w", err)
		}
		if page.Embedded == nil {
			return nil, page.Page.TotalPages, nil
		}

		rawItems, ok := page.Embedded[embeddedKey]
		if !ok {
			return nil, 0, fmt.Errorf("embedded field %q missing from page", embeddedKey)
		}

		var items []json.RawMessage
		if err := json.Unmarshal(rawItems, &items); err != nil {
			return nil, 0, fmt.Errorf("decode embedded field %q: %w", embeddedKey, err)
		}
		return items, page.Page.TotalPages, nil

	default:
		return nil, 0, fmt.Errorf("unknown envelope %q", c.envelope)
	}
}
