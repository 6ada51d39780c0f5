// Package auth implements OAuth2 client-credentials token management for the
// Help Scout Mailbox API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Prometheus metrics for token management.
var (
	tokenAcquisitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpscout_token_acquisitions_total",
		Help: "Total token acquisitions by result (ok, empty, error)",
	}, []string{"result"})

	tokenRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpscout_token_refreshes_total",
		Help: "Total forced token refreshes",
	})
)

// ErrNoToken is returned when the identity endpoint does not return a usable
// access token (empty or missing token string).
var ErrNoToken = errors.New("identity endpoint returned no access token")

// Manager acquires and holds the bearer token for a client instance.
// Exactly one token is live at a time; Refresh replaces it wholesale.
// Tokens are process-lifetime only and never persisted.
type Manager struct {
	conf       *clientcredentials.Config
	httpClient *http.Client
	logger     zerolog.Logger

	mu    sync.Mutex
	token string
}

// NewManager creates a token manager for the given app credentials.
// No request is made until Token is first called.
func NewManager(clientID, clientSecret, tokenURL string, httpClient *http.Client, logger zerolog.Logger) *Manager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Manager{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		},
		httpClient: httpClient,
		logger:     logger,
	}
}

// Token returns the live bearer token, acquiring one on first use.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" {
		return m.token, nil
	}

	token, err := m.fetch(ctx)
	if err != nil {
		return "", err
	}

	m.token = token
	return m.token, nil
}

// Refresh discards the live token and acquires a new one from the identity
// endpoint. There is no retry or backoff; the caller decides what a failed
// refresh means.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tokenRefreshesTotal.Inc()

	token, err := m.fetch(ctx)
	if err != nil {
		m.token = ""
		return "", err
	}

	m.token = token
	return m.token, nil
}

// fetch performs one client-credentials grant round trip.
// Callers must hold m.mu.
func (m *Manager) fetch(ctx context.Context) (string, error) {
	// Route the grant request through the injected HTTP client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)

	tok, err := m.conf.TokenSource(ctx).Token()
	if err != nil {
		tokenAcquisitionsTotal.WithLabelValues("error").Inc()
		m.logger.Error().Err(err).Str("token_url", m.conf.TokenURL).Msg("Token acquisition failed")
		return "", fmt.Errorf("client credentials grant: %w", err)
	}

	if tok.AccessToken == "" {
		tokenAcquisitionsTotal.WithLabelValues("empty").Inc()
		m.logger.Error().Str("token_url", m.conf.TokenURL).Msg("Identity endpoint returned empty token")
		return "", ErrNoToken
	}

	tokenAcquisitionsTotal.WithLabelValues("ok").Inc()
	m.logger.Debug().Time("expiry", tok.Expiry).Msg("Acquired access token")

	return tok.AccessToken, nil
}
