package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhelmers/helpscout-client/internal/testutil"
	"github.com/jhelmers/helpscout-client/pkg/client"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newIntegrationClient(t *testing.T, mock *testutil.MockAPI, redisClient *redis.Client) *client.Client {
	t.Helper()

	cfg := client.Config{
		ClientID:     "integration-app",
		ClientSecret: "integration-secret",
		APIVersion:   client.APIVersionV2,
		BaseURL:      mock.URL(),
		Redis:        redisClient,
	}

	c, err := client.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

// TestFullRequestFlow covers the complete flow: token grant, authenticated
// dispatch, and paged collection into a single slice.
func TestFullRequestFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetHandler("/v2/conversations", testutil.NewPagedSearchHandler("conversations", []string{
		`[{"id":1,"subject":"first"},{"id":2,"subject":"second"}]`,
		`[{"id":3,"subject":"third"}]`,
	}))

	c := newIntegrationClient(t, mock, redisClient)

	if mock.GetTokenRequests() != 1 {
		t.Errorf("Token requests after construction = %d, want 1", mock.GetTokenRequests())
	}

	ctx := context.Background()

	conversations, err := c.SearchConversations(ctx, `(status:"active")`)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(conversations) != 3 {
		t.Errorf("Collected %d conversations, want 3", len(conversations))
	}
	if conversations[0].ID != 1 || conversations[2].ID != 3 {
		t.Errorf("Collected IDs out of order: %+v", conversations)
	}

	if got := mock.LastBearerToken(); got != "test-token-1" {
		t.Errorf("Bearer token = %q, want %q", got, "test-token-1")
	}

	// 1 token grant + 2 pages
	if mock.GetRequestCount() != 3 {
		t.Errorf("Total requests = %d, want 3", mock.GetRequestCount())
	}
}

// TestTokenRefreshFlow verifies a 401 mid-session triggers one refresh and
// the retried request carries the new token.
func TestTokenRefreshFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAPI()
	defer mock.Close()

	attempts := 0
	mock.SetHandler("/v2/mailboxes", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"_embedded":{"mailboxes":[{"id":10,"name":"Support"}]},"page":{"totalPages":1}}`))
	})

	c := newIntegrationClient(t, mock, redisClient)

	mailboxes, err := c.ListMailboxes(context.Background())
	if err != nil {
		t.Fatalf("ListMailboxes failed: %v", err)
	}

	if len(mailboxes) != 1 || mailboxes[0].ID != 10 {
		t.Errorf("Mailboxes = %+v, want one with ID 10", mailboxes)
	}
	if attempts != 2 {
		t.Errorf("Resource attempts = %d, want 2 (401 then retry)", attempts)
	}
	if mock.GetTokenRequests() != 2 {
		t.Errorf("Token requests = %d, want 2 (initial + refresh)", mock.GetTokenRequests())
	}
	if got := mock.LastBearerToken(); got != "test-token-2" {
		t.Errorf("Retry bearer token = %q, want %q", got, "test-token-2")
	}
}

// TestCreatedResourceFlow verifies the ID of a created conversation is read
// from the Location header.
func TestCreatedResourceFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetResponse("/v2/conversations", testutil.NewCreatedResponse("https://api.helpscout.net/v2/conversations/4567"))

	c := newIntegrationClient(t, mock, redisClient)

	id, err := c.CreateConversation(context.Background(), map[string]any{"subject": "hi"})
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	if id != "4567" {
		t.Errorf("Created ID = %q, want %q", id, "4567")
	}
}

// TestSharedRateLimitObservation verifies a 429 window observed by one
// client is visible to a second client through Redis.
func TestSharedRateLimitObservation(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetResponse("/v2/mailboxes", testutil.NewRateLimitResponse("45"))

	first := newIntegrationClient(t, mock, redisClient)
	second := newIntegrationClient(t, mock, redisClient)

	ctx := context.Background()

	_, err := first.ListMailboxes(ctx)
	if !client.IsRateLimited(err) {
		t.Fatalf("ListMailboxes error = %v, want a rate-limited error", err)
	}

	state, err := second.RateLimits(ctx)
	if err != nil {
		t.Fatalf("RateLimits failed: %v", err)
	}

	if !state.Active() {
		t.Fatal("Second client sees no active window, want the shared 429 observation")
	}
	if remaining := state.TimeUntilReset(); remaining <= 0 || remaining > 45*time.Second {
		t.Errorf("TimeUntilReset = %s, want within (0s, 45s]", remaining)
	}
}

// TestErrorSurface verifies typed errors reach the caller unretried.
func TestErrorSurface(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetResponse("/v2/conversations/99", testutil.MockResponse{StatusCode: http.StatusNotFound})

	c := newIntegrationClient(t, mock, redisClient)

	before := mock.GetRequestCount()
	_, err := c.GetConversation(context.Background(), 99)
	if !client.IsNotFound(err) {
		t.Fatalf("GetConversation error = %v, want a not-found error", err)
	}
	if got := mock.GetRequestCount() - before; got != 1 {
		t.Errorf("Requests for 404 = %d, want 1 (no retries)", got)
	}
}
