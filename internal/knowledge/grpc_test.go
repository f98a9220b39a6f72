package knowledge

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
)

// #region helpers
// rulesOnly implements the base Adapter without optional capabilities.
type rulesOnly struct{}

func (rulesOnly) Search(context.Context, string, int) ([]Fact, error) { return nil, nil }
func (rulesOnly) Facts(context.Context, string) ([]Fact, error)       { return nil, nil }
func (rulesOnly) Rules(context.Context, string) ([]Rule, error) {
	return nil, errs.Validation("rules", "domain required")
}

func startServer(t *testing.T, adapter Adapter) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterServer(srv, adapter)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewClientWithConn(conn, 5*time.Second)
}

// #endregion helpers

// #region round-trip-tests
func TestClient_RoundTrip(t *testing.T) {
	mem := NewMemory(DefaultCorpus())
	client := startServer(t, mem)
	ctx := context.Background()

	want, err := mem.Search(ctx, "rain wet streets", 3)
	require.NoError(t, err)
	got, err := client.Search(ctx, "rain wet streets", 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	rules, err := client.Rules(ctx, "weather")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "streets become wet", rules[0].Conclusion)

	stats, err := client.Statistics(ctx, "rain")
	require.NoError(t, err)
	require.NotEmpty(t, stats)
	assert.Equal(t, 500, stats[0].SampleSize)

	links, err := client.CausalRelationships(ctx, "rain", "")
	require.NoError(t, err)
	require.NotEmpty(t, links)
	assert.Equal(t, "wet streets", links[0].Effect)

	ok, err := client.ValidateConsistency(ctx, "Rain does not make streets wet", "weather")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_ErrorMapping(t *testing.T) {
	client := startServer(t, rulesOnly{})
	ctx := context.Background()

	_, err := client.Rules(ctx, "")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = client.Statistics(ctx, "rain")
	assert.ErrorIs(t, err, errs.ErrUnavailable, "unimplemented capability maps to unavailable")
}

func TestClient_CancelledContext(t *testing.T) {
	client := startServer(t, NewMemory(DefaultCorpus()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "rain", 1)
	assert.ErrorIs(t, err, errs.ErrCancelled)
}

// #endregion round-trip-tests
