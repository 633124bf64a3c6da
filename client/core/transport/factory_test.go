package transport

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	Client
	endpoint string
	chainID  *big.Int
	chainErr error
	closed   bool
}

func (c *fakeClient) ChainID(context.Context) (*big.Int, error) { return c.chainID, c.chainErr }
func (c *fakeClient) Endpoint() string                         { return c.endpoint }
func (c *fakeClient) Close()                                   { c.closed = true }

type dialRecorder struct {
	attempts []string
	clients  map[string]*fakeClient
	failures map[string]int
}

func (d *dialRecorder) dial(_ context.Context, endpoint string) (Client, error) {
	d.attempts = append(d.attempts, endpoint)
	if d.failures[endpoint] > 0 {
		d.failures[endpoint]--
		return nil, errors.New("connection refused")
	}
	c, ok := d.clients[endpoint]
	if !ok {
		return nil, errors.New("unknown endpoint")
	}
	return c, nil
}

func fastConfig(endpoints ...EndpointConfig) ClientConfig {
	return ClientConfig{
		Endpoints:     endpoints,
		Timeout:       time.Second,
		RetryAttempts: 2,
		RetryBackoff:  time.Millisecond,
	}
}

func TestDialPriorityOrder(t *testing.T) {
	d := &dialRecorder{clients: map[string]*fakeClient{
		"http://primary":   {endpoint: "http://primary", chainID: big.NewInt(5)},
		"http://secondary": {endpoint: "http://secondary", chainID: big.NewInt(5)},
	}}

	conn, err := DialWith(context.Background(), fastConfig(
		EndpointConfig{Name: "secondary", Priority: 2, JSONRPC: "http://secondary"},
		EndpointConfig{Name: "primary", Priority: 1, JSONRPC: "http://primary"},
	), nil, d.dial)
	require.NoError(t, err)
	assert.Equal(t, "primary", conn.Name)
	assert.Equal(t, int64(5), conn.ChainID.Int64())
	assert.Equal(t, []string{"http://primary"}, d.attempts)
}

func TestDialRetriesThenFallsBack(t *testing.T) {
	d := &dialRecorder{
		clients:  map[string]*fakeClient{"ws://backup": {chainID: big.NewInt(1)}},
		failures: map[string]int{"http://down": 5},
	}

	conn, err := DialWith(context.Background(), fastConfig(
		EndpointConfig{Name: "down", Priority: 1, JSONRPC: "http://down"},
		EndpointConfig{Name: "backup", Priority: 2, WS: "ws://backup"},
	), nil, d.dial)
	require.NoError(t, err)
	assert.Equal(t, "backup", conn.Name)
	assert.Equal(t, []string{"http://down", "http://down", "ws://backup"}, d.attempts)
}

func TestDialChainIDMismatch(t *testing.T) {
	wrong := &fakeClient{chainID: big.NewInt(1)}
	d := &dialRecorder{clients: map[string]*fakeClient{"http://mainnet": wrong}}

	cfg := fastConfig(EndpointConfig{Name: "mainnet", JSONRPC: "http://mainnet"})
	cfg.ChainID = 5

	_, err := DialWith(context.Background(), cfg, nil, d.dial)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChainIDMismatch)
	assert.True(t, wrong.closed)
	// 不重试
	assert.Len(t, d.attempts, 1)
}

func TestDialChainIDQueryFails(t *testing.T) {
	broken := &fakeClient{chainErr: errors.New("method not found")}
	d := &dialRecorder{clients: map[string]*fakeClient{"http://broken": broken}}

	_, err := DialWith(context.Background(), fastConfig(EndpointConfig{JSONRPC: "http://broken"}), nil, d.dial)
	require.Error(t, err)
	assert.True(t, broken.closed)
	assert.Len(t, d.attempts, 2)
}

func TestDialNoEndpoints(t *testing.T) {
	_, err := DialWith(context.Background(), ClientConfig{}, nil, nil)
	assert.ErrorIs(t, err, ErrNoEndpoints)

	_, err = DialWith(context.Background(), ClientConfig{Endpoints: []EndpointConfig{{Name: "empty"}}}, nil, nil)
	assert.ErrorIs(t, err, ErrNoEndpoints)
}

func TestDialCancelledDuringBackoff(t *testing.T) {
	d := &dialRecorder{failures: map[string]int{"http://down": 10}}
	cfg := fastConfig(EndpointConfig{JSONRPC: "http://down"})
	cfg.RetryBackoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := DialWith(ctx, cfg, nil, d.dial)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://a", EndpointConfig{JSONRPC: "http://a", WS: "ws://b"}.URL())
	assert.Equal(t, "ws://b", EndpointConfig{WS: "ws://b"}.URL())
	assert.Empty(t, EndpointConfig{}.URL())
}
