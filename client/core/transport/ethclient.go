package transport

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
)

// EthClient 基于 ethclient 的客户端实现
type EthClient struct {
	*ethclient.Client
	endpoint string
}

// DialEth 连接单个 JSON-RPC 或 WebSocket 端点
func DialEth(ctx context.Context, endpoint string) (Client, error) {
	c, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return &EthClient{Client: c, endpoint: endpoint}, nil
}

// Endpoint 实现 Client
func (c *EthClient) Endpoint() string {
	return c.endpoint
}

var _ Client = (*EthClient)(nil)
