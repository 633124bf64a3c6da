// Package transport 提供链节点连接
//
// 客户端基于 go-ethereum ethclient，按优先级尝试多个端点并在失败时降级。
package transport

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

// Client 链客户端接口
//
// 同时满足合约调用（bind.ContractBackend）和等待回执（bind.DeployBackend）的需要。
type Client interface {
	bind.ContractBackend
	bind.DeployBackend

	// ChainID 返回节点所在链的 ID
	ChainID(ctx context.Context) (*big.Int, error)

	// Endpoint 返回当前连接的端点地址
	Endpoint() string

	// Close 关闭连接
	Close()
}
