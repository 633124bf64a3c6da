package transport

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/log"
)

// ClientConfig 客户端配置
type ClientConfig struct {
	// 节点端点(按优先级排序)
	Endpoints []EndpointConfig `json:"endpoints"`

	// 期望的链 ID，为 0 时不校验
	ChainID uint64 `json:"chain_id"`

	// 超时配置，仅作用于拨号和链 ID 查询
	Timeout       time.Duration `json:"timeout"`
	RetryAttempts int           `json:"retry_attempts"`
	RetryBackoff  time.Duration `json:"retry_backoff"`
}

// EndpointConfig 端点配置
type EndpointConfig struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"` // 优先级,数字越小越优先

	// 协议端点，优先使用 JSON-RPC
	JSONRPC string `json:"jsonrpc,omitempty"`
	WS      string `json:"ws,omitempty"`
}

// URL 返回端点实际使用的地址
func (e EndpointConfig) URL() string {
	if e.JSONRPC != "" {
		return e.JSONRPC
	}
	return e.WS
}

// DialFunc 连接单个端点
type DialFunc func(ctx context.Context, endpoint string) (Client, error)

// ErrNoEndpoints 没有可用的端点配置
var ErrNoEndpoints = errors.New("no endpoints configured")

// ErrChainIDMismatch 节点链 ID 与配置不一致
var ErrChainIDMismatch = errors.New("chain id mismatch")

// Connection 拨号结果
type Connection struct {
	Client  Client
	ChainID *big.Int
	Name    string
}

// Dial 按优先级连接端点，单个端点失败时重试，重试耗尽后降级到下一个
func Dial(ctx context.Context, config ClientConfig, logger log.Logger) (*Connection, error) {
	return DialWith(ctx, config, logger, DialEth)
}

// DialWith 使用指定的拨号函数连接
func DialWith(ctx context.Context, config ClientConfig, logger log.Logger, dial DialFunc) (*Connection, error) {
	endpoints := make([]EndpointConfig, 0, len(config.Endpoints))
	for _, ep := range config.Endpoints {
		if ep.URL() != "" {
			endpoints = append(endpoints, ep)
		}
	}
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	sort.SliceStable(endpoints, func(i, j int) bool {
		return endpoints[i].Priority < endpoints[j].Priority
	})

	// 设置默认值
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = time.Second
	}

	var lastErr error
	for _, ep := range endpoints {
		for attempt := 1; attempt <= config.RetryAttempts; attempt++ {
			conn, err := dialOnce(ctx, config, ep, dial)
			if err == nil {
				if logger != nil {
					logger.Infof("已连接节点: name=%s, endpoint=%s, chain_id=%s", ep.Name, ep.URL(), conn.ChainID)
				}
				return conn, nil
			}
			lastErr = err
			if logger != nil {
				logger.Warnf("连接节点失败: name=%s, attempt=%d/%d, err=%v", ep.Name, attempt, config.RetryAttempts, err)
			}
			// 链 ID 不一致时重试没有意义
			if errors.Is(err, ErrChainIDMismatch) {
				break
			}
			if attempt < config.RetryAttempts {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(config.RetryBackoff):
				}
			}
		}
	}

	return nil, fmt.Errorf("all endpoints failed: %w", lastErr)
}

func dialOnce(ctx context.Context, config ClientConfig, ep EndpointConfig, dial DialFunc) (*Connection, error) {
	dialCtx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	client, err := dial(dialCtx, ep.URL())
	if err != nil {
		return nil, err
	}

	chainID, err := client.ChainID(dialCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("query chain id from %s: %w", ep.URL(), err)
	}
	if config.ChainID != 0 && (!chainID.IsUint64() || chainID.Uint64() != config.ChainID) {
		client.Close()
		return nil, fmt.Errorf("%w: endpoint %s reports %s, expected %d", ErrChainIDMismatch, ep.URL(), chainID, config.ChainID)
	}

	return &Connection{Client: client, ChainID: chainID, Name: ep.Name}, nil
}
