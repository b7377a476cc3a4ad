package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/npatt14/Aptus/config"
)

// Client Redis 客户端封装
// 当前用于重复提交检测与速率限制；连接失败时整体降级，不影响主流程
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 重复提交检测 ──

const dedupPrefix = "shift:dedup:"

// DedupKey 根据原始文本与时区生成重复提交指纹
func DedupKey(text, timezone string) string {
	sum := sha256.Sum256([]byte(timezone + "|" + text))
	return hex.EncodeToString(sum[:])
}

// MarkSubmission 记录一次提交指纹，返回该指纹在 TTL 窗口内是否首次出现。
// 重复提交仅用于观测告警，不阻断请求。
func (c *Client) MarkSubmission(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, dedupPrefix+fingerprint, "1", ttl).Result()
}

// ── 速率限制 ──

// CheckRateLimit 固定窗口计数限流。
// 首次出现的 key 以 INCR 创建并设置窗口 TTL，计数超过 limit 时拒绝。
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
