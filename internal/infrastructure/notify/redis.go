package notify

import (
	"context"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/bytebufferpool"

	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
	"github.com/sonam-git/quiniela-sub001/internal/usecase"
)

const defaultChannel = "quiniela.events"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
	Timeout  time.Duration
}

// RedisNotifier publishes events on a Redis pub/sub channel. Delivery is
// best-effort: publish failures are logged, never returned.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	timeout time.Duration
	logger  *logging.Logger
}

func NewRedisNotifier(cfg RedisConfig, logger *logging.Logger) *RedisNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	channel := cfg.Channel
	if channel == "" {
		channel = defaultChannel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisNotifier{
		client:  client,
		channel: channel,
		timeout: timeout,
		logger:  logger,
	}
}

func (n *RedisNotifier) Notify(ctx context.Context, event usecase.Event) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeEvent(buf, event); err != nil {
		n.logger.WarnContext(ctx, "event not published, encode failed",
			"type", event.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.client.Publish(ctx, n.channel, buf.Bytes()).Err(); err != nil {
		n.logger.WarnContext(ctx, "event not published",
			"type", event.Type, "channel", n.channel, "error", err)
	}
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}

// encodeEvent streams the event straight into the pooled buffer so the
// payload never needs an intermediate allocation.
func encodeEvent(buf *bytebufferpool.ByteBuffer, event usecase.Event) error {
	return sonic.ConfigDefault.NewEncoder(buf).Encode(event)
}
