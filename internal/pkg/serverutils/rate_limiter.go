package serverutils

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

type RateLimit struct {
	// Name namespaces the counters so limiters can share one storage.
	Name   string
	Max    int
	Window time.Duration
	// KeyByUser keys on the authenticated user instead of the client IP.
	KeyByUser bool
	Message   string
}

// NewRateLimiter returns a fiber limiter answering 429 with the envelope.
// A nil storage keeps counters in process memory.
func NewRateLimiter(cfg RateLimit, storage fiber.Storage) fiber.Handler {
	message := cfg.Message
	if message == "" {
		message = "Too many requests, please try again later"
	}
	namespace := cfg.Name
	if namespace == "" {
		namespace = "default"
	}
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			if cfg.KeyByUser {
				if id, ok := c.Locals(LocalUserID).(string); ok && id != "" {
					return namespace + ":user:" + id
				}
			}
			return namespace + ":ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse(fiber.StatusTooManyRequests, message))
		},
	})
}

// RedisStorage adapts a go-redis client to fiber.Storage so limiter counters
// are shared between instances.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

func (s *RedisStorage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), s.prefix+key, val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	return s.client.Del(context.Background(), s.prefix+key).Err()
}

// Reset removes only keys under this storage's prefix.
func (s *RedisStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStorage) Close() error {
	return nil
}
