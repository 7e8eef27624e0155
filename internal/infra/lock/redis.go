package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lilpaf/Super-Barber-sub000/internal/domain/booking"
)

const defaultTTL = 10 * time.Second

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares slot locks between every API instance.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

var _ booking.SlotLocker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisLocker{client: client, ttl: ttl}
}

// Connect opens a client and pings it.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func (l *RedisLocker) TryLock(
	ctx context.Context,
	barberID uint,
	at time.Time,
) (func(), bool, error) {

	key := booking.SlotKey(barberID, at)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	return func() {
		// the request context may already be done
		if err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil {
			zap.L().Warn("slot unlock failed", zap.String("key", key), zap.Error(err))
		}
	}, true, nil
}
