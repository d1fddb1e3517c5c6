package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisConnOnce sync.Once
var redisConn *redis.Client
var miniRedis *miniredis.Miniredis

// NewRedis returns a client for a shared in-process Redis server.
func NewRedis() *redis.Client {
	redisConnOnce.Do(func() {
		redisConn = openRedisConn()
	})
	return redisConn
}

func openRedisConn() *redis.Client {
	var err error
	miniRedis, err = miniredis.Run()
	if err != nil {
		panic(err)
	}

	return redis.NewClient(&redis.Options{
		Addr: miniRedis.Addr(),
	})
}

// RedisKeys lists the keys currently stored, for cache assertions.
func RedisKeys() []string {
	if miniRedis == nil {
		return nil
	}
	return miniRedis.Keys()
}

func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.Background()).Err()
}
