package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupledger/backend/config"
)

func TestNewRedisClient(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := NewRedisClient(&config.RedisConfig{URL: "redis://" + server.Addr() + "/0", DB: 2})

	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, 2, client.Options().DB)
	assert.True(t, HealthCheck(client))
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(&config.RedisConfig{URL: "not a url"})

	assert.ErrorContains(t, err, "failed to parse redis url")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err := NewRedisClient(&config.RedisConfig{URL: "redis://" + addr})

	assert.ErrorContains(t, err, "failed to ping redis")
}

func TestHealthCheck_ServerGone(t *testing.T) {
	server := miniredis.RunT(t)
	client, err := NewRedisClient(&config.RedisConfig{URL: "redis://" + server.Addr()})
	require.NoError(t, err)
	defer client.Close()

	server.Close()

	assert.False(t, HealthCheck(client))
}
