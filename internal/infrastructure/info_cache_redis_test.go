package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/audio-extract-go/internal/domain"
)

func TestNewRedisInfoCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// Port 1 is reserved and never has a listener
	cache, err := NewRedisInfoCache(ctx, &domain.CacheConfig{Addr: "127.0.0.1:1", TTL: time.Minute})
	assert.Error(t, err)
	assert.Nil(t, cache)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestInfoKey(t *testing.T) {
	assert.Equal(t, "info:https://example.com/v", infoKey("https://example.com/v"))
}
