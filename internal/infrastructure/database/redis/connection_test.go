package redis

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/ventilation-store/internal/config"
	"github.com/your-org/ventilation-store/internal/pkg/logger"
)

func testConfig(t *testing.T, addr string) *config.Config {
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return &config.Config{Redis: config.RedisConfig{Host: host, Port: port, PoolSize: 2}}
}

func TestNewConnection(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewConnection(testConfig(t, mr.Addr()), logger.Discard())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
