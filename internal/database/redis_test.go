package database

import (
	"testing"

	"hospital-workflow-backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectRedis_Disabled(t *testing.T) {
	client, err := ConnectRedis(&config.Config{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestConnectRedis_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(&config.Config{Redis: config.RedisConfig{Addr: mr.Addr()}}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
}

func TestConnectRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := ConnectRedis(&config.Config{Redis: config.RedisConfig{Addr: addr}}, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, client)
}
