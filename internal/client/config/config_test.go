package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "trailkeeper.db", cfg.DatabaseDSN)
	assert.False(t, cfg.SyncEnabled)
	assert.Empty(t, cfg.RemoteDSN)
	assert.Equal(t, 150*time.Millisecond, cfg.ImportWriteDelay)
}
