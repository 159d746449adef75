package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name     string
		args     []string
		initial  Config
		expected Config
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-d", "/tmp/other.db", "-r", "postgres://r", "-s"},
			expected: Config{
				DatabaseDSN: "/tmp/other.db",
				RemoteDSN:   "postgres://r",
				SyncEnabled: true,
			},
		},
		{
			name:     "no flags keeps existing values",
			args:     []string{"cmd"},
			initial:  Config{DatabaseDSN: "keep.db"},
			expected: Config{DatabaseDSN: "keep.db"},
		},
		{
			name:     "unknown flags are filtered out",
			args:     []string{"cmd", "-d", "/tmp/x.db", "--verbose", "-z", "1"},
			expected: Config{DatabaseDSN: "/tmp/x.db"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := tt.initial

			require.NotPanics(t, func() { parseFlags(&cfg) })
			assert.Equal(t, tt.expected, cfg)
		})
	}
}
