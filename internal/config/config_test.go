package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, uint16(3000), cfg.HttpServerPort)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(4096), cfg.WsReadLimit)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("HTTP_SERVER_PORT", "8085")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example,https://b.example")
	t.Setenv("WS_READ_LIMIT", "1024")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, uint16(8085), cfg.HttpServerPort)
	assert.Equal(t, []string{"http://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(1024), cfg.WsReadLimit)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port below range", "HTTP_SERVER_PORT", "80"},
		{"port not a number", "HTTP_SERVER_PORT", "not-a-port"},
		{"read limit too small", "WS_READ_LIMIT", "10"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
