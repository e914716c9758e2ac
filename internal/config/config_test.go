package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, 5, cfg.ReconnectAttempts)
	assert.Equal(t, time.Second, cfg.ReconnectDelay)
	assert.Equal(t, 5*time.Second, cfg.HandshakeTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.OTLPEndpoint)
	assert.Equal(t, "recyclekiosk", cfg.ServiceName)
}

func TestLoad_Precedence(t *testing.T) {
	env := envMap(map[string]string{
		"KIOSK_SERVER_URL":         "http://kiosk.local:5000",
		"KIOSK_RECONNECT_ATTEMPTS": "3",
		"LOG_LEVEL":                "debug",
	})

	cfg, err := Load(nil, env)
	require.NoError(t, err)
	assert.Equal(t, "http://kiosk.local:5000", cfg.ServerURL, "env beats default")
	assert.Equal(t, 3, cfg.ReconnectAttempts)

	cfg, err = Load([]string{"--server", "https://other:8443", "--log-level", "warn"}, env)
	require.NoError(t, err)
	assert.Equal(t, "https://other:8443", cfg.ServerURL, "flag beats env")
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3, cfg.ReconnectAttempts, "unset flag keeps env value")
}

func TestLoad_BadEnv(t *testing.T) {
	_, err := Load(nil, envMap(map[string]string{"KIOSK_RECONNECT_DELAY": "soon"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KIOSK_RECONNECT_DELAY")
}

func TestLoad_UnknownFlag(t *testing.T) {
	_, err := Load([]string{"--camera", "0"}, envMap(nil))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		ServerURL:        DefaultServerURL,
		SocketPath:       DefaultSocketPath,
		ReconnectDelay:   time.Second,
		HandshakeTimeout: time.Second,
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"ws scheme", func(c *Config) { c.ServerURL = "ws://localhost:5000" }},
		{"no host", func(c *Config) { c.ServerURL = "http://" }},
		{"relative socket path", func(c *Config) { c.SocketPath = "ws" }},
		{"negative attempts", func(c *Config) { c.ReconnectAttempts = -1 }},
		{"zero delay", func(c *Config) { c.ReconnectDelay = 0 }},
		{"zero handshake", func(c *Config) { c.HandshakeTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mut(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestDerivedURLs(t *testing.T) {
	tests := []struct {
		server string
		socket string
		reset  string
	}{
		{"http://localhost:5000", "ws://localhost:5000/ws", "http://localhost:5000/api/reset"},
		{"https://kiosk.example/", "wss://kiosk.example/ws", "https://kiosk.example/api/reset"},
		{"http://10.0.0.2:5000/kiosk", "ws://10.0.0.2:5000/kiosk/ws", "http://10.0.0.2:5000/kiosk/api/reset"},
	}
	for _, tt := range tests {
		c := Config{ServerURL: tt.server, SocketPath: DefaultSocketPath}
		assert.Equal(t, tt.socket, c.SocketURL(), tt.server)
		assert.Equal(t, tt.reset, c.ResetURL(), tt.server)
	}
}
