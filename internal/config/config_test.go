package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const testYAML = `
mode: debug
port: 9000
room_capacity: 4
negotiation_timeout: 3s
codecs:
  - kind: audio
    mime_type: audio/opus
    clock_rate: 48000
    channels: 2
    payload_type: 111
`

// inConfigDir runs the test from a directory holding config/config.test.yaml.
func inConfigDir(t *testing.T, yaml string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(yaml), 0o644))
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "test")
}

func TestLoad(t *testing.T) {
	t.Run("should fall back to defaults without a file", func(t *testing.T) {
		req := require.New(t)
		t.Chdir(t.TempDir())
		t.Setenv("CONFIG_ENV", "missing")

		cfg, err := Load(nil)

		req.NoError(err)
		req.Equal(8080, cfg.Port)
		req.Equal("release", cfg.Mode)
		req.Equal(20, cfg.RoomCapacity)
		req.Equal(54*time.Second, cfg.PingPeriod)
		req.Equal(3, cfg.CapsRetryAttempts)
		req.Equal(time.Second, cfg.CapsRetryBaseDelay)
		req.Empty(cfg.Codecs)
	})

	t.Run("should read the env file", func(t *testing.T) {
		req := require.New(t)
		inConfigDir(t, testYAML)

		cfg, err := Load(nil)

		req.NoError(err)
		req.Equal(9000, cfg.Port)
		req.Equal(4, cfg.RoomCapacity)
		req.Equal(3*time.Second, cfg.NegotiationTimeout)
		req.Len(cfg.Codecs, 1)
		req.Equal("audio/opus", cfg.Codecs[0].MimeType)
		req.Equal(uint8(111), cfg.Codecs[0].PayloadType)
	})

	t.Run("should let the environment override the file", func(t *testing.T) {
		req := require.New(t)
		inConfigDir(t, testYAML)
		t.Setenv("HUDDLE_PORT", "9100")
		t.Setenv("HUDDLE_ROOM_CAPACITY", "8")

		cfg, err := Load(nil)

		req.NoError(err)
		req.Equal(9100, cfg.Port)
		req.Equal(8, cfg.RoomCapacity)
	})

	t.Run("should let explicit flags win", func(t *testing.T) {
		req := require.New(t)
		inConfigDir(t, testYAML)
		t.Setenv("HUDDLE_PORT", "9100")

		flags := pflag.NewFlagSet("huddle", pflag.ContinueOnError)
		flags.Int("port", 8080, "")
		flags.String("log-level", "info", "")
		flags.String("config-env", "", "")
		req.NoError(flags.Parse([]string{"--port=9200", "--log-level=warn", "--config-env=test"}))

		cfg, err := Load(flags)

		req.NoError(err)
		req.Equal(9200, cfg.Port)
		req.Equal("warn", cfg.LogLevel)
	})

	t.Run("should reject an invalid file", func(t *testing.T) {
		inConfigDir(t, "room_capacity: 0\n")

		_, err := Load(nil)

		require.Error(t, err)
	})
}

func TestLoad_DotEnv(t *testing.T) {
	req := require.New(t)
	inConfigDir(t, testYAML)
	req.NoError(os.WriteFile(".env", []byte("HUDDLE_JOIN_RATE_LIMIT=9\n"), 0o644))
	t.Setenv("HUDDLE_JOIN_RATE_LIMIT", "")
	req.NoError(os.Unsetenv("HUDDLE_JOIN_RATE_LIMIT"))

	cfg, err := Load(nil)

	req.NoError(err)
	req.Equal(9, cfg.JoinRateLimit)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Port: 8080, RTCMinPort: 40000, RTCMaxPort: 40100, RoomCapacity: 20}
	require.NoError(t, valid.Validate())

	inverted := valid
	inverted.RTCMinPort, inverted.RTCMaxPort = 50000, 40000
	require.Error(t, inverted.Validate())

	badPort := valid
	badPort.Port = 70000
	require.Error(t, badPort.Validate())
}
