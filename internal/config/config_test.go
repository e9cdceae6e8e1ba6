package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xzhHas/contentflow/types"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "contentflow.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	p := writeSettings(t, `
[broker]
url = "amqp://guest:guest@mq:5672/"
heartbeat = "5s"

[listener]
name = "search"
scope = "trb"
requeue_on_failure = false

[cache]
backend = "redis"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	cfg.SetDefault()

	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.Broker.URL)
	assert.Equal(t, 5*time.Second, cfg.Broker.Heartbeat.Duration)
	assert.Equal(t, 30*time.Second, cfg.Broker.DialTimeout.Duration)
	assert.Equal(t, 1, cfg.Broker.Prefetch)
	assert.Equal(t, "search", cfg.Listener.Name)
	assert.Equal(t, "trb", cfg.Listener.Scope)
	require.NotNil(t, cfg.Listener.RequeueOnFailure)
	assert.False(t, *cfg.Listener.RequeueOnFailure)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "p2p", cfg.Cache.Prefix)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Broker.URL)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load(writeSettings(t, "[broker\nurl="))
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}

func TestResolveBrokerURLOrder(t *testing.T) {
	settings := writeSettings(t, "[broker]\nurl = \"amqp://from-file/\"\n")

	t.Setenv(EnvBrokerURL, "amqp://from-env/")
	u, err := ResolveBrokerURL("amqp://explicit/", settings)
	require.NoError(t, err)
	assert.Equal(t, "amqp://explicit/", u)

	u, err = ResolveBrokerURL("", settings)
	require.NoError(t, err)
	assert.Equal(t, "amqp://from-env/", u)

	t.Setenv(EnvBrokerURL, "")
	u, err = ResolveBrokerURL("", settings)
	require.NoError(t, err)
	assert.Equal(t, "amqp://from-file/", u)
}

func TestResolveBrokerURLFromEnvSettingsPath(t *testing.T) {
	t.Setenv(EnvBrokerURL, "")
	t.Setenv(EnvSettings, writeSettings(t, "[broker]\nurl = \"amqp://env-settings/\"\n"))
	u, err := ResolveBrokerURL("", "")
	require.NoError(t, err)
	assert.Equal(t, "amqp://env-settings/", u)
}

func TestResolveBrokerURLNothingConfigured(t *testing.T) {
	t.Setenv(EnvBrokerURL, "")
	_, err := ResolveBrokerURL("", filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}
