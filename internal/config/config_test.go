package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	settings, err := Load(viper.New(), "")
	require.NoError(t, err)

	dir := filepath.Join(home, ".inf-pilisp")
	assert.Equal(t, Settings{
		Dialect:        "clojure",
		Transport:      domain.TransportProcess,
		DialectsPath:   filepath.Join(dir, "dialects.toml"),
		HistoryPath:    filepath.Join(dir, "history.db"),
		HistoryEnabled: true,
		RequestTimeout: 10 * time.Second,
		StartupTimeout: 30 * time.Second,
		LogPath:        filepath.Join(dir, "exchanges.log"),
	}, settings)
}

func TestLoadReadsHomeConfigAndEnvironment(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("INF_PILISP_REQUEST_TIMEOUT", "3s")

	dir := filepath.Join(home, ".inf-pilisp")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
dialect = "pil"
transport = "pty"

[history]
enabled = false

[log]
exchanges = true
`), 0o600))

	settings, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, domain.DialectID("pil"), settings.Dialect)
	assert.Equal(t, domain.TransportPTY, settings.Transport)
	assert.False(t, settings.HistoryEnabled)
	assert.True(t, settings.LogExchanges)
	assert.Equal(t, 3*time.Second, settings.RequestTimeout)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorContains(t, err, "read config")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "transport", content: `transport = "serial"`, wantErr: `unsupported transport "serial"`},
		{name: "timeout", content: "[request]\ntimeout = \"0s\"", wantErr: "request.timeout must be positive, got 0s"},
		{name: "dialect", content: `dialect = " "`, wantErr: "dialect is empty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())

			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			_, err := Load(viper.New(), path)
			require.EqualError(t, err, tc.wantErr)
		})
	}
}
