package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/spf13/viper"
)

const (
	KeyDialect        = "dialect"
	KeyTransport      = "transport"
	KeyDialectsPath   = "dialects.path"
	KeyHistoryPath    = "history.path"
	KeyHistoryEnabled = "history.enabled"
	KeyRequestTimeout = "request.timeout"
	KeyStartupTimeout = "startup.timeout"
	KeyLogExchanges   = "log.exchanges"
	KeyLogPath        = "log.path"

	EnvPrefix = "INF_PILISP"
	configDir = ".inf-pilisp"
)

type Settings struct {
	Dialect        domain.DialectID
	Transport      domain.Transport
	DialectsPath   string
	HistoryPath    string
	HistoryEnabled bool
	RequestTimeout time.Duration
	StartupTimeout time.Duration
	LogExchanges   bool
	LogPath        string
}

// Load reads settings into v. An explicit file must exist; the default
// $HOME/.inf-pilisp/config.toml is optional.
func Load(v *viper.Viper, file string) (Settings, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("resolve home directory: %w", err)
	}
	SetDefaults(v, filepath.Join(homeDir, configDir))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	return decode(v)
}

func SetDefaults(v *viper.Viper, dir string) {
	v.SetDefault(KeyDialect, "clojure")
	v.SetDefault(KeyTransport, string(domain.TransportProcess))
	v.SetDefault(KeyDialectsPath, filepath.Join(dir, "dialects.toml"))
	v.SetDefault(KeyHistoryPath, filepath.Join(dir, "history.db"))
	v.SetDefault(KeyHistoryEnabled, true)
	v.SetDefault(KeyRequestTimeout, 10*time.Second)
	v.SetDefault(KeyStartupTimeout, 30*time.Second)
	v.SetDefault(KeyLogExchanges, false)
	v.SetDefault(KeyLogPath, filepath.Join(dir, "exchanges.log"))
}

func decode(v *viper.Viper) (Settings, error) {
	settings := Settings{
		Dialect:        domain.DialectID(strings.TrimSpace(v.GetString(KeyDialect))),
		Transport:      domain.Transport(strings.TrimSpace(v.GetString(KeyTransport))),
		DialectsPath:   v.GetString(KeyDialectsPath),
		HistoryPath:    v.GetString(KeyHistoryPath),
		HistoryEnabled: v.GetBool(KeyHistoryEnabled),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		StartupTimeout: v.GetDuration(KeyStartupTimeout),
		LogExchanges:   v.GetBool(KeyLogExchanges),
		LogPath:        v.GetString(KeyLogPath),
	}

	if settings.Dialect == "" {
		return Settings{}, fmt.Errorf("%s is empty", KeyDialect)
	}
	switch settings.Transport {
	case domain.TransportProcess, domain.TransportPTY, domain.TransportSocket:
	default:
		return Settings{}, fmt.Errorf("unsupported %s %q", KeyTransport, settings.Transport)
	}
	if settings.RequestTimeout <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive, got %s", KeyRequestTimeout, settings.RequestTimeout)
	}
	if settings.StartupTimeout <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive, got %s", KeyStartupTimeout, settings.StartupTimeout)
	}

	return settings, nil
}
