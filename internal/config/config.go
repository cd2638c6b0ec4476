package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type RateLimit struct {
	Limit    int           `mapstructure:"limit"`
	Interval time.Duration `mapstructure:"interval"`
}

type Config struct {
	Mode              string        `mapstructure:"mode"`
	Port              int           `mapstructure:"port"`
	BotID             string        `mapstructure:"bot_id"`
	Path              string        `mapstructure:"path"`
	ReadLimit         int64         `mapstructure:"read_limit"`
	PingPeriod        time.Duration `mapstructure:"ping_period"`
	SendBuffer        int           `mapstructure:"send_buffer"`
	RateLimit         RateLimit     `mapstructure:"rate_limit"`
	KickSlowConsumers bool          `mapstructure:"kick_slow_consumers"`
	LogLevel          string        `mapstructure:"log_level"`
}

// EnvPrefix namespaces environment overrides, e.g. BOTSOCKET_PORT or
// BOTSOCKET_RATE_LIMIT_LIMIT.
const EnvPrefix = "BOTSOCKET"

// FileFor returns the config file used for an environment name.
func FileFor(env string) string {
	if env == "" {
		env = os.Getenv("CONFIG_ENV")
	}
	if env == "" {
		env = "dev"
	}
	return fmt.Sprintf("config/config.%s.yaml", env)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("bot_id", "botsocket")
	v.SetDefault("path", "/socket.io")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 256)
	v.SetDefault("rate_limit.limit", 0)
	v.SetDefault("rate_limit.interval", "1s")
	v.SetDefault("kick_slow_consumers", false)
	v.SetDefault("log_level", "info")
}

// Load reads fileName when it exists and falls back to defaults otherwise.
// Environment variables win over both.
func Load(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.BotID == "" {
		return nil, errors.New("bot_id must not be empty")
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("bot", cfg.BotID).Str("path", cfg.Path).Msg("config ready")
	return &cfg, nil
}
