package config

import (
	"errors"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"time"
)

type Config struct {
	Log      Log               `yaml:"log"`
	Telegram Telegram          `yaml:"telegram"`
	Quotes   Quotes            `yaml:"quotes"`
	HTTP     HTTP              `yaml:"http"`
	Aliases  map[string]string `yaml:"aliases" env:"ALIASES"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Telegram struct {
	Token string `yaml:"token" env:"BOT_TOKEN"`
	// PollTimeout long polling timeout in seconds
	PollTimeout int `yaml:"poll_timeout" env:"BOT_POLL_TIMEOUT" env-default:"60"`
}

type Quotes struct {
	URL     string        `yaml:"url" env:"QUOTES_URL" env-default:"https://api.freecurrencyapi.com/v1/latest"`
	APIKey  string        `yaml:"api_key" env:"QUOTES_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"QUOTES_TIMEOUT" env-default:"5s"`
	Retries uint64        `yaml:"retries" env:"QUOTES_RETRIES" env-default:"2"`
	Backoff time.Duration `yaml:"backoff" env:"QUOTES_BACKOFF" env-default:"500ms"`
	// Refresh cron spec for refreshing rates, empty to fetch only at startup
	Refresh string `yaml:"refresh" env:"QUOTES_REFRESH"`
}

type HTTP struct {
	// Addr listen address of the HTTP API, empty to disable it
	Addr string `yaml:"addr" env:"HTTP_ADDR" env-default:"127.0.0.1:8080"`
	// RefreshToken bearer token for POST /api/refresh, empty disables the route
	RefreshToken string `yaml:"refresh_token" env:"HTTP_REFRESH_TOKEN"`
}

// DefaultAliases used when no aliases are configured
var DefaultAliases = map[string]string{
	"dollar": "USD",
	"доллар": "USD",
	"euro":   "EUR",
	"евро":   "EUR",
	"ruble":  "RUB",
	"рубль":  "RUB",
}

// Load reads the YAML file at path, then applies environment overrides.
// An empty path reads the environment only.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if len(cfg.Aliases) == 0 {
		cfg.Aliases = DefaultAliases
	}
	return &cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Quotes.APIKey == "" {
		return errors.New("quotes api key is required")
	}
	if c.Quotes.Timeout <= 0 {
		return fmt.Errorf("quotes timeout must be positive, got %v", c.Quotes.Timeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// Usage describes the environment variables understood by Load.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}
