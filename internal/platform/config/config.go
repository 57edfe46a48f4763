// Package config loads the server configuration. Struct defaults are applied
// first, then the optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the YAML file to load. The file is optional.
const EnvConfigFile = "CONFIG_FILE"

type Config struct {
	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"120s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"text" validate:"oneof=json text"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics" validate:"startswith=/"`
	} `yaml:"metrics"`
	Binance struct {
		APIKey    string        `yaml:"api_key"`
		SecretKey string        `yaml:"secret_key"`
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout" default:"10s"`
		SyncTime  bool          `yaml:"sync_time" default:"true"`
	} `yaml:"binance"`
	LLM struct {
		Provider     string        `yaml:"provider" default:"deepseek" validate:"oneof=deepseek gemini"`
		DeepSeekKey  string        `yaml:"deepseek_key"`
		BaseURL      string        `yaml:"base_url"`
		Model        string        `yaml:"model"`
		GeminiKey    string        `yaml:"gemini_key"`
		Timeout      time.Duration `yaml:"timeout" default:"60s"`
		RateLimit    int           `yaml:"rate_limit" default:"30" validate:"min=0"`
		RateInterval time.Duration `yaml:"rate_interval" default:"1m"`
	} `yaml:"llm"`
	Analysis struct {
		Coins            []string      `yaml:"coins" default:"[\"BTC\",\"ETH\",\"SOL\"]"`
		QuoteAsset       string        `yaml:"quote_asset" default:"USDT" validate:"required"`
		Timeframes       []string      `yaml:"timeframes"`
		CandleLimit      int           `yaml:"candle_limit" default:"60" validate:"min=50,max=1500"`
		CacheTTL         time.Duration `yaml:"cache_ttl" default:"60s"`
		IndicatorTimeout time.Duration `yaml:"indicator_timeout" default:"8s"`
		AccountTimeout   time.Duration `yaml:"account_timeout" default:"3s"`
	} `yaml:"analysis"`
	Redis struct {
		Host     string        `yaml:"host"`
		Port     string        `yaml:"port" default:"6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		KlineTTL time.Duration `yaml:"kline_ttl" default:"1m"`
	} `yaml:"redis"`
	Journal struct {
		Driver string `yaml:"driver" default:"sqlite" validate:"oneof=sqlite postgres"`
		DSN    string `yaml:"dsn" default:"trade_journal.db"`
	} `yaml:"journal"`
	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl" default:"24h"`
	} `yaml:"auth"`
	AutoTrader struct {
		Coins               []string      `yaml:"coins" default:"[\"BTC\"]"`
		Interval            time.Duration `yaml:"interval" default:"5m"`
		ConfidenceThreshold float64       `yaml:"confidence_threshold" default:"0.7" validate:"gte=0,lte=1"`
		MaxRetries          int           `yaml:"max_retries" default:"3" validate:"min=1"`
		RetryDelay          time.Duration `yaml:"retry_delay" default:"5s"`
	} `yaml:"autotrader"`
}

// Load reads .env (when present), the YAML file named by CONFIG_FILE (when set),
// applies defaults and environment overrides and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFile(os.Getenv(EnvConfigFile))
}

// LoadFile is Load without the .env step. An empty path skips the YAML file.
func LoadFile(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"BINANCE_API_KEY":    &c.Binance.APIKey,
		"BINANCE_SECRET_KEY": &c.Binance.SecretKey,
		"BINANCE_BASE_URL":   &c.Binance.BaseURL,
		"DEEPSEEK_KEY":       &c.LLM.DeepSeekKey,
		"GEMINI_API_KEY":     &c.LLM.GeminiKey,
		"LLM_PROVIDER":       &c.LLM.Provider,
		"LLM_MODEL":          &c.LLM.Model,
		"REDIS_HOST":         &c.Redis.Host,
		"REDIS_PORT":         &c.Redis.Port,
		"REDIS_PASSWORD":     &c.Redis.Password,
		"JWT_SECRET":         &c.Auth.JWTSecret,
		"JOURNAL_DRIVER":     &c.Journal.Driver,
		"JOURNAL_DSN":        &c.Journal.DSN,
		"LOG_LEVEL":          &c.Log.Level,
		"LOG_FORMAT":         &c.Log.Format,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("COIN_OPTIONS"); v != "" {
		c.Analysis.Coins = splitList(strings.ToUpper(v))
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}

// MissingCredentials lists the environment variables whose absence makes the
// service unable to analyse or trade.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.LLM.Provider == "deepseek" && c.LLM.DeepSeekKey == "" {
		missing = append(missing, "DEEPSEEK_KEY")
	}
	if c.Binance.APIKey == "" {
		missing = append(missing, "BINANCE_API_KEY")
	}
	if c.Binance.SecretKey == "" {
		missing = append(missing, "BINANCE_SECRET_KEY")
	}
	return missing
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
