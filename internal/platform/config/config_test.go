package config_test

import (
	indicatorsusecase "crypto_backend/internal/feature/indicators/usecase"
	"crypto_backend/internal/platform/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv は上書き対象の環境変数を空にします。空の値は無視されます。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BINANCE_API_KEY", "BINANCE_SECRET_KEY", "BINANCE_BASE_URL", "DEEPSEEK_KEY", "GEMINI_API_KEY",
		"LLM_PROVIDER", "LLM_MODEL", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "JWT_SECRET",
		"JOURNAL_DRIVER", "JOURNAL_DSN", "LOG_LEVEL", "LOG_FORMAT", "COIN_OPTIONS", "CORS_ORIGINS", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestLoadFile_Defaults は設定ファイルも環境変数もない場合の既定値を検証します。
func TestLoadFile_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := config.LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 120*time.Second, c.Server.WriteTimeout)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, "deepseek", c.LLM.Provider)
	assert.Equal(t, []string{"BTC", "ETH", "SOL"}, c.Analysis.Coins)
	assert.Equal(t, "USDT", c.Analysis.QuoteAsset)
	// 指標の値がウォームアップ区間の長さに依存するため、取得本数は指標側の既定値と一致させる
	assert.Equal(t, 60, c.Analysis.CandleLimit)
	assert.Equal(t, indicatorsusecase.DefaultCandleLimit, c.Analysis.CandleLimit)
	assert.Equal(t, 60*time.Second, c.Analysis.CacheTTL)
	assert.Equal(t, 8*time.Second, c.Analysis.IndicatorTimeout)
	assert.Equal(t, 3*time.Second, c.Analysis.AccountTimeout)
	assert.Equal(t, "sqlite", c.Journal.Driver)
	assert.True(t, c.Binance.SyncTime)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, "/metrics", c.Metrics.Path)
	assert.Equal(t, 0.7, c.AutoTrader.ConfidenceThreshold)
	assert.Empty(t, c.RedisAddr())
}

// TestLoadFile_YAML はYAMLの値が既定値を上書きし、falseの真偽値も保持されることを検証します。
func TestLoadFile_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  port: 9000
  cors_origins: ["http://localhost:3000"]
binance:
  sync_time: false
analysis:
  coins: [BTC]
  cache_ttl: 2m
redis:
  host: cache.internal
journal:
  driver: postgres
  dsn: host=db user=trader dbname=journal
`)

	c, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, c.Server.CORSOrigins)
	assert.False(t, c.Binance.SyncTime)
	assert.Equal(t, []string{"BTC"}, c.Analysis.Coins)
	assert.Equal(t, 2*time.Minute, c.Analysis.CacheTTL)
	assert.Equal(t, "cache.internal:6379", c.RedisAddr())
	assert.Equal(t, "postgres", c.Journal.Driver)
	assert.Equal(t, 15*time.Second, c.Server.ReadTimeout, "unset keys keep their defaults")
}

// TestLoadFile_EnvOverrides は環境変数がYAMLより優先されることを検証します。
func TestLoadFile_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "server:\n  port: 9000\nllm:\n  provider: gemini\n")
	t.Setenv("PORT", "9090")
	t.Setenv("COIN_OPTIONS", "btc, eth ,")
	t.Setenv("LLM_PROVIDER", "deepseek")
	t.Setenv("DEEPSEEK_KEY", "sk-test")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	c, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, []string{"BTC", "ETH"}, c.Analysis.Coins)
	assert.Equal(t, "deepseek", c.LLM.Provider)
	assert.Equal(t, "sk-test", c.LLM.DeepSeekKey)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, c.Server.CORSOrigins)
}

// TestLoadFile_Errors は不正な設定でエラーになることを検証します。
func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		env    map[string]string
		noFile bool
	}{
		{name: "unknown provider", env: map[string]string{"LLM_PROVIDER": "openai"}},
		{name: "bad port", env: map[string]string{"PORT": "eighty"}},
		{name: "port out of range", yaml: "server:\n  port: 70000\n"},
		{name: "bad journal driver", env: map[string]string{"JOURNAL_DRIVER": "mysql"}},
		{name: "malformed yaml", yaml: "server: [\n"},
		{name: "missing file", noFile: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			switch {
			case tt.noFile:
				path = filepath.Join(t.TempDir(), "absent.yaml")
			case tt.yaml != "":
				path = writeFile(t, tt.yaml)
			}

			_, err := config.LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_MissingCredentials(t *testing.T) {
	clearEnv(t)
	c, err := config.LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, []string{"DEEPSEEK_KEY", "BINANCE_API_KEY", "BINANCE_SECRET_KEY"}, c.MissingCredentials())

	c.LLM.DeepSeekKey = "sk"
	c.Binance.APIKey = "k"
	c.Binance.SecretKey = "s"
	assert.Empty(t, c.MissingCredentials())

	c.LLM.Provider = "gemini"
	c.LLM.DeepSeekKey = ""
	assert.Empty(t, c.MissingCredentials())
}
