package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Binance  BinanceConfig  `mapstructure:"binance"`
	Decoder  DecoderConfig  `mapstructure:"decoder"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type BinanceConfig struct {
	REST     RESTConfig     `mapstructure:"rest"`
	WS       WSConfig       `mapstructure:"ws"`
	Streams  []StreamConfig `mapstructure:"streams"`
	Backfill BackfillConfig `mapstructure:"backfill"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WSConfig struct {
	URL              string        `mapstructure:"url"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	PingInterval     time.Duration `mapstructure:"ping_interval"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	MinBackoff       time.Duration `mapstructure:"min_backoff"`
	MaxBackoff       time.Duration `mapstructure:"max_backoff"`
	StoreTimeout     time.Duration `mapstructure:"store_timeout"`
}

// StreamConfig is one subscription. Symbol is left empty for the
// all-markets mini ticker; quote expands to every pair quoted in that asset.
type StreamConfig struct {
	Kind     string `mapstructure:"kind"`     // trade, aggTrade, depth, partialDepth, kline, ticker, miniTicker, allMiniTickers
	Symbol   string `mapstructure:"symbol"`   // exchange name, e.g. "BNBBTC"
	Quote    string `mapstructure:"quote"`    // alternative to symbol, e.g. "USDT"
	Interval string `mapstructure:"interval"` // kline only, e.g. "1m"
	Levels   int    `mapstructure:"levels"`   // partialDepth only: 5, 10 or 20
}

type BackfillConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Lookback    time.Duration `mapstructure:"lookback"`
	Concurrency int           `mapstructure:"concurrency"`
	DepthLimit  int           `mapstructure:"depth_limit"`
}

// DecoderConfig sets the timestamp policy. LaunchEpoch is RFC3339.
type DecoderConfig struct {
	UnitThreshold int64  `mapstructure:"unit_threshold"`
	LaunchEpoch   string `mapstructure:"launch_epoch"`
}

// Options defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"` // postgres, sqlite or memory
	SQLitePath string `mapstructure:"sqlite_path"`
	CreateDB   bool   `mapstructure:"create_db"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	Prefix    string `mapstructure:"prefix"`
	StreamLen int64  `mapstructure:"stream_len"`
}

// Load loads application configuration using Viper.
// It reads from config.yaml and overrides with environment variables.
func Load() *Config {
	ex, _ := os.Executable()
	dir := filepath.Join(filepath.Dir(ex), "../config")
	if strings.Contains(ex, "go-build") {
		pwd, _ := os.Getwd()
		dir = filepath.Join(pwd, "../../config")
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// LoadFrom reads config.yaml from dir, applies environment overrides and
// defaults, and validates the result.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)

	// Support environment variables with dot notation (e.g., BINANCE_WS_URL)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("binance.rest.base_url", "https://api.binance.com")
	v.SetDefault("binance.rest.timeout", 10*time.Second)
	v.SetDefault("binance.ws.url", "wss://stream.binance.com:9443/ws")
	v.SetDefault("binance.ws.handshake_timeout", 10*time.Second)
	v.SetDefault("binance.ws.ping_interval", 25*time.Second)
	v.SetDefault("binance.ws.read_timeout", 60*time.Second)
	v.SetDefault("binance.ws.min_backoff", 500*time.Millisecond)
	v.SetDefault("binance.ws.max_backoff", 30*time.Second)
	v.SetDefault("binance.ws.store_timeout", 2*time.Second)
	v.SetDefault("binance.backfill.lookback", 4*time.Hour)
	v.SetDefault("binance.backfill.concurrency", 5)
	v.SetDefault("binance.backfill.depth_limit", 20)
	v.SetDefault("decoder.unit_threshold", int64(1_000_000_000_000))
	v.SetDefault("decoder.launch_epoch", "2017-07-14T00:00:00Z")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.dbname", "bncollector")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("redis.prefix", "bncollector")
	v.SetDefault("redis.stream_len", int64(10000))
}
