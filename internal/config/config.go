package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ServiceName    = "till"
	ServiceVersion = "0.1.0"
	EnvPrefix      = "TILL"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverCSV      = "csv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Ledger LedgerConfig `mapstructure:"ledger"`
	Log    LogConfig    `mapstructure:"log"`
	Otel   OtelConfig   `mapstructure:"otel"`
	Shop   ShopConfig   `mapstructure:"shop"`
}

type StoreConfig struct {
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
	DataDir string `mapstructure:"data_dir"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Enabled reports whether events should be published at all
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type HTTPConfig struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LedgerConfig struct {
	RestockOnVoid bool `mapstructure:"restock_on_void"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type OtelConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type ShopConfig struct {
	Name           string `mapstructure:"name"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	GCashAccount   string `mapstructure:"gcash_account"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.data_dir", "data")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "till-transactions")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.request_timeout", 15*time.Second)
	v.SetDefault("ledger.restock_on_void", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.insecure", true)
	v.SetDefault("shop.name", "Aquarium Shop")
	v.SetDefault("shop.currency_symbol", "₱")
	v.SetDefault("shop.gcash_account", "")
}

// Load resolves the configuration from, in increasing priority, defaults, an
// optional config file, TILL_* environment variables and command-line flags.
func Load(name string, args []string) (*Config, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	configFile := fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.String("store-driver", DriverSQLite, "storage backend: sqlite, postgres or csv")
	fs.String("store-dsn", "", "database DSN (sqlite file or postgres URL)")
	fs.String("data-dir", "data", "directory for the sqlite database or the csv files")
	fs.StringSlice("kafka-brokers", nil, "kafka brokers for transaction events; empty disables publishing")
	fs.String("http-addr", ":8080", "listen address of the reporting API")
	fs.Bool("restock-on-void", false, "return goods to stock when a paid transaction is removed")
	fs.String("log-level", "info", "log level")
	fs.Bool("dev", false, "human readable logs")
	fs.String("otel-endpoint", "", "OTLP/HTTP collector host:port")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	bindings := map[string]string{
		"store.driver":           "store-driver",
		"store.dsn":              "store-dsn",
		"store.data_dir":         "data-dir",
		"kafka.brokers":          "kafka-brokers",
		"http.addr":              "http-addr",
		"ledger.restock_on_void": "restock-on-void",
		"log.level":              "log-level",
		"log.development":        "dev",
		"otel.endpoint":          "otel-endpoint",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finish validates cfg and fills values derived from other settings
func (c *Config) finish() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.DSN == "" {
			c.Store.DSN = filepath.Join(c.Store.DataDir, "till.db")
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: store.dsn is required for postgres", ErrInvalidConfig)
		}
	case DriverCSV:
		if c.Store.DataDir == "" {
			return fmt.Errorf("%w: store.data_dir is required for csv", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.driver %q", ErrInvalidConfig, c.Store.Driver)
	}

	brokers := c.Kafka.Brokers[:0]
	for _, b := range c.Kafka.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Kafka.Brokers = brokers

	if c.HTTP.RequestTimeout <= 0 {
		return fmt.Errorf("%w: http.request_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
