// Package config loads the checker configuration from config.yaml with
// environment overrides. The loaded value is immutable and passed into
// component constructors; nothing reads ambient state after startup.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// QueryFeed names one oracle price feed whose current tip the checker
// reports.
type QueryFeed struct {
	Name      string `yaml:"name"`
	QueryData string `yaml:"query_data"`
}

// Config holds every knob of a checker run.
type Config struct {
	RPCEndpoint  string `yaml:"rpc_endpoint"`
	RESTEndpoint string `yaml:"rest_endpoint"`

	// BlockWindow is how many recent blocks the sampler walks for block
	// times; MintWindow and FeeWindow default to it when zero.
	BlockWindow int `yaml:"block_window"`
	MintWindow  int `yaml:"mint_window"`
	FeeWindow   int `yaml:"fee_window"`

	Workers int `yaml:"workers"`

	// MinGasPrice overrides the globalfee query when positive (loya per gas).
	MinGasPrice float64 `yaml:"min_gas_price"`

	// AccountAddress enables the available-tips query when set.
	AccountAddress string `yaml:"account_address"`

	QueryFeeds []QueryFeed `yaml:"query_feeds"`

	// CSVDir is where run artifacts are written; empty disables CSV export.
	CSVDir string `yaml:"csv_dir"`

	// KafkaBroker/KafkaTopic enable snapshot publishing when both are set.
	KafkaBroker string `yaml:"kafka_broker"`
	KafkaTopic  string `yaml:"kafka_topic"`
}

// Load reads the YAML config at path, then applies .env / environment
// overrides and defaults. A missing config file is not fatal; a malformed
// one is.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Printf("WARN: config file %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Println("WARN: .env not found")
	}

	if v := os.Getenv("RPC_ENDPOINT"); v != "" {
		cfg.RPCEndpoint = v
	}
	if v := os.Getenv("REST_ENDPOINT"); v != "" {
		cfg.RESTEndpoint = v
	}
	if v := os.Getenv("ACCOUNT_ADDRESS"); v != "" {
		cfg.AccountAddress = v
	}
	if v := os.Getenv("KAFKA_BROKER"); v != "" {
		cfg.KafkaBroker = v
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = v
	}
	if v := os.Getenv("BLOCK_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BlockWindow = n
		}
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("MIN_GAS_PRICE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.MinGasPrice = f
		}
	}

	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.BlockWindow <= 0 {
		c.BlockWindow = 20
	}
	if c.MintWindow <= 0 {
		c.MintWindow = c.BlockWindow
	}
	if c.FeeWindow <= 0 {
		c.FeeWindow = c.BlockWindow
	}
	if c.Workers <= 0 {
		c.Workers = 5
	}
}

func (c *Config) validate() error {
	if c.RPCEndpoint == "" {
		return fmt.Errorf("rpc_endpoint must be set (config or RPC_ENDPOINT)")
	}
	if c.RESTEndpoint == "" {
		return fmt.Errorf("rest_endpoint must be set (config or REST_ENDPOINT)")
	}
	return nil
}
