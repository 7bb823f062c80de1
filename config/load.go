package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"range-trader-go/infrastructure/logger"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env      string         `yaml:"env"`
	Log      logger.Config  `yaml:"log"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Strategy StrategyConfig `yaml:"strategy"`
}

type GatewayConfig struct {
	APIKey       string  `yaml:"apiKey"`
	APISecret    string  `yaml:"apiSecret"`
	BaseURL      string  `yaml:"baseURL"`
	WSEndpoint   string  `yaml:"wsEndpoint"`
	RestRate     float64 `yaml:"restRate"`     // REST 限流：每秒令牌数
	RestBurst    int     `yaml:"restBurst"`    // REST 限流：最大突发令牌数
	RecvWindowMs int64   `yaml:"recvWindowMs"` // 签名请求的 recvWindow
}

// StrategyConfig 区间策略的全部可调参数。
// OrderIDPrefix 必须跨重启保持稳定，否则旧开仓单的止盈关联会丢失。
type StrategyConfig struct {
	Symbol           string  `yaml:"symbol"`
	BaseAsset        string  `yaml:"baseAsset"`
	QuoteAsset       string  `yaml:"quoteAsset"`
	OrderIDPrefix    string  `yaml:"orderIdPrefix"`
	LowerBound       float64 `yaml:"lowerBound"`
	UpperBound       float64 `yaml:"upperBound"`
	TakeProfitAmount float64 `yaml:"takeProfitAmount"` // 绝对价差，兼作档距
	RungCount        int     `yaml:"rungCount"`
	RungSize         float64 `yaml:"rungSize"`
	PricePrecision   int     `yaml:"pricePrecision"`
	PollIntervalSec  int     `yaml:"pollIntervalSec"`
	UseWSPrice       bool    `yaml:"useWSPrice"`
}

// Load reads YAML config from path and applies defaults.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// LoadWithEnvOverrides loads .env (if present) and the YAML config, then
// overrides sensitive fields from env vars. Credentials never belong in YAML
// committed to a repo; the .env flow mirrors how the bot is deployed.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	_ = godotenv.Load() // .env 缺失不是错误
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("RT_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("RT_API_SECRET"); v != "" {
		cfg.Gateway.APISecret = v
	}
	return cfg, Validate(cfg)
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Log.Level == "" {
		cfg.Log = logger.DefaultConfig()
	}
	if cfg.Gateway.BaseURL == "" {
		cfg.Gateway.BaseURL = "https://api.binance.com"
	}
	if cfg.Gateway.WSEndpoint == "" {
		cfg.Gateway.WSEndpoint = "wss://stream.binance.com:9443"
	}
	if cfg.Gateway.RestRate == 0 {
		cfg.Gateway.RestRate = 5
	}
	if cfg.Gateway.RestBurst == 0 {
		cfg.Gateway.RestBurst = 10
	}
	if cfg.Gateway.RecvWindowMs == 0 {
		cfg.Gateway.RecvWindowMs = 5000
	}
	s := &cfg.Strategy
	if s.OrderIDPrefix == "" {
		s.OrderIDPrefix = "RT1"
	}
	if s.PricePrecision == 0 {
		s.PricePrecision = 4
	}
	if s.PollIntervalSec == 0 {
		s.PollIntervalSec = 10
	}
	if s.RungCount == 0 {
		s.RungCount = 2
	}
}
