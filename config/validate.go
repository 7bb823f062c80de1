package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures required fields are present and bounds are coherent.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Gateway.APIKey == "" || cfg.Gateway.APISecret == "" {
		return errors.New("gateway.apiKey/apiSecret is required (or RT_API_KEY/RT_API_SECRET)")
	}
	return ValidateStrategy(cfg.Strategy)
}

// ValidateStrategy 校验策略参数；热更新时单独调用。
func ValidateStrategy(s StrategyConfig) error {
	if s.Symbol == "" {
		return errors.New("strategy.symbol is required")
	}
	if s.BaseAsset == "" || s.QuoteAsset == "" {
		return errors.New("strategy.baseAsset/quoteAsset is required")
	}
	if s.BaseAsset+s.QuoteAsset != strings.ToUpper(s.Symbol) {
		return fmt.Errorf("strategy.symbol %s must equal baseAsset+quoteAsset", s.Symbol)
	}
	if strings.Contains(s.OrderIDPrefix, "_") {
		return errors.New("strategy.orderIdPrefix must not contain '_'")
	}
	if s.TakeProfitAmount <= 0 {
		return errors.New("strategy.takeProfitAmount must be > 0")
	}
	if s.LowerBound <= 0 || s.UpperBound <= s.LowerBound {
		return errors.New("strategy bounds must satisfy 0 < lowerBound < upperBound")
	}
	if s.LowerBound >= 1 || s.UpperBound <= 1 {
		return errors.New("strategy bounds must straddle parity (lowerBound < 1 < upperBound)")
	}
	if s.RungCount <= 0 {
		return errors.New("strategy.rungCount must be > 0")
	}
	if s.RungSize <= 0 {
		return errors.New("strategy.rungSize must be > 0")
	}
	if s.PricePrecision < 0 || s.PricePrecision > 8 {
		return errors.New("strategy.pricePrecision must be within [0, 8]")
	}
	if s.PollIntervalSec <= 0 {
		return errors.New("strategy.pollIntervalSec must be > 0")
	}
	return nil
}
