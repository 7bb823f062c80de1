package config

import "testing"

func validStrategy() StrategyConfig {
	return StrategyConfig{
		Symbol:           "BUSDUSDT",
		BaseAsset:        "BUSD",
		QuoteAsset:       "USDT",
		OrderIDPrefix:    "RT1",
		LowerBound:       0.9990,
		UpperBound:       1.0010,
		TakeProfitAmount: 0.0001,
		RungCount:        2,
		RungSize:         20,
		PricePrecision:   4,
		PollIntervalSec:  10,
	}
}

func TestValidateStrategyOK(t *testing.T) {
	if err := ValidateStrategy(validStrategy()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStrategyRejects(t *testing.T) {
	cases := map[string]func(*StrategyConfig){
		"missing symbol":        func(s *StrategyConfig) { s.Symbol = "" },
		"symbol asset mismatch": func(s *StrategyConfig) { s.BaseAsset = "USDC" },
		"underscore prefix":     func(s *StrategyConfig) { s.OrderIDPrefix = "RT_1" },
		"zero offset":           func(s *StrategyConfig) { s.TakeProfitAmount = 0 },
		"inverted bounds":       func(s *StrategyConfig) { s.LowerBound, s.UpperBound = 1.0010, 0.9990 },
		"bounds above parity":   func(s *StrategyConfig) { s.LowerBound, s.UpperBound = 1.0010, 1.0020 },
		"zero rungs":            func(s *StrategyConfig) { s.RungCount = 0 },
		"zero rung size":        func(s *StrategyConfig) { s.RungSize = 0 },
		"silly precision":       func(s *StrategyConfig) { s.PricePrecision = 12 },
		"zero poll interval":    func(s *StrategyConfig) { s.PollIntervalSec = 0 },
	}
	for name, mutate := range cases {
		s := validStrategy()
		mutate(&s)
		if err := ValidateStrategy(s); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestValidateRequiresCredentials(t *testing.T) {
	cfg := AppConfig{Env: "dev", Strategy: validStrategy()}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected credentials error")
	}
	cfg.Gateway.APIKey, cfg.Gateway.APISecret = "k", "s"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
