package order

import (
	"errors"
	"testing"
)

func TestParseSide(t *testing.T) {
	s, err := ParseSide("BUY")
	if err != nil || s != SideBuy {
		t.Fatalf("ParseSide(BUY) = %v, %v", s, err)
	}
	if _, err := ParseSide("buy"); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue for lowercase side, got %v", err)
	}
	if _, err := ParseSide("HOLD"); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
}

func TestSideOpposite(t *testing.T) {
	if SideBuy.Opposite() != SideSell || SideSell.Opposite() != SideBuy {
		t.Fatalf("Opposite mapping broken")
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"NEW", "FILLED", "PARTIALLY_FILLED", "CANCELED", "EXPIRED", "PENDING_CANCEL", "REJECTED"} {
		if _, err := ParseStatus(raw); err != nil {
			t.Fatalf("ParseStatus(%s) unexpected error: %v", raw, err)
		}
	}
	if _, err := ParseStatus("SETTLED"); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
}

func TestParseTypeAndTIF(t *testing.T) {
	if _, err := ParseType("LIMIT_MAKER"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseType("TRAILING_STOP"); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
	if _, err := ParseTimeInForce("GTC"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseTimeInForce("GTX"); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
}

func TestEffectiveID(t *testing.T) {
	o := Order{ClientOrderID: "a", NewClientOrderID: "b"}
	if o.EffectiveID() != "a" {
		t.Fatalf("clientOrderId should win")
	}
	o.ClientOrderID = ""
	if o.EffectiveID() != "b" {
		t.Fatalf("should fall back to newClientOrderId")
	}
}

func TestIntentNotional(t *testing.T) {
	i := Intent{Price: 0.9995, Quantity: 20}
	if got := i.Notional(); got != 0.9995*20 {
		t.Fatalf("Notional = %v", got)
	}
}
