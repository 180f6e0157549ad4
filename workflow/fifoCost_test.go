package workflow

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBlendedUnitCostNewestFirstBlend(t *testing.T) {
	// Two purchases: 5 @ 1.00 (older), 5 @ 2.00 (newer). Valuing 8 units
	// takes the newer layer first: (5*2.00 + 3*1.00) / 8 = 1.625.
	layers := []CostLayer{
		{Qty: dec("5"), UnitPrice: dec("2.00")},
		{Qty: dec("5"), UnitPrice: dec("1.00")},
	}
	got := BlendedUnitCost(layers, dec("8"), dec("0.75"))
	if !got.Equal(dec("1.625")) {
		t.Fatalf("expected 1.625, got %s", got)
	}
}

func TestBlendedUnitCostAverageFallbackForUnmetRemainder(t *testing.T) {
	// History covers only 5 of 8 units; the remaining 3 are valued at the
	// stored average: (5*2.00 + 3*0.80) / 8 = 1.55.
	layers := []CostLayer{
		{Qty: dec("5"), UnitPrice: dec("2.00")},
	}
	got := BlendedUnitCost(layers, dec("8"), dec("0.80"))
	if !got.Equal(dec("1.55")) {
		t.Fatalf("expected 1.55, got %s", got)
	}
}

func TestBlendedUnitCostNoHistory(t *testing.T) {
	got := BlendedUnitCost(nil, dec("4"), dec("3.25"))
	if !got.Equal(dec("3.25")) {
		t.Fatalf("expected stored average 3.25, got %s", got)
	}
}

func TestBlendedUnitCostZeroEverything(t *testing.T) {
	// No purchases and a zero fallback: the stored average (zero) comes
	// back directly rather than dividing by zero.
	got := BlendedUnitCost(nil, dec("4"), decimal.Zero)
	if !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestBlendedUnitCostNonPositiveRequired(t *testing.T) {
	layers := []CostLayer{{Qty: dec("5"), UnitPrice: dec("2.00")}}
	if got := BlendedUnitCost(layers, decimal.Zero, dec("1.00")); !got.IsZero() {
		t.Fatalf("required 0: expected 0, got %s", got)
	}
	if got := BlendedUnitCost(layers, dec("-3"), dec("1.00")); !got.IsZero() {
		t.Fatalf("required -3: expected 0, got %s", got)
	}
}

func TestBlendedUnitCostSkipsEmptyLayers(t *testing.T) {
	layers := []CostLayer{
		{Qty: decimal.Zero, UnitPrice: dec("9.99")},
		{Qty: dec("10"), UnitPrice: dec("1.50")},
	}
	got := BlendedUnitCost(layers, dec("4"), dec("0.10"))
	if !got.Equal(dec("1.50")) {
		t.Fatalf("expected 1.50, got %s", got)
	}
}

func TestBlendedUnitCostRoundsToQuantityPrecision(t *testing.T) {
	// (2*1.00 + 1*1.01) / 3 = 1.00333... rounds to 1.0033.
	layers := []CostLayer{
		{Qty: dec("1"), UnitPrice: dec("1.01")},
		{Qty: dec("2"), UnitPrice: dec("1.00")},
	}
	got := BlendedUnitCost(layers, dec("3"), decimal.Zero)
	if !got.Equal(dec("1.0033")) {
		t.Fatalf("expected 1.0033, got %s", got)
	}
}

func TestBlendedUnitCostDeterministic(t *testing.T) {
	layers := []CostLayer{
		{Qty: dec("2.5"), UnitPrice: dec("4.10")},
		{Qty: dec("7.25"), UnitPrice: dec("3.99")},
		{Qty: dec("1"), UnitPrice: dec("12.00")},
	}
	first := BlendedUnitCost(layers, dec("9.5"), dec("5.00"))
	for run := 0; run < 100; run++ {
		got := BlendedUnitCost(layers, dec("9.5"), dec("5.00"))
		if !got.Equal(first) {
			t.Fatalf("run=%d expected %s, got %s", run, first, got)
		}
	}
}
