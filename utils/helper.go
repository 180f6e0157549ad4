package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func DereferencePtr[T any](ptr *T) T {
	var zero T
	if ptr == nil {
		return zero
	}
	return *ptr
}

// RoundMoney rounds to the 2-decimal precision used for prices and costs.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundQty rounds to the 4-decimal precision used for quantities.
func RoundQty(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

// CeilToInt rounds a fractional quantity up to the next whole unit.
// Stock is tracked as an integer; consumption is never under-counted.
func CeilToInt(d decimal.Decimal) int64 {
	return d.Ceil().IntPart()
}

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

func MergeIntSlices(a []int, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	merged := make([]int, 0, len(a)+len(b))
	for _, v := range a {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}
	return merged
}
