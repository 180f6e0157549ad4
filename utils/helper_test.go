package utils

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCeilToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"2", 2},
		{"2.0001", 3},
		{"0.5", 1},
		{"49.9999", 50},
		{"0", 0},
	}
	for _, tc := range cases {
		d, _ := decimal.NewFromString(tc.in)
		if got := CeilToInt(d); got != tc.want {
			t.Fatalf("CeilToInt(%s): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestRoundPrecisions(t *testing.T) {
	d, _ := decimal.NewFromString("1.23456")
	if got := RoundMoney(d); got.String() != "1.23" {
		t.Fatalf("RoundMoney: expected 1.23, got %s", got)
	}
	if got := RoundQty(d); got.String() != "1.2346" {
		t.Fatalf("RoundQty: expected 1.2346, got %s", got)
	}
}

func TestMergeIntSlices(t *testing.T) {
	got := MergeIntSlices([]int{3, 1, 3}, []int{1, 2})
	if !reflect.DeepEqual(got, []int{3, 1, 2}) {
		t.Fatalf("expected [3 1 2], got %v", got)
	}
}
