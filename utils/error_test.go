package utils

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

func TestMapDBErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		number uint16
		want   error
	}{
		{"lock wait timeout", 1205, ErrLockTimeout},
		{"deadlock", 1213, ErrLockTimeout},
		{"duplicate entry", 1062, ErrConstraintViolation},
		{"missing referenced row", 1452, ErrConstraintViolation},
		{"row is referenced", 1451, ErrConstraintViolation},
	}
	for _, tc := range cases {
		err := MapDBError(&mysql.MySQLError{Number: tc.number, Message: tc.name})
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v kind, got %v", tc.name, tc.want, err)
		}
	}
}

func TestMapDBErrorPassthrough(t *testing.T) {
	if got := MapDBError(nil); got != nil {
		t.Fatalf("nil should map to nil, got %v", got)
	}

	plain := errors.New("boom")
	if got := MapDBError(plain); got != plain {
		t.Fatalf("unrecognized error should pass through, got %v", got)
	}

	other := &mysql.MySQLError{Number: 1064, Message: "syntax"}
	if got := MapDBError(other); !errors.As(got, new(*mysql.MySQLError)) {
		t.Fatalf("unmapped mysql error should pass through, got %v", got)
	}
}

func TestMapDBErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("update part: %w", &mysql.MySQLError{Number: 1062})
	if !errors.Is(MapDBError(wrapped), ErrConstraintViolation) {
		t.Fatal("wrapped mysql error should still map to a kind")
	}
}

func TestInsufficientStockErrorDetail(t *testing.T) {
	err := &InsufficientStockError{Shortfalls: []StockShortfall{
		{PartId: 7, Name: "resin", Required: decimal.NewFromInt(50), Available: decimal.NewFromInt(3)},
		{PartId: 9, Required: decimal.NewFromInt(10), Available: decimal.NewFromInt(4)},
	}}

	msg := err.Error()
	for _, want := range []string{"resin", "need 50", "have 3", "part 9"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}

	if got := err.Shortfalls[0].Shortfall(); !got.Equal(decimal.NewFromInt(47)) {
		t.Fatalf("expected shortfall 47, got %s", got)
	}

	var ise *InsufficientStockError
	wrapped := fmt.Errorf("build: %w", err)
	if !errors.As(wrapped, &ise) {
		t.Fatal("errors.As should find InsufficientStockError through wrapping")
	}
	if !IsInsufficientStock(wrapped) {
		t.Fatal("IsInsufficientStock should see through wrapping")
	}
}
