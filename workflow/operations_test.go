package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/makerledger/inventory_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Argument validation runs before any unit of work is opened, so these
// need no database.

func TestBuildProductRejectsNonPositiveQty(t *testing.T) {
	logger := logrus.New()
	for _, qty := range []string{"0", "-1", "-0.25"} {
		_, err := BuildProduct(context.Background(), nil, logger, 1, dec(qty), "")
		if !errors.Is(err, utils.ErrInvalidArgument) {
			t.Fatalf("buildQty=%s: expected ErrInvalidArgument, got %v", qty, err)
		}
	}
}

func TestSellProductRejectsBadArguments(t *testing.T) {
	logger := logrus.New()

	_, err := SellProduct(context.Background(), nil, logger, 1, 0, dec("18.00"), "")
	if !errors.Is(err, utils.ErrInvalidArgument) {
		t.Fatalf("quantity=0: expected ErrInvalidArgument, got %v", err)
	}

	_, err = SellProduct(context.Background(), nil, logger, 1, 2, dec("-0.01"), "")
	if !errors.Is(err, utils.ErrInvalidArgument) {
		t.Fatalf("negative price: expected ErrInvalidArgument, got %v", err)
	}
}

func TestLossRejectsNonPositiveQty(t *testing.T) {
	logger := logrus.New()

	if _, err := RecordPartLoss(context.Background(), nil, logger, 1, 0, ""); !errors.Is(err, utils.ErrInvalidArgument) {
		t.Fatalf("part loss qty=0: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := RecordProductLoss(context.Background(), nil, logger, 1, -2, ""); !errors.Is(err, utils.ErrInvalidArgument) {
		t.Fatalf("product loss qty=-2: expected ErrInvalidArgument, got %v", err)
	}
}

func TestRecordPurchaseRejectsBadInput(t *testing.T) {
	logger := logrus.New()

	_, err := RecordPurchase(context.Background(), nil, logger, &NewPurchase{PartId: 1, Quantity: 0, UnitPrice: dec("1.00")})
	if !errors.Is(err, utils.ErrInvalidArgument) {
		t.Fatalf("quantity=0: expected ErrInvalidArgument, got %v", err)
	}

	_, err = RecordPurchase(context.Background(), nil, logger, &NewPurchase{PartId: 1, Quantity: 5, UnitPrice: decimal.NewFromInt(-1)})
	if !errors.Is(err, utils.ErrInvalidArgument) {
		t.Fatalf("negative price: expected ErrInvalidArgument, got %v", err)
	}
}
