package workflow

import (
	"context"
	"fmt"

	"github.com/makerledger/inventory_backend/config"
	"github.com/makerledger/inventory_backend/models"
	"github.com/makerledger/inventory_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SellProduct consumes finished-product inventory and records revenue.
// Touches no part-level state; independent of recipe correctness.
func SellProduct(ctx context.Context, db *gorm.DB, logger *logrus.Logger, productId int, quantity int, unitPrice decimal.Decimal, notes string) (int, error) {
	ctx, span := tracer.Start(ctx, "SellProduct")
	defer span.End()

	if quantity <= 0 {
		return 0, fmt.Errorf("%w: sale quantity must be positive, got %d", utils.ErrInvalidArgument, quantity)
	}
	if unitPrice.IsNegative() {
		return 0, fmt.Errorf("%w: unit price must not be negative, got %s", utils.ErrInvalidArgument, unitPrice)
	}

	var txnId int
	err := RunUnitOfWork(ctx, db, logger, func(tx *gorm.DB) error {
		product, err := LockProduct(tx, productId)
		if err != nil {
			config.LogError(logger, "saleWorkflow.go", "SellProduct", "LockProduct", productId, err)
			return err
		}

		if product.Quantity < quantity {
			return &utils.InsufficientStockError{Shortfalls: []utils.StockShortfall{{
				Name:      product.Name,
				Required:  decimal.NewFromInt(int64(quantity)),
				Available: decimal.NewFromInt(int64(product.Quantity)),
			}}}
		}

		price := utils.RoundMoney(unitPrice)
		saleTxn := models.ProductTransaction{
			OrgId:         product.OrgId,
			ProductId:     &product.ID,
			Kind:          models.ProductTransactionKindSale,
			Qty:           decimal.NewFromInt(int64(quantity)),
			UnitPrice:     price,
			TotalRevenue:  utils.RoundMoney(price.Mul(decimal.NewFromInt(int64(quantity)))),
			CorrelationId: utils.CorrelationIdFromContextOrNew(ctx),
			Notes:         notes,
		}
		if err := models.AppendProductTransaction(tx, &saleTxn); err != nil {
			config.LogError(logger, "saleWorkflow.go", "SellProduct", "AppendProductTransaction", saleTxn, err)
			return err
		}

		if err := AdjustProductQuantity(tx, productId, -quantity); err != nil {
			config.LogError(logger, "saleWorkflow.go", "SellProduct", "AdjustProductQuantity", productId, err)
			return err
		}

		txnId = saleTxn.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return txnId, nil
}
