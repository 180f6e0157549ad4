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

// RecordPartLoss writes off part stock (breakage, shrinkage, a reversal of
// a committed build). Committed ledger rows are never mutated; corrections
// are always a new compensating entry like this one.
func RecordPartLoss(ctx context.Context, db *gorm.DB, logger *logrus.Logger, partId int, quantity int, notes string) (int, error) {
	ctx, span := tracer.Start(ctx, "RecordPartLoss")
	defer span.End()

	if quantity <= 0 {
		return 0, fmt.Errorf("%w: loss quantity must be positive, got %d", utils.ErrInvalidArgument, quantity)
	}

	var txnId int
	err := RunUnitOfWork(ctx, db, logger, func(tx *gorm.DB) error {
		part, err := LockPart(tx, partId)
		if err != nil {
			config.LogError(logger, "lossWorkflow.go", "RecordPartLoss", "LockPart", partId, err)
			return err
		}
		if part.Stock < quantity {
			return &utils.InsufficientStockError{Shortfalls: []utils.StockShortfall{{
				PartId:    part.ID,
				Name:      part.Name,
				Required:  decimal.NewFromInt(int64(quantity)),
				Available: decimal.NewFromInt(int64(part.Stock)),
			}}}
		}

		lossTxn := models.PartTransaction{
			OrgId:  part.OrgId,
			PartId: part.ID,
			Kind:   models.PartTransactionKindLoss,
			Qty:    decimal.NewFromInt(-int64(quantity)),
			Notes:  notes,
		}
		if err := models.AppendPartTransaction(tx, &lossTxn); err != nil {
			config.LogError(logger, "lossWorkflow.go", "RecordPartLoss", "AppendPartTransaction", lossTxn, err)
			return err
		}
		if err := AdjustPartStock(tx, partId, -quantity); err != nil {
			config.LogError(logger, "lossWorkflow.go", "RecordPartLoss", "AdjustPartStock", partId, err)
			return err
		}

		txnId = lossTxn.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return txnId, nil
}

// RecordProductLoss writes off finished-product inventory.
func RecordProductLoss(ctx context.Context, db *gorm.DB, logger *logrus.Logger, productId int, quantity int, notes string) (int, error) {
	ctx, span := tracer.Start(ctx, "RecordProductLoss")
	defer span.End()

	if quantity <= 0 {
		return 0, fmt.Errorf("%w: loss quantity must be positive, got %d", utils.ErrInvalidArgument, quantity)
	}

	var txnId int
	err := RunUnitOfWork(ctx, db, logger, func(tx *gorm.DB) error {
		product, err := LockProduct(tx, productId)
		if err != nil {
			config.LogError(logger, "lossWorkflow.go", "RecordProductLoss", "LockProduct", productId, err)
			return err
		}
		if product.Quantity < quantity {
			return &utils.InsufficientStockError{Shortfalls: []utils.StockShortfall{{
				Name:      product.Name,
				Required:  decimal.NewFromInt(int64(quantity)),
				Available: decimal.NewFromInt(int64(product.Quantity)),
			}}}
		}

		lossTxn := models.ProductTransaction{
			OrgId:         product.OrgId,
			ProductId:     &product.ID,
			Kind:          models.ProductTransactionKindLoss,
			Qty:           decimal.NewFromInt(int64(quantity)),
			CorrelationId: utils.CorrelationIdFromContextOrNew(ctx),
			Notes:         notes,
		}
		if err := models.AppendProductTransaction(tx, &lossTxn); err != nil {
			config.LogError(logger, "lossWorkflow.go", "RecordProductLoss", "AppendProductTransaction", lossTxn, err)
			return err
		}
		if err := AdjustProductQuantity(tx, productId, -quantity); err != nil {
			config.LogError(logger, "lossWorkflow.go", "RecordProductLoss", "AdjustProductQuantity", productId, err)
			return err
		}

		txnId = lossTxn.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return txnId, nil
}
