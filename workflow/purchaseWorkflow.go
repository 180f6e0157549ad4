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

type NewPurchase struct {
	PartId    int             `json:"part_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes"`
}

// RecordPurchase posts a purchase of part stock: appends the purchase layer
// to the part ledger, increments stock, and folds the price into the part's
// stored average cost (weighted over existing stock). Since FIFO valuation
// depends on purchase history, the purchase recompute hook runs after
// commit for every product whose recipe references the part.
func RecordPurchase(ctx context.Context, db *gorm.DB, logger *logrus.Logger, input *NewPurchase) (int, error) {
	ctx, span := tracer.Start(ctx, "RecordPurchase")
	defer span.End()

	if err := utils.ValidateStruct(input); err != nil {
		return 0, err
	}
	if input.UnitPrice.IsNegative() {
		return 0, fmt.Errorf("%w: unit price must not be negative, got %s", utils.ErrInvalidArgument, input.UnitPrice)
	}

	var txnId int
	err := RunUnitOfWork(ctx, db, logger, func(tx *gorm.DB) error {
		part, err := LockPart(tx, input.PartId)
		if err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "RecordPurchase", "LockPart", input.PartId, err)
			return err
		}

		price := utils.RoundMoney(input.UnitPrice)
		purchaseTxn := models.PartTransaction{
			OrgId:     part.OrgId,
			PartId:    part.ID,
			Kind:      models.PartTransactionKindPurchase,
			Qty:       decimal.NewFromInt(int64(input.Quantity)),
			UnitPrice: price,
			Notes:     input.Notes,
		}
		if err := models.AppendPartTransaction(tx, &purchaseTxn); err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "RecordPurchase", "AppendPartTransaction", purchaseTxn, err)
			return err
		}

		oldStock := decimal.NewFromInt(int64(part.Stock))
		addedQty := decimal.NewFromInt(int64(input.Quantity))
		newStock := oldStock.Add(addedQty)
		newAverage := part.UnitCost
		if newStock.IsPositive() {
			newAverage = utils.RoundMoney(
				oldStock.Mul(part.UnitCost).Add(addedQty.Mul(price)).Div(newStock),
			)
		}

		updates := map[string]interface{}{
			"stock":     gorm.Expr("stock + ?", input.Quantity),
			"unit_cost": newAverage,
		}
		if err := tx.Model(&models.Part{}).Where("id = ?", part.ID).Updates(updates).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "RecordPurchase", "UpdatePart", part.ID, err)
			return utils.MapDBError(err)
		}

		txnId = purchaseTxn.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	AfterPurchaseChange(ctx, db, logger, input.PartId)
	return txnId, nil
}

// UpdatePartCost is the direct average-cost edit (e.g. fixing migrated
// data). The part-cost recompute hook runs after the write commits.
func UpdatePartCost(ctx context.Context, db *gorm.DB, logger *logrus.Logger, partId int, unitCost decimal.Decimal) error {
	ctx, span := tracer.Start(ctx, "UpdatePartCost")
	defer span.End()

	if unitCost.IsNegative() {
		return fmt.Errorf("%w: unit cost must not be negative, got %s", utils.ErrInvalidArgument, unitCost)
	}

	err := RunUnitOfWork(ctx, db, logger, func(tx *gorm.DB) error {
		part, err := LockPart(tx, partId)
		if err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "UpdatePartCost", "LockPart", partId, err)
			return err
		}
		if err := tx.Model(&models.Part{}).Where("id = ?", part.ID).
			Update("unit_cost", utils.RoundMoney(unitCost)).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "UpdatePartCost", "UpdatePart", partId, err)
			return utils.MapDBError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	AfterPartCostChange(ctx, db, logger, partId)
	return nil
}
