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

// BuildProduct converts recipe-specified part quantities into finished
// product inventory. One atomic unit of work: the product row is locked
// first, then every recipe part in part-id order; a failure at any step
// leaves stock, quantities and both ledgers untouched.
//
// Per-line consumption is ceil(lineQty x buildQty) and the product gains
// ceil(buildQty) units; stock is tracked in whole units and consumption is
// never under-counted (rounding-up policy).
func BuildProduct(ctx context.Context, db *gorm.DB, logger *logrus.Logger, productId int, buildQty decimal.Decimal, notes string) (int, error) {
	ctx, span := tracer.Start(ctx, "BuildProduct")
	defer span.End()

	if !buildQty.IsPositive() {
		return 0, fmt.Errorf("%w: build quantity must be positive, got %s", utils.ErrInvalidArgument, buildQty)
	}

	var txnId int
	err := RunUnitOfWork(ctx, db, logger, func(tx *gorm.DB) error {
		product, err := LockProduct(tx, productId)
		if err != nil {
			config.LogError(logger, "buildWorkflow.go", "BuildProduct", "LockProduct", productId, err)
			return err
		}

		var recipeLines []models.RecipeLine
		if err := tx.Where("product_id = ?", productId).Order("part_id").Find(&recipeLines).Error; err != nil {
			config.LogError(logger, "buildWorkflow.go", "BuildProduct", "GetRecipeLines", productId, err)
			return err
		}
		if len(recipeLines) == 0 {
			return fmt.Errorf("%w: product %d", utils.ErrNoRecipe, productId)
		}

		lockedParts, err := LockPartsForRecipe(tx, productId)
		if err != nil {
			config.LogError(logger, "buildWorkflow.go", "BuildProduct", "LockPartsForRecipe", productId, err)
			return err
		}
		partsById := make(map[int]models.Part, len(lockedParts))
		for _, part := range lockedParts {
			partsById[part.ID] = part
		}

		unitsOut := utils.CeilToInt(buildQty)
		consumption := make(map[int]int64, len(recipeLines))
		shortfalls := make([]utils.StockShortfall, 0)

		for _, line := range recipeLines {
			part, ok := partsById[line.PartId]
			if !ok {
				return fmt.Errorf("%w: part %d referenced by recipe of product %d", utils.ErrNotFound, line.PartId, productId)
			}
			if part.OrgId != product.OrgId {
				return fmt.Errorf("%w: part %d is in organization %s, product %d is in %s",
					utils.ErrOrgMismatch, part.ID, part.OrgId, product.ID, product.OrgId)
			}

			required := utils.CeilToInt(line.Quantity.Mul(buildQty))
			consumption[line.PartId] = required
			if int64(part.Stock) < required {
				shortfalls = append(shortfalls, utils.StockShortfall{
					PartId:    part.ID,
					Name:      part.Name,
					Required:  decimal.NewFromInt(required),
					Available: decimal.NewFromInt(int64(part.Stock)),
				})
			}
		}
		if len(shortfalls) > 0 {
			return &utils.InsufficientStockError{Shortfalls: shortfalls}
		}

		buildTxn := models.ProductTransaction{
			OrgId:         product.OrgId,
			ProductId:     &product.ID,
			Kind:          models.ProductTransactionKindBuild,
			Qty:           decimal.NewFromInt(unitsOut),
			CorrelationId: utils.CorrelationIdFromContextOrNew(ctx),
			Notes:         notes,
		}
		if err := models.AppendProductTransaction(tx, &buildTxn); err != nil {
			config.LogError(logger, "buildWorkflow.go", "BuildProduct", "AppendProductTransaction", buildTxn, err)
			return err
		}

		for _, line := range recipeLines {
			required := consumption[line.PartId]
			partTxn := models.PartTransaction{
				OrgId:                product.OrgId,
				PartId:               line.PartId,
				Kind:                 models.PartTransactionKindBuildConsumption,
				Qty:                  decimal.NewFromInt(-required),
				ProductTransactionId: &buildTxn.ID,
			}
			if err := models.AppendPartTransaction(tx, &partTxn); err != nil {
				config.LogError(logger, "buildWorkflow.go", "BuildProduct", "AppendPartTransaction", partTxn, err)
				return err
			}
			if err := AdjustPartStock(tx, line.PartId, int(-required)); err != nil {
				config.LogError(logger, "buildWorkflow.go", "BuildProduct", "AdjustPartStock", line.PartId, err)
				return err
			}
		}

		if err := AdjustProductQuantity(tx, productId, int(unitsOut)); err != nil {
			config.LogError(logger, "buildWorkflow.go", "BuildProduct", "AdjustProductQuantity", productId, err)
			return err
		}

		txnId = buildTxn.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return txnId, nil
}
