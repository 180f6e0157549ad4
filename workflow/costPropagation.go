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

// The cost propagator keeps products.total_cost equal to
//
//	sum over recipe lines of lineQty x BlendedUnitCost(part, lineQty)
//
// There is no database-level cascade: every write path that can invalidate
// a cached cost (recipe edit, purchase post, direct average-cost edit)
// calls its After* hook below once its own transaction has committed. Hook
// failures are logged and swallowed; a stale cached cost is preferable to
// failing the ledger write, and the reconciliation sweep repairs stragglers.

// computeProductCost derives the current recipe cost without writing it.
func computeProductCost(ctx context.Context, tx *gorm.DB, productId int) (decimal.Decimal, error) {
	var lines []models.RecipeLine
	if err := tx.Where("product_id = ?", productId).Order("part_id").Find(&lines).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, line := range lines {
		var part models.Part
		if err := tx.Where("id = ?", line.PartId).First(&part).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return decimal.Zero, fmt.Errorf("%w: part %d referenced by recipe of product %d", utils.ErrNotFound, line.PartId, productId)
			}
			return decimal.Zero, err
		}
		layers, err := loadCostLayers(tx, line.PartId)
		if err != nil {
			return decimal.Zero, err
		}
		unitCost := BlendedUnitCost(layers, line.Quantity, part.UnitCost)
		total = total.Add(line.Quantity.Mul(unitCost))
	}
	return utils.RoundMoney(total), nil
}

// RecomputeProductCost recomputes and writes one product's cached total
// cost. Idempotent; calling it redundantly writes the same value.
func RecomputeProductCost(ctx context.Context, db *gorm.DB, logger *logrus.Logger, productId int) error {
	ctx, span := tracer.Start(ctx, "RecomputeProductCost")
	defer span.End()

	tx := db.WithContext(ctx)
	cost, err := computeProductCost(ctx, tx, productId)
	if err != nil {
		config.LogError(logger, "costPropagation.go", "RecomputeProductCost", "ComputeProductCost", productId, err)
		return err
	}

	result := tx.Model(&models.Product{}).Where("id = ?", productId).Update("total_cost", cost)
	if result.Error != nil {
		config.LogError(logger, "costPropagation.go", "RecomputeProductCost", "UpdateTotalCost", productId, result.Error)
		return utils.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", utils.ErrNotFound, productId)
	}
	return nil
}

// affectedProductIds resolves, by join rather than a scan over all
// products, the products whose recipes reference a part.
func affectedProductIds(tx *gorm.DB, partId int) ([]int, error) {
	var productIds []int
	err := tx.Model(&models.RecipeLine{}).
		Distinct("product_id").
		Where("part_id = ?", partId).
		Order("product_id").
		Pluck("product_id", &productIds).Error
	if err != nil {
		return nil, err
	}
	return productIds, nil
}

// AfterRecipeChange recomputes the one product whose recipe line was
// inserted, updated or deleted.
func AfterRecipeChange(ctx context.Context, db *gorm.DB, logger *logrus.Logger, productId int) {
	if err := RecomputeProductCost(ctx, db, logger, productId); err != nil {
		config.LogError(logger, "costPropagation.go", "AfterRecipeChange", "RecomputeProductCost", productId, err)
	}
}

// AfterPartCostChange recomputes every product whose recipe references the
// part whose stored average cost was edited directly.
func AfterPartCostChange(ctx context.Context, db *gorm.DB, logger *logrus.Logger, partId int) {
	recomputeReferencingProducts(ctx, db, logger, "AfterPartCostChange", partId)
}

// AfterPurchaseChange recomputes every product referencing the part whose
// purchase history changed; FIFO valuation depends on the history, not just
// the stored average.
func AfterPurchaseChange(ctx context.Context, db *gorm.DB, logger *logrus.Logger, partId int) {
	recomputeReferencingProducts(ctx, db, logger, "AfterPurchaseChange", partId)
}

func recomputeReferencingProducts(ctx context.Context, db *gorm.DB, logger *logrus.Logger, hook string, partId int) {
	productIds, err := affectedProductIds(db.WithContext(ctx), partId)
	if err != nil {
		config.LogError(logger, "costPropagation.go", hook, "AffectedProductIds", partId, err)
		return
	}
	for _, productId := range productIds {
		if err := RecomputeProductCost(ctx, db, logger, productId); err != nil {
			config.LogError(logger, "costPropagation.go", hook, "RecomputeProductCost", productId, err)
		}
	}
}
