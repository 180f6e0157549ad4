package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/makerledger/inventory_backend/config"
	"github.com/makerledger/inventory_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CostDrift is one product whose cached total cost disagreed with a fresh
// recomputation.
type CostDrift struct {
	ProductId  int              `json:"product_id"`
	Name       string           `json:"name"`
	Cached     *decimal.Decimal `json:"cached"`
	Recomputed decimal.Decimal  `json:"recomputed"`
}

// ReconcileProductCosts sweeps every product of an organization, repairing
// cached costs left behind by failed propagation hooks. Serialized across
// instances with a redis lock so two sweeps never interleave; a
// per-product failure is logged and skipped, never fails the sweep.
func ReconcileProductCosts(ctx context.Context, db *gorm.DB, logger *logrus.Logger, orgId string) ([]CostDrift, error) {
	ctx, span := tracer.Start(ctx, "ReconcileProductCosts")
	defer span.End()

	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, "cost-reconcile:"+orgId, 5*time.Minute, nil)
		if err != nil {
			if err == redislock.ErrNotObtained {
				return nil, fmt.Errorf("cost reconciliation already running for org %s", orgId)
			}
			return nil, err
		}
		defer lock.Release(ctx)
	}

	var products []models.Product
	if err := db.WithContext(ctx).Where("org_id = ?", orgId).Order("id").Find(&products).Error; err != nil {
		config.LogError(logger, "reconciliationWorkflow.go", "ReconcileProductCosts", "ListProducts", orgId, err)
		return nil, err
	}

	drifts := make([]CostDrift, 0)
	for _, product := range products {
		recomputed, err := computeProductCost(ctx, db.WithContext(ctx), product.ID)
		if err != nil {
			config.LogError(logger, "reconciliationWorkflow.go", "ReconcileProductCosts", "ComputeProductCost", product.ID, err)
			continue
		}

		if product.TotalCost == nil || !product.TotalCost.Equal(recomputed) {
			drifts = append(drifts, CostDrift{
				ProductId:  product.ID,
				Name:       product.Name,
				Cached:     product.TotalCost,
				Recomputed: recomputed,
			})
			if err := db.WithContext(ctx).Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("total_cost", recomputed).Error; err != nil {
				config.LogError(logger, "reconciliationWorkflow.go", "ReconcileProductCosts", "UpdateTotalCost", product.ID, err)
			}
		}
	}

	if len(drifts) > 0 {
		logger.WithFields(logrus.Fields{
			"module": "reconciliationWorkflow.go",
			"orgId":  orgId,
			"drifts": len(drifts),
		}).Warn("repaired stale cached product costs")
	}
	return drifts, nil
}
