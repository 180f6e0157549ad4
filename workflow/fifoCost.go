package workflow

import (
	"context"

	"github.com/makerledger/inventory_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostLayer is one purchase transaction viewed as a priced layer of stock.
// Layers are consumed newest-first when valuing usage; this approximates
// FIFO cost flow without lot-tagging the stock itself.
type CostLayer struct {
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
}

// CostPreview is the read-only costing result exposed to callers.
type CostPreview struct {
	UnitCost              decimal.Decimal `json:"unit_cost"`
	HistoricalAverageCost decimal.Decimal `json:"historical_average_cost"`
}

// BlendedUnitCost derives the marginal unit cost of consuming requiredQty
// given the part's purchase layers (newest first) and its stored average
// cost. Any quantity the recorded purchase history cannot cover is valued
// at averageCost; parts with no usable history fall back to averageCost
// entirely. Pure and deterministic over its inputs.
func BlendedUnitCost(layers []CostLayer, requiredQty decimal.Decimal, averageCost decimal.Decimal) decimal.Decimal {
	if !requiredQty.IsPositive() {
		return decimal.Zero
	}

	remaining := requiredQty
	totalCost := decimal.Zero
	totalQty := decimal.Zero

	for _, layer := range layers {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, layer.Qty)
		if !take.IsPositive() {
			continue
		}
		totalCost = totalCost.Add(take.Mul(layer.UnitPrice))
		totalQty = totalQty.Add(take)
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		totalCost = totalCost.Add(remaining.Mul(averageCost))
		totalQty = totalQty.Add(remaining)
	}

	if totalQty.IsZero() {
		return averageCost
	}
	return totalCost.Div(totalQty).Round(4)
}

// FifoUnitCost loads a part's purchase history and prices requiredQty
// against it. Read-only; safe outside any unit of work.
func FifoUnitCost(ctx context.Context, db *gorm.DB, partId int, requiredQty decimal.Decimal) (CostPreview, error) {
	part, err := models.GetPart(ctx, partId)
	if err != nil {
		return CostPreview{}, err
	}

	layers, err := loadCostLayers(db.WithContext(ctx), partId)
	if err != nil {
		return CostPreview{}, err
	}

	return CostPreview{
		UnitCost:              BlendedUnitCost(layers, requiredQty, part.UnitCost),
		HistoricalAverageCost: part.UnitCost,
	}, nil
}

func loadCostLayers(tx *gorm.DB, partId int) ([]CostLayer, error) {
	purchases, err := models.GetPurchaseLayers(tx, partId)
	if err != nil {
		return nil, err
	}
	layers := make([]CostLayer, 0, len(purchases))
	for _, p := range purchases {
		layers = append(layers, CostLayer{Qty: p.Qty, UnitPrice: p.UnitPrice})
	}
	return layers, nil
}
