package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/makerledger/inventory_backend/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ProfitSummaryRow aggregates the sale ledger per product against the
// cached unit cost.
type ProfitSummaryRow struct {
	ProductId  int             `json:"product_id"`
	Name       string          `json:"name"`
	UnitsSold  decimal.Decimal `json:"units_sold"`
	Revenue    decimal.Decimal `json:"revenue"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Margin     decimal.Decimal `json:"margin"`
	OnHand     int             `json:"on_hand"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	HasUnitQty bool            `json:"-"`
}

// GetProfitSummary reports revenue, cost of units sold (valued at the
// current cached recipe cost) and margin for every product of an org.
func GetProfitSummary(ctx context.Context, db *gorm.DB, orgId string) ([]ProfitSummaryRow, error) {
	type saleAgg struct {
		ProductId int
		UnitsSold decimal.Decimal
		Revenue   decimal.Decimal
	}

	var sales []saleAgg
	err := db.WithContext(ctx).Model(&models.ProductTransaction{}).
		Select("product_id, COALESCE(SUM(qty),0) AS units_sold, COALESCE(SUM(total_revenue),0) AS revenue").
		Where("org_id = ? AND kind = ? AND product_id IS NOT NULL", orgId, models.ProductTransactionKindSale).
		Group("product_id").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	salesByProduct := make(map[int]saleAgg, len(sales))
	for _, s := range sales {
		salesByProduct[s.ProductId] = s
	}

	products, err := models.GetProductsByOrg(ctx, orgId)
	if err != nil {
		return nil, err
	}

	rows := make([]ProfitSummaryRow, 0, len(products))
	for _, product := range products {
		unitCost := decimal.Zero
		if product.TotalCost != nil {
			unitCost = *product.TotalCost
		}
		row := ProfitSummaryRow{
			ProductId: product.ID,
			Name:      product.Name,
			OnHand:    product.Quantity,
			UnitCost:  unitCost,
		}
		if agg, ok := salesByProduct[product.ID]; ok {
			row.UnitsSold = agg.UnitsSold
			row.Revenue = agg.Revenue
			row.TotalCost = agg.UnitsSold.Mul(unitCost).Round(2)
			row.Margin = agg.Revenue.Sub(row.TotalCost)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExportValuationReport writes an xlsx workbook with a parts sheet (stock
// on hand, stored average cost, FIFO-valued stock) and a products sheet
// (quantity, cached recipe cost, base price, margin per unit).
func ExportValuationReport(ctx context.Context, db *gorm.DB, orgId string, w io.Writer) error {
	org, err := models.GetOrganization(ctx, orgId)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	partsSheet := "Parts"
	f.SetSheetName("Sheet1", partsSheet)
	partHeaders := []string{"Part", "Unit", "Stock", fmt.Sprintf("Avg Cost (%s)", org.MainCurrency), "FIFO Unit Cost", "Stock Value"}
	for i, h := range partHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(partsSheet, cell, h)
	}

	parts, err := models.GetPartsByOrg(ctx, orgId)
	if err != nil {
		return err
	}
	for r, part := range parts {
		layers, err := loadCostLayers(db.WithContext(ctx), part.ID)
		if err != nil {
			return err
		}
		stockQty := decimal.NewFromInt(int64(part.Stock))
		fifoUnit := BlendedUnitCost(layers, stockQty, part.UnitCost)
		values := []interface{}{
			part.Name,
			part.Unit,
			part.Stock,
			part.UnitCost.InexactFloat64(),
			fifoUnit.InexactFloat64(),
			fifoUnit.Mul(stockQty).Round(2).InexactFloat64(),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(partsSheet, cell, v)
		}
	}

	productsSheet := "Products"
	if _, err := f.NewSheet(productsSheet); err != nil {
		return err
	}
	productHeaders := []string{"Product", "Quantity", fmt.Sprintf("Recipe Cost (%s)", org.MainCurrency), "Base Price", "Margin / Unit"}
	for i, h := range productHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(productsSheet, cell, h)
	}

	products, err := models.GetProductsByOrg(ctx, orgId)
	if err != nil {
		return err
	}
	for r, product := range products {
		cost := decimal.Zero
		if product.TotalCost != nil {
			cost = *product.TotalCost
		}
		values := []interface{}{
			product.Name,
			product.Quantity,
			cost.InexactFloat64(),
		}
		if product.BasePrice != nil {
			values = append(values,
				product.BasePrice.InexactFloat64(),
				product.BasePrice.Sub(cost).InexactFloat64(),
			)
		} else {
			values = append(values, nil, nil)
		}
		for c, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(productsSheet, cell, v)
		}
	}

	return f.Write(w)
}
