package models

import (
	"time"

	"github.com/makerledger/inventory_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductTransaction is an immutable product-ledger entry. UnitPrice and
// TotalRevenue are meaningful only for sales. Build rows own the
// PartTransaction rows that consumed parts (linked by
// PartTransaction.ProductTransactionId).
type ProductTransaction struct {
	ID            int                    `gorm:"primary_key" json:"id"`
	OrgId         string                 `gorm:"size:36;not null;index" json:"org_id"`
	ProductId     *int                   `gorm:"index" json:"product_id"`
	Kind          ProductTransactionKind `gorm:"type:enum('build','loss','sale');not null" json:"kind"`
	Qty           decimal.Decimal        `gorm:"type:decimal(12,4);not null" json:"qty"`
	UnitPrice     decimal.Decimal        `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	TotalRevenue  decimal.Decimal        `gorm:"type:decimal(10,2);not null;default:0" json:"total_revenue"`
	CorrelationId string                 `gorm:"size:36" json:"correlation_id"`
	Notes         string                 `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time              `gorm:"autoCreateTime" json:"created_at"`
}

// AppendProductTransaction is the only write path for the product ledger.
func AppendProductTransaction(tx *gorm.DB, entry *ProductTransaction) error {
	if err := tx.Create(entry).Error; err != nil {
		return utils.MapDBError(err)
	}
	return nil
}

func GetProductTransactionsByProduct(tx *gorm.DB, productId int, kind ProductTransactionKind) ([]ProductTransaction, error) {
	var txns []ProductTransaction
	err := tx.
		Where("product_id = ? AND kind = ?", productId, kind).
		Order("created_at, id").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
