package models

import (
	"time"

	"github.com/makerledger/inventory_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartTransaction is an immutable part-ledger entry. Qty is signed:
// positive for purchases, negative for build consumption and losses.
// UnitPrice is meaningful only for purchases. Rows are appended inside the
// unit of work that mutates the matching part's stock, and are never
// updated or deleted afterwards.
type PartTransaction struct {
	ID                   int                 `gorm:"primary_key" json:"id"`
	OrgId                string              `gorm:"size:36;not null;index" json:"org_id"`
	PartId               int                 `gorm:"not null;index" json:"part_id"`
	Kind                 PartTransactionKind `gorm:"type:enum('purchase','build_consumption','loss');not null" json:"kind"`
	Qty                  decimal.Decimal     `gorm:"type:decimal(12,4);not null" json:"qty"`
	UnitPrice            decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	ProductTransactionId *int                `gorm:"index" json:"product_transaction_id"`
	Notes                string              `gorm:"type:text" json:"notes"`
	CreatedAt            time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

// AppendPartTransaction is the only write path for the part ledger.
func AppendPartTransaction(tx *gorm.DB, entry *PartTransaction) error {
	if err := tx.Create(entry).Error; err != nil {
		return utils.MapDBError(err)
	}
	return nil
}

// GetPurchaseLayers returns a part's purchase transactions with positive
// quantity, newest first. The id tie-break keeps the order deterministic
// for purchases sharing a timestamp.
func GetPurchaseLayers(tx *gorm.DB, partId int) ([]PartTransaction, error) {
	var layers []PartTransaction
	err := tx.
		Where("part_id = ? AND kind = ? AND qty > 0", partId, PartTransactionKindPurchase).
		Order("created_at DESC, id DESC").
		Find(&layers).Error
	if err != nil {
		return nil, err
	}
	return layers, nil
}
