package models

import (
	"context"
	"fmt"
	"time"

	"github.com/makerledger/inventory_backend/config"
	"github.com/makerledger/inventory_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecipeLine states how much of one part a single unit of a product needs.
// At most one line per (product, part) pair; the part must live in the same
// organization as the product.
type RecipeLine struct {
	ProductId int             `gorm:"primary_key" json:"product_id"`
	PartId    int             `gorm:"primary_key" json:"part_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"quantity"`
	Unit      string          `gorm:"size:20" json:"unit"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewRecipeLine struct {
	PartId   int             `json:"part_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

func GetRecipeLines(ctx context.Context, productId int) ([]RecipeLine, error) {
	var lines []RecipeLine
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("product_id = ?", productId).Order("part_id").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// ValidateRecipeLine checks the part exists and shares the product's
// organization. Runs inside the caller's transaction when one is active.
func ValidateRecipeLine(tx *gorm.DB, product *Product, input *NewRecipeLine) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.Quantity.IsPositive() {
		return fmt.Errorf("%w: recipe quantity must be positive", utils.ErrInvalidArgument)
	}
	var part Part
	if err := tx.Where("id = ?", input.PartId).First(&part).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: part %d", utils.ErrNotFound, input.PartId)
		}
		return err
	}
	if part.OrgId != product.OrgId {
		return fmt.Errorf("%w: part %d is in organization %s, product %d is in %s",
			utils.ErrOrgMismatch, part.ID, part.OrgId, product.ID, product.OrgId)
	}
	return nil
}

// UpsertRecipeLineTx inserts or updates one line inside tx. Returns true
// when a new line was created.
func UpsertRecipeLineTx(tx *gorm.DB, productId int, input *NewRecipeLine) (bool, error) {
	var existing RecipeLine
	err := tx.Where("product_id = ? AND part_id = ?", productId, input.PartId).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{"quantity": utils.RoundQty(input.Quantity)}
		if input.Unit != "" {
			updates["unit"] = input.Unit
		}
		if err := tx.Model(&RecipeLine{}).
			Where("product_id = ? AND part_id = ?", productId, input.PartId).
			Updates(updates).Error; err != nil {
			return false, utils.MapDBError(err)
		}
		return false, nil
	case err == gorm.ErrRecordNotFound:
		line := RecipeLine{
			ProductId: productId,
			PartId:    input.PartId,
			Quantity:  utils.RoundQty(input.Quantity),
			Unit:      input.Unit,
		}
		if err := tx.Create(&line).Error; err != nil {
			return false, utils.MapDBError(err)
		}
		return true, nil
	default:
		return false, err
	}
}

func DeleteRecipeLineTx(tx *gorm.DB, productId int, partId int) error {
	result := tx.Where("product_id = ? AND part_id = ?", productId, partId).Delete(&RecipeLine{})
	if result.Error != nil {
		return utils.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: recipe line (product %d, part %d)", utils.ErrNotFound, productId, partId)
	}
	return nil
}
