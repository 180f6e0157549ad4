package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/makerledger/inventory_backend/config"
	"github.com/makerledger/inventory_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Part is a raw material. Stock and UnitCost are mutated only through the
// workflow package (purchases, builds, losses); stock never goes negative.
type Part struct {
	ID         int             `gorm:"primary_key" json:"id"`
	OrgId      string          `gorm:"size:36;not null;uniqueIndex:uq_parts_org_name" json:"org_id"`
	Name       string          `gorm:"size:100;not null;uniqueIndex:uq_parts_org_name" json:"name"`
	Stock      int             `gorm:"not null;default:0" json:"stock"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unit_cost"`
	Unit       string          `gorm:"size:20" json:"unit"`
	AlertStock int             `gorm:"not null;default:0" json:"alert_stock"`
	Notes      string          `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPart struct {
	OrgId      string          `json:"org_id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Stock      int             `json:"stock" validate:"gte=0"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Unit       string          `json:"unit"`
	AlertStock int             `json:"alert_stock" validate:"gte=0"`
	Notes      string          `json:"notes"`
}

func CreatePart(ctx context.Context, input *NewPart) (*Part, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if input.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit cost must not be negative", utils.ErrInvalidArgument)
	}
	part := Part{
		OrgId:      input.OrgId,
		Name:       input.Name,
		Stock:      input.Stock,
		UnitCost:   utils.RoundMoney(input.UnitCost),
		Unit:       input.Unit,
		AlertStock: input.AlertStock,
		Notes:      input.Notes,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&part).Error; err != nil {
		return nil, utils.MapDBError(err)
	}
	return &part, nil
}

func GetPart(ctx context.Context, partId int) (*Part, error) {
	var part Part
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", partId).First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: part %d", utils.ErrNotFound, partId)
		}
		return nil, err
	}
	return &part, nil
}

func GetPartsByOrg(ctx context.Context, orgId string) ([]Part, error) {
	var parts []Part
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("org_id = ?", orgId).Order("name").Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// DeletePart removes a part that is no longer referenced by any recipe.
// Referenced parts are protected (referential restriction).
func DeletePart(ctx context.Context, partId int) error {
	db := config.GetDB()
	var refCount int64
	if err := db.WithContext(ctx).Model(&RecipeLine{}).Where("part_id = ?", partId).Count(&refCount).Error; err != nil {
		return err
	}
	if refCount > 0 {
		return fmt.Errorf("%w: part %d is referenced by %d recipe line(s)", utils.ErrConstraintViolation, partId, refCount)
	}
	result := db.WithContext(ctx).Where("id = ?", partId).Delete(&Part{})
	if result.Error != nil {
		return utils.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: part %d", utils.ErrNotFound, partId)
	}
	return nil
}
