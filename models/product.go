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

// Product is a finished good. Quantity is mutated only through
// build/loss/sale transactions; TotalCost is a cached value owned by the
// cost propagator and is nil until first computed.
type Product struct {
	ID            int              `gorm:"primary_key" json:"id"`
	OrgId         string           `gorm:"size:36;not null;uniqueIndex:uq_products_org_name" json:"org_id"`
	Name          string           `gorm:"size:100;not null;uniqueIndex:uq_products_org_name" json:"name"`
	Quantity      int              `gorm:"not null;default:0" json:"quantity"`
	TotalCost     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_cost"`
	BasePrice     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"base_price"`
	AlertQuantity int              `gorm:"not null;default:0" json:"alert_quantity"`
	IsActive      *bool            `gorm:"not null;default:true" json:"is_active"`
	Notes         string           `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	OrgId         string           `json:"org_id" validate:"required"`
	Name          string           `json:"name" validate:"required"`
	Quantity      int              `json:"quantity" validate:"gte=0"`
	BasePrice     *decimal.Decimal `json:"base_price"`
	AlertQuantity int              `json:"alert_quantity" validate:"gte=0"`
	Notes         string           `json:"notes"`
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	product := Product{
		OrgId:         input.OrgId,
		Name:          input.Name,
		Quantity:      input.Quantity,
		BasePrice:     input.BasePrice,
		AlertQuantity: input.AlertQuantity,
		IsActive:      utils.NewTrue(),
		Notes:         input.Notes,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, utils.MapDBError(err)
	}
	return &product, nil
}

func GetProduct(ctx context.Context, productId int) (*Product, error) {
	var product Product
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", productId).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", utils.ErrNotFound, productId)
		}
		return nil, err
	}
	return &product, nil
}

func GetProductsByOrg(ctx context.Context, orgId string) ([]Product, error) {
	var products []Product
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("org_id = ?", orgId).Order("name").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
