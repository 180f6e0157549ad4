package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/makerledger/inventory_backend/config"
	"github.com/makerledger/inventory_backend/utils"
	"gorm.io/gorm"
)

type Organization struct {
	ID           string    `gorm:"primary_key;size:36" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	MainCurrency string    `gorm:"size:3;not null;default:USD" json:"main_currency"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewOrganization struct {
	Name         string `json:"name" validate:"required"`
	MainCurrency string `json:"main_currency"`
}

func CreateOrganization(ctx context.Context, input *NewOrganization) (*Organization, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	org := Organization{
		ID:           uuid.NewString(),
		Name:         input.Name,
		MainCurrency: input.MainCurrency,
	}
	if org.MainCurrency == "" {
		org.MainCurrency = "USD"
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, utils.MapDBError(err)
	}
	return &org, nil
}

// GetOrganization reads through the redis cache; organizations are hot on
// every org-scoping check and change rarely.
func GetOrganization(ctx context.Context, orgId string) (*Organization, error) {
	if cached, hit, err := utils.FetchRedis[Organization](orgId); err == nil && hit {
		return cached, nil
	}

	var org Organization
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", orgId).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: organization %s", utils.ErrNotFound, orgId)
		}
		return nil, err
	}

	if err := utils.StoreRedis[Organization](&org, orgId); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "organization.go", "GetOrganization", "StoreRedis", orgId, err)
	}
	return &org, nil
}
