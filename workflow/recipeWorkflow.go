package workflow

import (
	"context"

	"github.com/makerledger/inventory_backend/config"
	"github.com/makerledger/inventory_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Recipe-line mutations are the write sites the cost propagator depends
// on: each commits its change, then invokes AfterRecipeChange explicitly.

// UpsertRecipeLine adds or replaces the line for (product, part), checking
// the part exists and shares the product's organization.
func UpsertRecipeLine(ctx context.Context, db *gorm.DB, logger *logrus.Logger, productId int, input *models.NewRecipeLine) error {
	ctx, span := tracer.Start(ctx, "UpsertRecipeLine")
	defer span.End()

	err := RunUnitOfWork(ctx, db, logger, func(tx *gorm.DB) error {
		product, err := LockProduct(tx, productId)
		if err != nil {
			config.LogError(logger, "recipeWorkflow.go", "UpsertRecipeLine", "LockProduct", productId, err)
			return err
		}
		if err := models.ValidateRecipeLine(tx, product, input); err != nil {
			return err
		}
		if _, err := models.UpsertRecipeLineTx(tx, productId, input); err != nil {
			config.LogError(logger, "recipeWorkflow.go", "UpsertRecipeLine", "UpsertRecipeLineTx", input, err)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	AfterRecipeChange(ctx, db, logger, productId)
	return nil
}

// UpsertRecipeLines applies a whole recipe in one unit of work; existing
// (product, part) lines are updated in place, the rest inserted. One
// recompute runs after commit, not one per line.
func UpsertRecipeLines(ctx context.Context, db *gorm.DB, logger *logrus.Logger, productId int, inputs []*models.NewRecipeLine) error {
	ctx, span := tracer.Start(ctx, "UpsertRecipeLines")
	defer span.End()

	err := RunUnitOfWork(ctx, db, logger, func(tx *gorm.DB) error {
		product, err := LockProduct(tx, productId)
		if err != nil {
			config.LogError(logger, "recipeWorkflow.go", "UpsertRecipeLines", "LockProduct", productId, err)
			return err
		}
		for _, input := range inputs {
			if err := models.ValidateRecipeLine(tx, product, input); err != nil {
				return err
			}
			if _, err := models.UpsertRecipeLineTx(tx, productId, input); err != nil {
				config.LogError(logger, "recipeWorkflow.go", "UpsertRecipeLines", "UpsertRecipeLineTx", input, err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	AfterRecipeChange(ctx, db, logger, productId)
	return nil
}

// DeleteRecipeLine removes the line for (product, part).
func DeleteRecipeLine(ctx context.Context, db *gorm.DB, logger *logrus.Logger, productId int, partId int) error {
	ctx, span := tracer.Start(ctx, "DeleteRecipeLine")
	defer span.End()

	err := RunUnitOfWork(ctx, db, logger, func(tx *gorm.DB) error {
		if _, err := LockProduct(tx, productId); err != nil {
			config.LogError(logger, "recipeWorkflow.go", "DeleteRecipeLine", "LockProduct", productId, err)
			return err
		}
		if err := models.DeleteRecipeLineTx(tx, productId, partId); err != nil {
			config.LogError(logger, "recipeWorkflow.go", "DeleteRecipeLine", "DeleteRecipeLineTx", partId, err)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	AfterRecipeChange(ctx, db, logger, productId)
	return nil
}
