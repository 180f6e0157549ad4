package workflow

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/makerledger/inventory_backend/config"
	"github.com/makerledger/inventory_backend/models"
	"github.com/makerledger/inventory_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var tracer trace.Tracer = otel.Tracer("inventory_backend/workflow")

// RunUnitOfWork wraps fn in a database transaction. All reads and writes
// inside fn commit or roll back together; row locks acquired in fn are held
// until the transaction ends.
//
// A deadline on ctx bounds lock waits: the remaining budget is applied as
// the session's innodb_lock_wait_timeout, so a blocked lock acquisition
// fails inside the database (error 1205, mapped to ErrLockTimeout) instead
// of queueing past the caller's budget.
func RunUnitOfWork(ctx context.Context, db *gorm.DB, logger *logrus.Logger, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if deadline, ok := ctx.Deadline(); ok {
			budget := int(math.Ceil(time.Until(deadline).Seconds()))
			if budget < 1 {
				budget = 1
			}
			// Session-scoped; every unit of work sets its own value, so a
			// pooled connection carrying an old one is harmless.
			if err := tx.Exec("SET innodb_lock_wait_timeout = ?", budget).Error; err != nil {
				config.LogError(logger, "unitOfWork.go", "RunUnitOfWork", "SetLockWaitTimeout", budget, err)
				return err
			}
		}
		return fn(tx)
	})
	return utils.MapDBError(err)
}

// LockProduct takes an exclusive lock on one product row and returns its
// current state.
func LockProduct(tx *gorm.DB, productId int) (*models.Product, error) {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", productId).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: product %d", utils.ErrNotFound, productId)
		}
		return nil, err
	}
	return &product, nil
}

// LockPart takes an exclusive lock on one part row.
func LockPart(tx *gorm.DB, partId int) (*models.Part, error) {
	var part models.Part
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", partId).
		First(&part).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: part %d", utils.ErrNotFound, partId)
		}
		return nil, err
	}
	return &part, nil
}

// LockPartsForRecipe locks every part referenced by the product's recipe.
// Rows are locked in part-id order regardless of recipe insertion order;
// two concurrent builds sharing parts always acquire the shared locks in
// the same sequence, which is what rules out lock-ordering deadlocks.
func LockPartsForRecipe(tx *gorm.DB, productId int) ([]models.Part, error) {
	var parts []models.Part
	err := tx.Model(&models.Part{}).
		Joins("JOIN recipe_lines ON recipe_lines.part_id = parts.id").
		Where("recipe_lines.product_id = ?", productId).
		Order("parts.id").
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "parts"}}).
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// AdjustPartStock applies a stock delta. The guard in the WHERE clause is a
// structural backstop: callers validate availability under the row lock
// first, so a zero-row update means the invariant was about to break.
func AdjustPartStock(tx *gorm.DB, partId int, delta int) error {
	result := tx.Model(&models.Part{}).
		Where("id = ? AND stock + ? >= 0", partId, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return utils.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return &utils.InsufficientStockError{Shortfalls: []utils.StockShortfall{{
			PartId:   partId,
			Required: decimal.NewFromInt(int64(-delta)),
		}}}
	}
	return nil
}

// AdjustProductQuantity applies a quantity delta with the same backstop.
func AdjustProductQuantity(tx *gorm.DB, productId int, delta int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND quantity + ? >= 0", productId, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return utils.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return &utils.InsufficientStockError{Shortfalls: []utils.StockShortfall{{
			Required: decimal.NewFromInt(int64(-delta)),
		}}}
	}
	return nil
}
