package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("record not found")
	ErrNoRecipe            = errors.New("product has no recipe lines")
	ErrOrgMismatch         = errors.New("recipe part belongs to a different organization")
	ErrLockTimeout         = errors.New("could not acquire row locks in time")
	ErrConstraintViolation = errors.New("constraint violation")
)

// StockShortfall describes one part (or the product row, for sales) that
// blocked an operation: how much was required, how much was on hand.
type StockShortfall struct {
	PartId    int
	Name      string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (s StockShortfall) Shortfall() decimal.Decimal {
	return s.Required.Sub(s.Available)
}

// InsufficientStockError reports every offending line so callers can surface
// actionable detail instead of a bare failure.
type InsufficientStockError struct {
	Shortfalls []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortfalls) == 0 {
		return "insufficient stock"
	}
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("part %d", s.PartId)
		}
		parts = append(parts, fmt.Sprintf("%s: need %s, have %s", name, s.Required, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}

// MySQL server error numbers that the engine translates into error kinds.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockDeadlock    = 1213
	mysqlErrLockWaitTimeout = 1205
	mysqlErrNoReferencedRow = 1452
	mysqlErrRowIsReferenced = 1451
)

// MapDBError folds driver-level failures into the engine's error kinds.
// Anything unrecognized passes through unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrLockWaitTimeout, mysqlErrLockDeadlock:
			return fmt.Errorf("%w: %v", ErrLockTimeout, err)
		case mysqlErrDuplicateEntry, mysqlErrNoReferencedRow, mysqlErrRowIsReferenced:
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
	}
	return err
}
