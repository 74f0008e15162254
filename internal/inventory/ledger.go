package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	pkgerrors "github.com/rohanmahajan/furnimart-backend/pkg/errors"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
)

// Line is one product+quantity pair the ledger acts on.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// InsufficientStockDetails is attached to the conflict error when a guarded
// decrement cannot be satisfied.
type InsufficientStockDetails struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
	Required  int    `json:"required"`
}

// InconsistentWriteDetails is attached when a decrement matched no row even
// though the catalog row was expected to exist.
type InconsistentWriteDetails struct {
	ProductID string `json:"product_id"`
}

// Ledger owns every stock mutation. Commit and Release run inside the
// caller's transaction so a multi-line batch settles all-or-nothing.
type Ledger interface {
	Reserve(ctx context.Context, tx *gorm.DB, lines []Line) error
	Commit(ctx context.Context, tx *gorm.DB, lines []Line) error
	Release(ctx context.Context, tx *gorm.DB, lines []Line) error
}

type ledger struct {
	logg *logger.Logger
}

// NewLedger builds the inventory ledger.
func NewLedger(logg *logger.Logger) (Ledger, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &ledger{logg: logg}, nil
}

// Reserve checks that current stock covers every line without writing
// anything. The first short line fails the whole batch; a vanished product
// fails it too.
func (l *ledger) Reserve(ctx context.Context, tx *gorm.DB, lines []Line) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory reserve")
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		var available int
		row := tx.WithContext(ctx).Raw(`SELECT stock FROM products WHERE id = ?`, line.ProductID).Row()
		if err := row.Scan(&available); err != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "product unavailable").
				WithDetails(InconsistentWriteDetails{ProductID: line.ProductID.String()})
		}
		if available < line.Quantity {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
				WithDetails(InsufficientStockDetails{
					ProductID: line.ProductID.String(),
					Available: available,
					Required:  line.Quantity,
				})
		}
	}
	return nil
}

// Commit durably deducts stock for every line. The decrement is guarded so a
// concurrent commit can never drive stock negative; the first line that
// cannot be satisfied fails the whole batch and the caller's transaction
// rolls the earlier decrements back.
func (l *ledger) Commit(ctx context.Context, tx *gorm.DB, lines []Line) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory commit")
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		res := tx.WithContext(ctx).Exec(`
			UPDATE products
			SET stock = stock - ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND stock >= ?
		`, line.Quantity, line.ProductID, line.Quantity)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "commit inventory")
		}
		if res.RowsAffected > 0 {
			continue
		}

		// Guard rejected the write: either the row is gone or stock ran out.
		var available int
		row := tx.WithContext(ctx).Raw(`SELECT stock FROM products WHERE id = ?`, line.ProductID).Row()
		if err := row.Scan(&available); err != nil {
			return pkgerrors.New(pkgerrors.CodeDependency, "inventory write inconsistent").
				WithDetails(InconsistentWriteDetails{ProductID: line.ProductID.String()})
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
			WithDetails(InsufficientStockDetails{
				ProductID: line.ProductID.String(),
				Available: available,
				Required:  line.Quantity,
			})
	}
	return nil
}

// Release returns previously committed stock. A line whose product no longer
// exists is skipped with a warning so the remaining lines still settle;
// database errors are collected and reported together.
func (l *ledger) Release(ctx context.Context, tx *gorm.DB, lines []Line) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory release")
	}

	var errs error
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		res := tx.WithContext(ctx).Exec(`
			UPDATE products
			SET stock = stock + ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, line.Quantity, line.ProductID)
		if res.Error != nil {
			errs = multierr.Append(errs, fmt.Errorf("release product %s: %w", line.ProductID, res.Error))
			continue
		}
		if res.RowsAffected == 0 {
			wctx := l.logg.WithFields(ctx, map[string]any{
				"product_id": line.ProductID.String(),
				"quantity":   line.Quantity,
			})
			l.logg.Warn(wctx, "release skipped, product missing")
		}
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "release inventory")
	}
	return nil
}
