package repository

import (
	"context"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/entity"
)

type LineItemRepository interface {
	ReplaceForJob(ctx context.Context, jobID uuid.UUID, items []entity.LineItem) error
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]entity.LineItem, error)
}

type lineItemRepository struct {
	drv    *entsql.Driver
	logger *slog.Logger
}

func NewLineItemRepository(drv *entsql.Driver, logger *slog.Logger) LineItemRepository {
	return &lineItemRepository{
		drv:    drv,
		logger: logger,
	}
}

func (r *lineItemRepository) ReplaceForJob(ctx context.Context, jobID uuid.UUID, items []entity.LineItem) error {
	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		return replaceItems(ctx, tx, r.drv.Dialect(), jobID, items)
	})
	if err != nil {
		r.logger.Error("failed to replace line items", "job_id", jobID, "error", err)
		return err
	}
	return nil
}

func (r *lineItemRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]entity.LineItem, error) {
	q, args := entsql.Dialect(r.drv.Dialect()).
		Select("description", "quantity", "unit_price", "amount", "tax_rate", "tax_amount", "product_code", "unit").
		From(entsql.Table(tableLineItem)).
		Where(entsql.EQ("job_id", jobID)).
		OrderBy("position").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		r.logger.Error("failed to list line items", "job_id", jobID, "error", err)
		return nil, common.WrapError(err, "list line items")
	}
	defer rows.Close()

	items := []entity.LineItem{}
	for rows.Next() {
		var (
			it          entity.LineItem
			productCode *string
			unit        *string
		)
		if err := rows.Scan(&it.Description, &it.Quantity, &it.UnitPrice, &it.Amount, &it.TaxRate, &it.TaxAmount, &productCode, &unit); err != nil {
			return nil, common.WrapError(err, "scan line item")
		}
		if productCode != nil {
			it.ProductCode = *productCode
		}
		if unit != nil {
			it.Unit = *unit
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate line items")
	}
	return items, nil
}

// replaceItems deletes the job's items and inserts the new ones in order.
func replaceItems(ctx context.Context, ex dialect.ExecQuerier, d string, jobID uuid.UUID, items []entity.LineItem) error {
	q, args := entsql.Dialect(d).
		Delete(tableLineItem).
		Where(entsql.EQ("job_id", jobID)).
		Query()
	if err := ex.Exec(ctx, q, args, nil); err != nil {
		return common.WrapError(err, "delete line items")
	}
	if len(items) == 0 {
		return nil
	}

	ins := entsql.Dialect(d).
		Insert(tableLineItem).
		Columns("id", "job_id", "position", "description", "quantity", "unit_price", "amount", "tax_rate", "tax_amount", "product_code", "unit")
	for i, it := range items {
		ins.Values(uuid.New(), jobID, i, it.Description, it.Quantity, it.UnitPrice, it.Amount, it.TaxRate, it.TaxAmount, nullable(it.ProductCode), nullable(it.Unit))
	}
	q, args = ins.Query()
	if err := ex.Exec(ctx, q, args, nil); err != nil {
		return common.WrapError(err, "insert line items")
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
