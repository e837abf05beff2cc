package order

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/batchwrite"
	"dispatch/internal/service/tracking"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const orderColumns = `id, provider, provider_order_id, request_id, retry_generation, status,
	provider_status, sub_status, pickup_at, batch_size, batch_position, status_history,
	fee, created_at, updated_at`

type Repository struct {
	querier repository.Querier
}

func New(querier repository.Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func scanOrder(row pgx.Row, dst *OrderDB) error {
	return row.Scan(
		&dst.ID,
		&dst.Provider,
		&dst.ProviderOrderID,
		&dst.RequestID,
		&dst.RetryGeneration,
		&dst.Status,
		&dst.ProviderStatus,
		&dst.SubStatus,
		&dst.PickupAt,
		&dst.BatchSize,
		&dst.BatchPosition,
		&dst.StatusHistory,
		&dst.Fee,
		&dst.CreatedAt,
		&dst.UpdatedAt,
	)
}

func (r *Repository) Create(ctx context.Context, order entities.Order) (*entities.Order, error) {
	orderModel := FromDomain(&order)
	query := `INSERT INTO orders (provider, provider_order_id, request_id, retry_generation, status,
			provider_status, sub_status, pickup_at, batch_size, batch_position, status_history, fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + orderColumns

	var created OrderDB
	err := scanOrder(r.querier.QueryRow(
		ctx,
		query,
		orderModel.Provider,
		orderModel.ProviderOrderID,
		orderModel.RequestID,
		orderModel.RetryGeneration,
		orderModel.Status,
		orderModel.ProviderStatus,
		orderModel.SubStatus,
		orderModel.PickupAt,
		orderModel.BatchSize,
		orderModel.BatchPosition,
		orderModel.StatusHistory,
		orderModel.Fee,
	), &created)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, batchwrite.ErrConflict
		}
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	return ToDomain(&created), nil
}

func (r *Repository) Update(ctx context.Context, orderModify entities.OrderModify) error {
	if orderModify.ID == nil {
		return fmt.Errorf("order repository update: %w", tracking.ErrOrderNotFound)
	}
	if orderModify.Empty() {
		return nil
	}

	modifyModel := FromDomainModify(&orderModify)

	builder := qb.Update("orders")

	if modifyModel.Status != nil {
		builder = builder.Set("status", modifyModel.Status)
	}
	if modifyModel.ProviderStatus != nil {
		builder = builder.Set("provider_status", modifyModel.ProviderStatus)
	}
	if modifyModel.SubStatus != nil {
		builder = builder.Set("sub_status", modifyModel.SubStatus)
	}
	if modifyModel.StatusHistory != nil {
		builder = builder.Set("status_history", modifyModel.StatusHistory)
	}

	// завершенный заказ больше не меняется
	builder = builder.
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": modifyModel.ID}).
		Where(sq.Eq{"status": entities.OrderActive.String()})

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("unexpected order repository update error: %w", err)
	}

	if _, err := r.querier.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("unexpected order repository update error: %w", err)
	}
	return nil
}

func (r *Repository) GetByProviderOrderID(ctx context.Context, provider entities.Provider, providerOrderID string) (*entities.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE provider = $1 AND provider_order_id = $2
		ORDER BY retry_generation DESC
		LIMIT 1`

	var orderModel OrderDB
	err := scanOrder(r.querier.QueryRow(ctx, query, provider.String(), providerOrderID), &orderModel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracking.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository getbyproviderorderid error: %w", err)
	}

	return ToDomain(&orderModel), nil
}

func (r *Repository) GetActiveByRequestID(ctx context.Context, requestID string) (*entities.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE request_id = $1 AND status = 'ACTIVE'
		ORDER BY retry_generation DESC
		LIMIT 1`

	var orderModel OrderDB
	err := scanOrder(r.querier.QueryRow(ctx, query, requestID), &orderModel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracking.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository getactivebyrequestid error: %w", err)
	}

	return ToDomain(&orderModel), nil
}

// ListActive активные заказы провайдера с прошедшим временем забора,
// постранично по id (keyset).
func (r *Repository) ListActive(
	ctx context.Context,
	provider entities.Provider,
	pickupBefore int64,
	afterID int64,
	limit int,
) ([]entities.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE provider = $1
		  AND status = 'ACTIVE'
		  AND pickup_at <= $2
		  AND id > $3
		ORDER BY id
		LIMIT $4`

	rows, err := r.querier.Query(ctx, query, provider.String(), pickupBefore, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository listactive error: %w", err)
	}
	defer rows.Close()

	orderModels := make([]OrderDB, 0, limit)
	for rows.Next() {
		var orderModel OrderDB
		if err := scanOrder(rows, &orderModel); err != nil {
			return nil, fmt.Errorf("unexpected order repository listactive error: %w", err)
		}
		orderModels = append(orderModels, orderModel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository listactive error: %w", err)
	}

	return ToDomainList(orderModels), nil
}
