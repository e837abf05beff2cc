package retry

import (
	"context"
	"fmt"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/batchwrite"
)

type Repository struct {
	querier repository.Querier
}

func New(querier repository.Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// Create пишет запись о попытке. Записи не обновляются и не удаляются.
func (r *Repository) Create(ctx context.Context, record entities.RetryRecord) error {
	query := `INSERT INTO retry_records (id, request_id, attempt, pickup_at, previous_order_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.querier.Exec(
		ctx,
		query,
		record.ID,
		record.RequestID,
		record.Attempt,
		record.PickupAt,
		record.PreviousOrderID,
		record.Reason,
		record.CreatedAt,
	)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return batchwrite.ErrConflict
		}
		return fmt.Errorf("unexpected retry repository create error: %w", err)
	}
	return nil
}

func (r *Repository) ListByRequestID(ctx context.Context, requestID string) ([]entities.RetryRecord, error) {
	query := `SELECT id, request_id, attempt, pickup_at, previous_order_id, reason, created_at
		FROM retry_records
		WHERE request_id = $1
		ORDER BY attempt`

	rows, err := r.querier.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("unexpected retry repository list error: %w", err)
	}
	defer rows.Close()

	records := make([]entities.RetryRecord, 0, 2)
	for rows.Next() {
		var rec entities.RetryRecord
		err := rows.Scan(
			&rec.ID,
			&rec.RequestID,
			&rec.Attempt,
			&rec.PickupAt,
			&rec.PreviousOrderID,
			&rec.Reason,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected retry repository list error: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected retry repository list error: %w", err)
	}
	return records, nil
}
