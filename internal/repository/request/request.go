package request

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/mmcloughlin/geohash"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/batchwrite"
	"dispatch/internal/service/tracking"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const requestColumns = `r.id, r.requester_id, r.supplier_id, r.recipient_id, r.pickup_at, r.mode,
	r.status, r.outcome, r.provider_status, r.retry_count, r.previous_provider,
	r.delivery_window_id, r.delivery_window_end, r.delivery_fee, r.delivery_cost,
	r.volunteers, r.created_at, r.updated_at`

type Repository struct {
	querier repository.Querier
}

func New(querier repository.Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func scanRequest(row pgx.Row, dst *RequestDB, extra ...any) error {
	args := []any{
		&dst.ID,
		&dst.RequesterID,
		&dst.SupplierID,
		&dst.RecipientID,
		&dst.PickupAt,
		&dst.Mode,
		&dst.Status,
		&dst.Outcome,
		&dst.ProviderStatus,
		&dst.RetryCount,
		&dst.PreviousProvider,
		&dst.DeliveryWindowID,
		&dst.DeliveryWindowEnd,
		&dst.DeliveryFee,
		&dst.DeliveryCost,
		&dst.Volunteers,
		&dst.CreatedAt,
		&dst.UpdatedAt,
	}
	return row.Scan(append(args, extra...)...)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Request, error) {
	query := `SELECT ` + requestColumns + `
		FROM requests r
		WHERE r.id = $1`

	var requestModel RequestDB
	err := scanRequest(r.querier.QueryRow(ctx, query, id), &requestModel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracking.ErrRequestNotFound
		}
		return nil, fmt.Errorf("unexpected request repository getbyid error: %w", err)
	}

	return ToDomain(&requestModel), nil
}

// ListDue открытые заявки провайдера, у которых время забора наступило
// или попадает в окно до until. ASAP заявки берутся всегда.
func (r *Repository) ListDue(ctx context.Context, provider entities.Provider, until int64, limit int) ([]entities.Request, error) {
	query := `SELECT ` + requestColumns + `
		FROM requests r
		WHERE r.mode = $1
		  AND r.status IN ('open', 'asap_fulfillment')
		  AND (r.pickup_at = 0 OR r.pickup_at <= $2)
		ORDER BY r.supplier_id, r.pickup_at, r.id
		LIMIT $3`

	rows, err := r.querier.Query(ctx, query, provider.String(), until, limit)
	if err != nil {
		return nil, fmt.Errorf("unexpected request repository listdue error: %w", err)
	}
	defer rows.Close()

	requests := make([]entities.Request, 0, 16)
	for rows.Next() {
		var requestModel RequestDB
		if err := scanRequest(rows, &requestModel); err != nil {
			return nil, fmt.Errorf("unexpected request repository listdue error: %w", err)
		}
		requests = append(requests, *ToDomain(&requestModel))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected request repository listdue error: %w", err)
	}

	return requests, nil
}

// ListDispatchItems заявки вместе с точкой забора и получателем.
// Отсутствующие поставщик или получатель возвращаются как nil.
func (r *Repository) ListDispatchItems(ctx context.Context, ids []string) ([]entities.DispatchItem, error) {
	if len(ids) == 0 {
		return []entities.DispatchItem{}, nil
	}

	query := `SELECT ` + requestColumns + `,
			s.id, s.name, s.phone, NULL::text, s.address_formatted, s.lat, s.lng, s.geohash, s.place_id,
			c.id, c.name, c.phone, c.notes, c.address_formatted, c.lat, c.lng, c.geohash, c.place_id
		FROM requests r
		LEFT JOIN suppliers s ON s.id = r.supplier_id
		LEFT JOIN recipients c ON c.id = r.recipient_id
		WHERE r.id = ANY($1)
		ORDER BY r.id`

	rows, err := r.querier.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("unexpected request repository listdispatchitems error: %w", err)
	}
	defer rows.Close()

	items := make([]entities.DispatchItem, 0, len(ids))
	for rows.Next() {
		var (
			requestModel   RequestDB
			supplierModel  PartyDB
			recipientModel PartyDB
		)
		err := scanRequest(rows, &requestModel,
			&supplierModel.ID, &supplierModel.Name, &supplierModel.Phone, &supplierModel.Notes,
			&supplierModel.Address.Formatted, &supplierModel.Address.Lat, &supplierModel.Address.Lng,
			&supplierModel.Address.Geohash, &supplierModel.Address.PlaceID,
			&recipientModel.ID, &recipientModel.Name, &recipientModel.Phone, &recipientModel.Notes,
			&recipientModel.Address.Formatted, &recipientModel.Address.Lat, &recipientModel.Address.Lng,
			&recipientModel.Address.Geohash, &recipientModel.Address.PlaceID,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected request repository listdispatchitems error: %w", err)
		}

		items = append(items, entities.DispatchItem{
			Request:   *ToDomain(&requestModel),
			Supplier:  toSupplier(supplierModel),
			Recipient: toRecipient(recipientModel),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected request repository listdispatchitems error: %w", err)
	}

	return items, nil
}

// Update применяет патч. Закрытые заявки не трогаются: запоздавшая запись
// не должна переоткрыть или переписать уже закрытую заявку.
func (r *Repository) Update(ctx context.Context, requestModify entities.RequestModify) error {
	if err := requestModify.Validate(); err != nil {
		return err
	}
	if requestModify.ID == nil {
		return fmt.Errorf("request repository update: %w", tracking.ErrRequestNotFound)
	}
	if requestModify.Empty() {
		return nil
	}

	modifyModel := FromDomainModify(&requestModify)

	builder := qb.Update("requests")

	if modifyModel.Status != nil {
		builder = builder.
			Set("status", modifyModel.Status).
			Set("outcome", modifyModel.Outcome)
	}
	if modifyModel.ProviderStatus != nil {
		builder = builder.Set("provider_status", modifyModel.ProviderStatus)
	}
	if modifyModel.RetryCount != nil {
		builder = builder.Set("retry_count", modifyModel.RetryCount)
	}
	if modifyModel.PreviousProvider != nil {
		builder = builder.Set("previous_provider", modifyModel.PreviousProvider)
	}
	if modifyModel.Mode != nil {
		builder = builder.Set("mode", modifyModel.Mode)
	}
	if modifyModel.PickupAt != nil {
		builder = builder.Set("pickup_at", modifyModel.PickupAt)
	}
	if modifyModel.DeliveryFee != nil {
		builder = builder.Set("delivery_fee", modifyModel.DeliveryFee)
	}
	if modifyModel.DeliveryCost != nil {
		builder = builder.Set("delivery_cost", modifyModel.DeliveryCost)
	}

	builder = builder.
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": modifyModel.ID})
	if len(modifyModel.ExpectStatus) > 0 {
		builder = builder.Where(sq.Eq{"status": modifyModel.ExpectStatus})
	} else {
		builder = builder.Where(sq.NotEq{"status": entities.RequestClosed.String()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("unexpected request repository update error: %w", err)
	}

	tag, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected request repository update error: %w", err)
	}
	// без ожидаемого статуса повторное закрытие остается тихим no-op
	if len(modifyModel.ExpectStatus) > 0 && tag.RowsAffected() == 0 {
		return fmt.Errorf("request %s: %w: %w", *modifyModel.ID, batchwrite.ErrConflict, entities.ErrStatusChanged)
	}
	return nil
}

// SetVolunteers перезаписывает список волонтеров. Вызывать внутри
// сериализуемой транзакции после чтения текущего списка.
func (r *Repository) SetVolunteers(ctx context.Context, id string, volunteers []string) error {
	query := `UPDATE requests
		SET volunteers = $2, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.querier.Exec(ctx, query, id, volunteers)
	if err != nil {
		return fmt.Errorf("unexpected request repository setvolunteers error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tracking.ErrRequestNotFound
	}
	return nil
}

// UpdateRecipientAddress сохраняет результат геокодинга, чтобы не повторять запрос.
func (r *Repository) UpdateRecipientAddress(ctx context.Context, recipientID string, address entities.GeocodedAddress) error {
	query := `UPDATE recipients
		SET address_formatted = $2, lat = $3, lng = $4, geohash = $5, place_id = $6
		WHERE id = $1`

	_, err := r.querier.Exec(ctx, query,
		recipientID,
		address.Formatted,
		address.Location.Lat,
		address.Location.Lng,
		geohash.Encode(address.Location.Lat, address.Location.Lng),
		address.PlaceID,
	)
	if err != nil {
		return fmt.Errorf("unexpected request repository updaterecipientaddress error: %w", err)
	}
	return nil
}
