package dispatch

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/internal/service/routing"
	"dispatch/pkg/logger"
)

type prepared struct {
	pickup entities.Supplier
	stops  []entities.Stop
	// closes заявки, которые отправить нельзя: закрываются с error_creating.
	closes []entities.RequestModify
}

// prepare проверяет остановки перед отправкой. Недостающие координаты
// получателя запрашиваются у геокодера и сохраняются. Ошибка геокодера
// оставляет заявку открытой до следующего запуска.
func (s *Service) prepare(ctx context.Context, items []entities.DispatchItem, persist bool) prepared {
	var p prepared
	for _, item := range items {
		req := item.Request
		log := s.log.With(logger.NewField("request_id", req.ID))

		if item.Supplier == nil {
			log.Warn("supplier missing, closing request")
			p.closes = append(p.closes, entities.CloseRequest(req.ID, entities.OutcomeErrorCreating))
			continue
		}
		supplierPoint, ok := routing.ResolvePoint(item.Supplier.Address)
		if !ok || item.Supplier.Address.IsInvalid() {
			log.Warn("supplier has no usable address, closing request",
				logger.NewField("supplier_id", item.Supplier.ID),
			)
			p.closes = append(p.closes, entities.CloseRequest(req.ID, entities.OutcomeErrorCreating))
			continue
		}
		if item.Recipient == nil {
			log.Warn("recipient missing, closing request")
			p.closes = append(p.closes, entities.CloseRequest(req.ID, entities.OutcomeErrorCreating))
			continue
		}

		recipient := *item.Recipient
		if recipient.Address.IsInvalid() {
			log.Warn("recipient address marked invalid, closing request")
			p.closes = append(p.closes, entities.CloseRequest(req.ID, entities.OutcomeErrorCreating))
			continue
		}

		if !recipient.Address.HasCoordinates() {
			geocoded, err := s.geocoder.Geocode(ctx, recipient.Address.Formatted)
			if err != nil {
				log.Warn("geocoding failed, request stays open", logger.NewField("error", err))
				continue
			}
			if persist {
				if err := s.requests.UpdateRecipientAddress(ctx, recipient.ID, *geocoded); err != nil {
					log.Warn("persist geocoded address failed", logger.NewField("error", err))
				}
			}
			if geocoded.PlaceID == entities.InvalidPlaceID {
				log.Warn("geocoder rejected address, closing request")
				p.closes = append(p.closes, entities.CloseRequest(req.ID, entities.OutcomeErrorCreating))
				continue
			}
			point := geocoded.Location
			recipient.Address.Location = &point
			recipient.Address.PlaceID = geocoded.PlaceID
			if geocoded.Formatted != "" {
				recipient.Address.Formatted = geocoded.Formatted
			}
		}

		// адаптеры читают только Location, geohash раскрываем здесь
		point, _ := routing.ResolvePoint(recipient.Address)
		recipient.Address.Location = &point

		if len(p.stops) == 0 {
			p.pickup = *item.Supplier
			p.pickup.Address.Location = &supplierPoint
		}
		p.stops = append(p.stops, entities.Stop{Request: req, Recipient: recipient})
	}
	return p
}
