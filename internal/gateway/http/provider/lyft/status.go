package lyft

import "dispatch/internal/entities"

func toCourierStatus(state string) entities.CourierStatus {
	switch state {
	case "created":
		return entities.CourierPending
	case "driver_assigned":
		return entities.CourierAccepted
	case "arrived_pickup":
		return entities.CourierArrivedAtPickup
	case "picked_up":
		return entities.CourierPickedUp
	case "in_transit":
		return entities.CourierEnRouteToDropoff
	case "arrived_dropoff":
		return entities.CourierArrivedAtDropoff
	case "delivered":
		return entities.CourierDroppedOff
	case "returned":
		return entities.CourierReturned
	case "failed":
		return entities.CourierFailed
	case "canceled":
		return entities.CourierCancelled
	default:
		return entities.CourierUnknown
	}
}

// Lyft сообщает отмену водителем как canceled с причиной driver_canceled.
// Для нас это провал курьера, который можно переотправить.
func toStatusAndReason(state, cancelReason string) (entities.CourierStatus, entities.FailureReason) {
	status := toCourierStatus(state)
	switch {
	case cancelReason == "driver_canceled":
		return entities.CourierFailed, entities.FailureCourierCancelled
	case status == entities.CourierFailed && cancelReason == "undeliverable":
		return status, entities.FailureUndeliverable
	case status == entities.CourierFailed:
		return status, entities.FailureOther
	default:
		return status, entities.FailureNone
	}
}

func amount(m *money) *int64 {
	if m == nil {
		return nil
	}
	v := m.Amount
	return &v
}
