package uber

import "dispatch/internal/entities"

func toCourierStatus(raw string) entities.CourierStatus {
	switch raw {
	case "pending":
		return entities.CourierPending
	case "accepted", "pickup":
		return entities.CourierAccepted
	case "arrived_at_pickup", "pickup_imminent":
		return entities.CourierArrivedAtPickup
	case "picked_up", "pickup_complete":
		return entities.CourierPickedUp
	case "en_route_to_dropoff", "dropoff":
		return entities.CourierEnRouteToDropoff
	case "arrived_at_dropoff", "dropoff_imminent":
		return entities.CourierArrivedAtDropoff
	case "dropped_off", "delivered":
		return entities.CourierDroppedOff
	case "returned":
		return entities.CourierReturned
	case "failed":
		return entities.CourierFailed
	case "canceled", "cancelled":
		return entities.CourierCancelled
	default:
		return entities.CourierUnknown
	}
}

func toFailureReason(raw string) entities.FailureReason {
	switch raw {
	case "":
		return entities.FailureNone
	case "courier_cancelled", "courier_canceled":
		return entities.FailureCourierCancelled
	case "undeliverable", "customer_unavailable", "address_not_found":
		return entities.FailureUndeliverable
	default:
		return entities.FailureOther
	}
}
