package entities

import "time"

type NotificationKind string

const (
	NotifyPickedUp    NotificationKind = "picked_up"
	NotifyDroppedOff  NotificationKind = "dropped_off"
	NotifyFailed      NotificationKind = "failed"
	NotifyCancelled   NotificationKind = "cancelled"
	NotifyRescheduled NotificationKind = "rescheduled"
)

// Notification событие для заявителя. Текст собирает сервис уведомлений.
type Notification struct {
	ID          string
	Kind        NotificationKind
	RequestID   string
	RequesterID string
	Provider    Provider
	TrackingURL string
	CreatedAt   time.Time
}
