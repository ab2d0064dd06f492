package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies a user-visible notification.
type NotificationKind string

const (
	NotifySuccess       NotificationKind = "success"
	NotifyError         NotificationKind = "error"
	NotifyInfo          NotificationKind = "info"
	NotifyPlanActivated NotificationKind = "plan_activated"
	NotifyPlanEnded     NotificationKind = "plan_ended"
)

// Notification is a message for the member, delivered through the
// notification side channel rather than an operation's return value.
type Notification struct {
	ID      string           `json:"id"`
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	At      time.Time        `json:"at"`
}

// NewNotification builds a notification stamped with a fresh id and the
// current time.
func NewNotification(kind NotificationKind, title, message string) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Title:   title,
		Message: message,
		At:      time.Now().UTC(),
	}
}
