package models

import "time"

// Notification is an in-app notification record.
type Notification struct {
	ID        string            `bson:"id" json:"id"`
	UserID    string            `bson:"user_id" json:"userId"`
	Key       string            `bson:"key" json:"key"` // e.g. "booking_paid", "booking_confirmed"
	EntityID  string            `bson:"entity_id" json:"entityId"`
	Payload   map[string]string `bson:"payload,omitempty" json:"payload,omitempty"`
	Read      bool              `bson:"read" json:"read"`
	CreatedAt time.Time         `bson:"created_at" json:"createdAt"`
}

// DispatchResult describes the outcome of one notification delivery attempt.
type DispatchResult string

const (
	DispatchSent    DispatchResult = "sent"
	DispatchSkipped DispatchResult = "skipped"
	DispatchFailed  DispatchResult = "failed"
)

// MessageThread is the minimal owner-sitter conversation anchor ensured as
// a side effect of booking creation. Chat delivery itself is external.
type MessageThread struct {
	ID        string    `bson:"id" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"ownerId"`
	SitterID  string    `bson:"sitter_id" json:"sitterId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// ReminderPayload is the asynq task payload for booking reminders and
// review requests.
type ReminderPayload struct {
	Kind      string `json:"kind"` // "reminder" or "review_request"
	BookingID string `json:"bookingId"`
	Target    string `json:"target"` // "owner" or "sitter"
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}
