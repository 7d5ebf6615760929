package models

import "time"

type NotificationType string

const (
	NotificationTypeDepositPaid      NotificationType = "deposit_paid"
	NotificationTypeCreditsPurchased NotificationType = "credits_purchased"
)

// Notification is an append-only row surfaced to a user in the app. Created
// by the reconciler, never mutated.
type Notification struct {
	ID     string           `gorm:"column:id;primary_key;type:uuid" json:"id"`
	UserID string           `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Type   NotificationType `gorm:"column:type;type:varchar(32);not null" json:"type"`
	Title  string           `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Body   string           `gorm:"column:body;type:text" json:"body"`
	// RelatedID points at the reservation or credit purchase the event is
	// about, so the frontend can deep-link.
	RelatedID *string   `gorm:"column:related_id;type:uuid" json:"related_id"`
	Read      bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notification" }
