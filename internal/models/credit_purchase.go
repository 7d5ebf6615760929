package models

import "time"

type CreditPurchaseStatus string

const (
	CreditPurchaseStatusPending   CreditPurchaseStatus = "pending"
	CreditPurchaseStatusCompleted CreditPurchaseStatus = "completed"
)

// CreditPurchase is a loueur's purchase of platform credits, paid through
// the same providers as reservation deposits.
type CreditPurchase struct {
	ID          string               `gorm:"column:id;primary_key;type:uuid" json:"id"`
	LoueurID    string               `gorm:"column:loueur_id;type:uuid;not null;index" json:"loueur_id"`
	LoueurEmail string               `gorm:"column:loueur_email;type:varchar(255)" json:"loueur_email"`
	Credits     int64                `gorm:"column:credits;type:bigint;not null" json:"credits"`
	AmountMinor int64                `gorm:"column:amount_minor;type:bigint;not null" json:"amount_minor"`
	Status      CreditPurchaseStatus `gorm:"column:status;type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func (CreditPurchase) TableName() string { return "credit_purchase" }
