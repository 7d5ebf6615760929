package models

import "time"

type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "pending"
	ReservationStatusConfirmed  ReservationStatus = "confirmed"
	ReservationStatusGuaranteed ReservationStatus = "guaranteed"
	ReservationStatusCompleted  ReservationStatus = "completed"
	ReservationStatusCancelled  ReservationStatus = "cancelled"
)

// Reservation is a vehicle booking. Only the fields the payment flow touches
// live here; the marketplace frontend owns the rest through the BaaS.
type Reservation struct {
	ID        string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	VehicleID string `gorm:"column:vehicle_id;type:uuid;not null;index" json:"vehicle_id"`
	// OwnerID is the loueur who listed the vehicle, RenterID the client who
	// booked it.
	OwnerID     string    `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	RenterID    string    `gorm:"column:renter_id;type:uuid;not null" json:"renter_id"`
	RenterEmail string    `gorm:"column:renter_email;type:varchar(255)" json:"renter_email"`
	StartDate   time.Time `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"column:end_date;type:date;not null" json:"end_date"`

	Status ReservationStatus `gorm:"column:status;type:varchar(16);not null;default:'pending'" json:"status"`
	// IsGuaranteed flips once the deposit is paid; a guaranteed reservation
	// is protected from double-booking.
	IsGuaranteed     bool       `gorm:"column:is_guaranteed;not null;default:false" json:"is_guaranteed"`
	DepositPaid      bool       `gorm:"column:deposit_paid;not null;default:false" json:"deposit_paid"`
	PaymentDate      *time.Time `gorm:"column:payment_date" json:"payment_date"`
	PaymentReference *string    `gorm:"column:payment_reference;type:varchar(128)" json:"payment_reference"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Reservation) TableName() string { return "reservation" }
