package models

import "time"

// VehicleAvailability blocks a vehicle for one day. Rows are inserted when a
// reservation's deposit is paid so the vehicle cannot be double-booked for
// the covered range. The vehicle+date unique index makes replayed webhooks
// harmless at the storage level too.
type VehicleAvailability struct {
	ID            string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	VehicleID     string    `gorm:"column:vehicle_id;type:uuid;not null;uniqueIndex:unique_vehicle_date,priority:1" json:"vehicle_id"`
	Date          time.Time `gorm:"column:date;type:date;not null;uniqueIndex:unique_vehicle_date,priority:2" json:"date"`
	ReservationID string    `gorm:"column:reservation_id;type:uuid;not null;index" json:"reservation_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func (VehicleAvailability) TableName() string { return "vehicle_availability" }
