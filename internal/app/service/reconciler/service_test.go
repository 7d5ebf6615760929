package reconciler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gomonto/payments/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAvailabilityBlocks_OnePerDayInclusive(t *testing.T) {
	r := &models.Reservation{
		ID:        "R1",
		VehicleID: "V1",
		StartDate: date(2026, time.March, 10),
		EndDate:   date(2026, time.March, 13),
	}

	blocks := availabilityBlocks(r)
	require.Len(t, blocks, 4)
	require.Equal(t, date(2026, time.March, 10), blocks[0].Date)
	require.Equal(t, date(2026, time.March, 13), blocks[3].Date)
	for _, b := range blocks {
		require.Equal(t, "V1", b.VehicleID)
		require.Equal(t, "R1", b.ReservationID)
		require.NotEmpty(t, b.ID)
	}
}

func TestAvailabilityBlocks_SingleDay(t *testing.T) {
	r := &models.Reservation{
		VehicleID: "V1",
		StartDate: date(2026, time.March, 10),
		EndDate:   date(2026, time.March, 10),
	}
	require.Len(t, availabilityBlocks(r), 1)
}

func TestAvailabilityBlocks_InvertedRange(t *testing.T) {
	r := &models.Reservation{
		StartDate: date(2026, time.March, 13),
		EndDate:   date(2026, time.March, 10),
	}
	require.Empty(t, availabilityBlocks(r))
}
