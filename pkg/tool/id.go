package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered id. All rows this service creates
// use v7 so primary keys index well under append-heavy writes.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
