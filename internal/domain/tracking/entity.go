package tracking

import "time"

// Ping is one sample of a staff member's live position.
type Ping struct {
	ID        string
	StaffID   string
	Latitude  float64
	Longitude float64
	Accuracy  *float64
	Address   *string

	// DistanceMeters is the haversine distance from the staff member's previous ping.
	DistanceMeters float64
	RecordedAt     time.Time

	// DTO / Join
	StaffName *string
}
