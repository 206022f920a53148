package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type LocationType string

const (
	LocationOffice LocationType = "office"
	LocationField  LocationType = "field"
	LocationRemote LocationType = "remote"
)

func (t LocationType) Valid() bool {
	switch t {
	case LocationOffice, LocationField, LocationRemote:
		return true
	}
	return false
}

// ClassifyLocation decides the location type from a reverse-geocoded short address.
// resolved is false when reverse geocoding failed or returned nothing.
func ClassifyLocation(shortAddress string, resolved bool) LocationType {
	if !resolved {
		return LocationRemote
	}
	if strings.Contains(strings.ToLower(shortAddress), "office") {
		return LocationOffice
	}
	return LocationField
}

// RawCoordinates is the short address stored when no address could be resolved.
func RawCoordinates(latitude, longitude float64) string {
	return fmt.Sprintf("%.6f, %.6f", latitude, longitude)
}

// TotalHours returns (out - in) in hours rounded to two decimal places.
func TotalHours(checkIn, checkOut time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(checkOut.Sub(checkIn))).
		Div(decimal.NewFromInt(int64(time.Hour))).
		Round(2)
}

// WorkingHours is the time worked so far. Open records are measured against nowIfOpen.
func WorkingHours(r Record, nowIfOpen time.Time) time.Duration {
	if r.CheckInTime == nil {
		return 0
	}
	end := nowIfOpen
	if r.CheckOutTime != nil {
		end = *r.CheckOutTime
	}
	d := end.Sub(*r.CheckInTime)
	if d < 0 {
		return 0
	}
	return d
}

// FormatDuration renders d as whole hours and minutes, e.g. "7h 45m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
