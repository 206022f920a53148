package performance

import (
	"time"
)

type StaffReportResponse struct {
	StaffID     string      `json:"staff_id"`
	StaffName   string      `json:"staff_name"`
	Window      Window      `json:"window"`
	WindowStart *time.Time  `json:"window_start,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
	Report      ScoreReport `json:"report"`
}

type LeaderboardResponse struct {
	Window      Window             `json:"window"`
	WindowStart *time.Time         `json:"window_start,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
	Entries     []LeaderboardEntry `json:"entries"`
}
