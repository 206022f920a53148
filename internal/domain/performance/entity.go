package performance

import (
	"time"

	"github.com/trakby/trakby-backend-go/internal/domain/attendance"
	"github.com/trakby/trakby-backend-go/internal/domain/job"
	"github.com/trakby/trakby-backend-go/internal/domain/photo"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
)

// Sub-score weights. They sum to 100.
const (
	WeightJobs        = 60
	WeightPunctuality = 20
	WeightPhotos      = 10
	WeightProcess     = 10
)

// An arrival is on time when it is before PunctualityCutoffHour:00 or within
// its first minute.
const PunctualityCutoffHour = 9

const NotAvailable = "N/A"

// ScoreInput is the per-staff snapshot handed to ComputeScore.
type ScoreInput struct {
	StaffID    string
	Jobs       []job.Job
	Attendance []attendance.Record
	PhotoCount int

	// WindowStart drops jobs and attendance before it. Photos must already be counted within the window.
	WindowStart *time.Time

	// Location is used to read check-in hour and minute. nil means UTC.
	Location *time.Location
}

// ScoreReport is derived on demand and never persisted.
type ScoreReport struct {
	StaffID string `json:"staff_id"`

	ScoreJobs        int `json:"score_jobs"`
	ScorePunctuality int `json:"score_punctuality"`
	ScorePhotos      int `json:"score_photos"`
	ScoreProcess     int `json:"score_process"`
	EfficiencyScore  int `json:"efficiency_score"`

	TotalJobs      int `json:"total_jobs"`
	CompletedJobs  int `json:"completed_jobs"`
	StartedJobs    int `json:"started_jobs"`
	CheckIns       int `json:"check_ins"`
	OnTimeArrivals int `json:"on_time_arrivals"`
	PhotoCount     int `json:"photo_count"`

	CompletionRate        float64  `json:"completion_rate"`
	AvgJobDurationMinutes *float64 `json:"avg_job_duration_minutes"`
	AvgJobDuration        string   `json:"avg_job_duration"`
	OnTimeArrivalRate     float64  `json:"on_time_arrival_rate"`
	OnTimeArrivalPercent  string   `json:"on_time_arrival_percent"`
	TopSkill              string   `json:"top_skill"`
}

// Snapshot is the raw data for one staff member.
type Snapshot struct {
	Staff      staff.Member
	Jobs       []job.Job
	Attendance []attendance.Record
	Photos     []photo.Photo
}

// Within returns a copy restricted to start. Jobs and photos are kept when
// created at or after start, attendance when its calendar date is on or after
// start's calendar date.
func (s Snapshot) Within(start *time.Time) Snapshot {
	if start == nil {
		return s
	}
	out := Snapshot{Staff: s.Staff}
	for _, j := range s.Jobs {
		if !j.CreatedAt.Before(*start) {
			out.Jobs = append(out.Jobs, j)
		}
	}
	for _, r := range s.Attendance {
		if onOrAfterDay(r.Date, *start) {
			out.Attendance = append(out.Attendance, r)
		}
	}
	for _, p := range s.Photos {
		if !p.CreatedAt.Before(*start) {
			out.Photos = append(out.Photos, p)
		}
	}
	return out
}

// Input builds the ComputeScore input for this snapshot.
func (s Snapshot) Input(start *time.Time, loc *time.Location) ScoreInput {
	w := s.Within(start)
	return ScoreInput{
		StaffID:     s.Staff.ID,
		Jobs:        w.Jobs,
		Attendance:  w.Attendance,
		PhotoCount:  len(w.Photos),
		WindowStart: start,
		Location:    loc,
	}
}

// onOrAfterDay compares calendar dates using the wall-clock date of start.
func onOrAfterDay(date, start time.Time) bool {
	return !date.Before(time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, date.Location()))
}

type LeaderboardEntry struct {
	Rank      int         `json:"rank"`
	StaffID   string      `json:"staff_id"`
	StaffName string      `json:"staff_name"`
	Report    ScoreReport `json:"report"`
}

type DashboardSummary struct {
	Window            Window  `json:"window"`
	StaffCount        int     `json:"staff_count"`
	AverageEfficiency float64 `json:"average_efficiency"`
	TotalJobs         int     `json:"total_jobs"`
	CompletedJobs     int     `json:"completed_jobs"`
	TotalPhotos       int     `json:"total_photos"`
	OnTimeArrivalRate float64 `json:"on_time_arrival_rate"`

	TopPerformer *LeaderboardEntry `json:"top_performer,omitempty"`
}
