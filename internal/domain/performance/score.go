package performance

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/trakby/trakby-backend-go/internal/domain/attendance"
)

// ComputeScore scores one staff member. It performs no I/O and never fails:
// empty input yields a zero report.
func ComputeScore(in ScoreInput) ScoreReport {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	r := ScoreReport{
		StaffID:              in.StaffID,
		PhotoCount:           in.PhotoCount,
		AvgJobDuration:       NotAvailable,
		OnTimeArrivalPercent: "0%",
		TopSkill:             NotAvailable,
	}

	var (
		durationSum   time.Duration
		durationCount int
		labels        = make(map[string]int)
	)
	for _, j := range in.Jobs {
		if in.WindowStart != nil && j.CreatedAt.Before(*in.WindowStart) {
			continue
		}
		r.TotalJobs++
		if j.IsCompleted() {
			r.CompletedJobs++
		}
		if j.WasStarted() {
			r.StartedJobs++
		}
		if d, ok := j.Duration(); ok {
			durationSum += d
			durationCount++
		}
		if j.JobTypeLabel != "" {
			labels[j.JobTypeLabel]++
		}
	}

	for _, a := range in.Attendance {
		if in.WindowStart != nil && !onOrAfterDay(a.Date, *in.WindowStart) {
			continue
		}
		if a.CheckInTime == nil {
			continue
		}
		r.CheckIns++
		if IsOnTime(*a.CheckInTime, loc) {
			r.OnTimeArrivals++
		}
	}

	r.CompletionRate = ratio(r.CompletedJobs, r.TotalJobs)
	r.OnTimeArrivalRate = ratio(r.OnTimeArrivals, r.CheckIns)

	photoRate := 0.0
	if r.CompletedJobs > 0 {
		photoRate = math.Min(float64(in.PhotoCount)/float64(r.CompletedJobs), 1)
	}

	// each sub-score is rounded on its own before summing
	r.ScoreJobs = weighted(r.CompletionRate, WeightJobs)
	r.ScorePunctuality = weighted(r.OnTimeArrivalRate, WeightPunctuality)
	r.ScorePhotos = weighted(photoRate, WeightPhotos)
	r.ScoreProcess = weighted(ratio(r.StartedJobs, r.TotalJobs), WeightProcess)
	r.EfficiencyScore = r.ScoreJobs + r.ScorePunctuality + r.ScorePhotos + r.ScoreProcess

	if durationCount > 0 {
		avg := durationSum.Minutes() / float64(durationCount)
		r.AvgJobDurationMinutes = &avg
		r.AvgJobDuration = formatMinutes(avg)
	}
	r.OnTimeArrivalPercent = fmt.Sprintf("%d%%", int(math.Round(r.OnTimeArrivalRate*100)))
	r.TopSkill = topLabel(labels)

	return r
}

// IsOnTime reports whether a check-in at t counts as punctual when read in loc.
func IsOnTime(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	return local.Hour() < PunctualityCutoffHour ||
		(local.Hour() == PunctualityCutoffHour && local.Minute() == 0)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func weighted(rate float64, weight int) int {
	return int(math.Round(rate * float64(weight)))
}

func formatMinutes(m float64) string {
	return attendance.FormatDuration(time.Duration(math.Round(m)) * time.Minute)
}

// topLabel picks the most frequent label, breaking ties alphabetically.
func topLabel(counts map[string]int) string {
	if len(counts) == 0 {
		return NotAvailable
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	best := labels[0]
	for _, l := range labels[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best
}
