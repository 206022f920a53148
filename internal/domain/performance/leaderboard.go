package performance

import (
	"sort"
	"time"

	"github.com/trakby/trakby-backend-go/internal/domain/attendance"
	"github.com/trakby/trakby-backend-go/internal/domain/job"
	"github.com/trakby/trakby-backend-go/internal/domain/photo"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
)

// GroupByStaff buckets jobs by assignee, attendance by staff and photos by
// uploader. Rows belonging to nobody in members are dropped.
func GroupByStaff(members []staff.Member, jobs []job.Job, records []attendance.Record, photos []photo.Photo) map[string]Snapshot {
	out := make(map[string]Snapshot, len(members))
	for _, m := range members {
		out[m.ID] = Snapshot{Staff: m}
	}

	for _, j := range jobs {
		if j.AssignedTo == nil {
			continue
		}
		if s, ok := out[*j.AssignedTo]; ok {
			s.Jobs = append(s.Jobs, j)
			out[*j.AssignedTo] = s
		}
	}
	for _, r := range records {
		if s, ok := out[r.StaffID]; ok {
			s.Attendance = append(s.Attendance, r)
			out[r.StaffID] = s
		}
	}
	for _, p := range photos {
		if s, ok := out[p.UploadedBy]; ok {
			s.Photos = append(s.Photos, p)
			out[p.UploadedBy] = s
		}
	}
	return out
}

// BuildLeaderboard scores every snapshot independently and ranks them by
// efficiency, highest first. Equal scores keep the input order.
func BuildLeaderboard(snapshots []Snapshot, start *time.Time, loc *time.Location) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(snapshots))
	for i, s := range snapshots {
		entries[i] = LeaderboardEntry{
			StaffID:   s.Staff.ID,
			StaffName: s.Staff.Name,
			Report:    ComputeScore(s.Input(start, loc)),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Report.EfficiencyScore > entries[j].Report.EfficiencyScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Summarize aggregates team-level figures from a ranked leaderboard.
func Summarize(window Window, entries []LeaderboardEntry) DashboardSummary {
	sum := DashboardSummary{Window: window, StaffCount: len(entries)}
	if len(entries) == 0 {
		return sum
	}

	var efficiency, checkIns, onTime int
	for _, e := range entries {
		efficiency += e.Report.EfficiencyScore
		sum.TotalJobs += e.Report.TotalJobs
		sum.CompletedJobs += e.Report.CompletedJobs
		sum.TotalPhotos += e.Report.PhotoCount
		checkIns += e.Report.CheckIns
		onTime += e.Report.OnTimeArrivals
	}
	sum.AverageEfficiency = float64(efficiency) / float64(len(entries))
	sum.OnTimeArrivalRate = ratio(onTime, checkIns)

	top := entries[0]
	sum.TopPerformer = &top
	return sum
}
