package performance

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trakby/trakby-backend-go/internal/domain/attendance"
	"github.com/trakby/trakby-backend-go/internal/domain/job"
)

var base = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func makeJob(status job.Status, label string, started, completed bool) job.Job {
	j := job.Job{ID: "j", Status: status, JobTypeLabel: label, CreatedAt: base}
	if started {
		j.StartedAt = ptr(base.Add(time.Hour))
	}
	if completed {
		j.CompletedAt = ptr(base.Add(2 * time.Hour))
	}
	return j
}

func checkInAt(day, hour, min, sec int) attendance.Record {
	t := time.Date(2024, 5, day, hour, min, sec, 0, time.UTC)
	return attendance.Record{StaffID: "s1", Date: attendance.CalendarDate(t, time.UTC), CheckInTime: &t}
}

func TestComputeScore_ScenarioA(t *testing.T) {
	var jobs []job.Job
	for i := 0; i < 6; i++ {
		jobs = append(jobs, makeJob(job.StatusCompleted, "Plumbing", true, true))
	}
	jobs = append(jobs,
		makeJob(job.StatusInProgress, "Electrical", true, false),
		makeJob(job.StatusInProgress, "Electrical", true, false),
		makeJob(job.StatusPending, "Electrical", false, false),
		makeJob(job.StatusPending, "", false, false),
	)

	records := []attendance.Record{
		checkInAt(6, 8, 45, 0),
		checkInAt(7, 8, 59, 0),
		checkInAt(8, 9, 0, 30),
		checkInAt(9, 9, 15, 0),
		checkInAt(10, 10, 0, 0),
	}

	r := ComputeScore(ScoreInput{StaffID: "s1", Jobs: jobs, Attendance: records, PhotoCount: 4})

	assert.Equal(t, 36, r.ScoreJobs)
	assert.Equal(t, 12, r.ScorePunctuality)
	assert.Equal(t, 7, r.ScorePhotos)
	assert.Equal(t, 8, r.ScoreProcess)
	assert.Equal(t, 63, r.EfficiencyScore)

	assert.InDelta(t, 0.6, r.CompletionRate, 1e-9)
	assert.InDelta(t, 0.6, r.OnTimeArrivalRate, 1e-9)
	assert.Equal(t, "60%", r.OnTimeArrivalPercent)
	assert.Equal(t, 3, r.OnTimeArrivals)
	assert.Equal(t, 5, r.CheckIns)
	assert.Equal(t, "Plumbing", r.TopSkill)

	require.NotNil(t, r.AvgJobDurationMinutes)
	assert.InDelta(t, 60, *r.AvgJobDurationMinutes, 1e-9)
	assert.Equal(t, "1h 0m", r.AvgJobDuration)
}

func TestComputeScore_ScenarioB_EmptyInput(t *testing.T) {
	r := ComputeScore(ScoreInput{StaffID: "new"})

	assert.Zero(t, r.ScoreJobs)
	assert.Zero(t, r.ScorePunctuality)
	assert.Zero(t, r.ScorePhotos)
	assert.Zero(t, r.ScoreProcess)
	assert.Zero(t, r.EfficiencyScore)
	assert.Equal(t, NotAvailable, r.AvgJobDuration)
	assert.Nil(t, r.AvgJobDurationMinutes)
	assert.Equal(t, NotAvailable, r.TopSkill)
	assert.Equal(t, "0%", r.OnTimeArrivalPercent)
}

func TestComputeScore_PhotosWithoutCompletedJobs(t *testing.T) {
	r := ComputeScore(ScoreInput{
		Jobs:       []job.Job{makeJob(job.StatusPending, "", false, false)},
		PhotoCount: 12,
	})
	assert.Zero(t, r.ScorePhotos)
}

func TestComputeScore_PhotoRateIsCapped(t *testing.T) {
	r := ComputeScore(ScoreInput{
		Jobs:       []job.Job{makeJob(job.StatusCompleted, "", true, true)},
		PhotoCount: 5,
	})
	assert.Equal(t, WeightPhotos, r.ScorePhotos)
	assert.Equal(t, 100, r.EfficiencyScore)
}

func TestComputeScore_SkipsRecordsWithoutCheckIn(t *testing.T) {
	r := ComputeScore(ScoreInput{
		Attendance: []attendance.Record{{StaffID: "s1", Date: base}, checkInAt(6, 8, 0, 0)},
	})
	assert.Equal(t, 1, r.CheckIns)
	assert.Equal(t, WeightPunctuality, r.ScorePunctuality)
}

func TestComputeScore_PunctualityUsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 01:30 UTC is 08:30 in UTC+7
	rec := checkInAt(6, 1, 30, 0)

	assert.Equal(t, WeightPunctuality, ComputeScore(ScoreInput{Attendance: []attendance.Record{rec}, Location: jakarta}).ScorePunctuality)

	// 02:30 UTC is 09:30 in UTC+7
	late := checkInAt(6, 2, 30, 0)
	assert.Zero(t, ComputeScore(ScoreInput{Attendance: []attendance.Record{late}, Location: jakarta}).ScorePunctuality)
}

func TestComputeScore_WindowStartFiltersJobsAndAttendance(t *testing.T) {
	old := makeJob(job.StatusPending, "Old", false, false)
	old.CreatedAt = base.AddDate(0, 0, -30)
	recent := makeJob(job.StatusCompleted, "New", true, true)

	oldRecord := checkInAt(1, 11, 0, 0)
	recentRecord := checkInAt(6, 8, 0, 0)

	r := ComputeScore(ScoreInput{
		Jobs:        []job.Job{old, recent},
		Attendance:  []attendance.Record{oldRecord, recentRecord},
		PhotoCount:  1,
		WindowStart: ptr(base.Add(-time.Hour)),
	})

	assert.Equal(t, 1, r.TotalJobs)
	assert.Equal(t, 1, r.CheckIns)
	assert.Equal(t, 100, r.EfficiencyScore)
	assert.Equal(t, "New", r.TopSkill)
}

func TestComputeScore_RoundsSubScoresIndependently(t *testing.T) {
	// 1 of 3 completed: 20 jobs points; 1 of 3 started: 3.33 -> 3 process points.
	jobs := []job.Job{
		makeJob(job.StatusCompleted, "", true, true),
		makeJob(job.StatusPending, "", false, false),
		makeJob(job.StatusPending, "", false, false),
	}
	r := ComputeScore(ScoreInput{Jobs: jobs})
	assert.Equal(t, 20, r.ScoreJobs)
	assert.Equal(t, 3, r.ScoreProcess)
	assert.Equal(t, 23, r.EfficiencyScore)
}

func TestTopSkillTieBreaksAlphabetically(t *testing.T) {
	jobs := []job.Job{
		makeJob(job.StatusPending, "Welding", false, false),
		makeJob(job.StatusPending, "Carpentry", false, false),
		makeJob(job.StatusPending, "Welding", false, false),
		makeJob(job.StatusPending, "Carpentry", false, false),
	}
	assert.Equal(t, "Carpentry", ComputeScore(ScoreInput{Jobs: jobs}).TopSkill)
}

func TestIsOnTime(t *testing.T) {
	at := func(h, m, s int) time.Time { return time.Date(2024, 5, 6, h, m, s, 0, time.UTC) }

	assert.True(t, IsOnTime(at(8, 59, 59), time.UTC))
	assert.True(t, IsOnTime(at(9, 0, 0), time.UTC))
	assert.True(t, IsOnTime(at(9, 0, 59), time.UTC))
	assert.False(t, IsOnTime(at(9, 1, 0), time.UTC))
	assert.False(t, IsOnTime(at(14, 0, 0), time.UTC))
}

func TestComputeScore_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	statuses := []job.Status{job.StatusPending, job.StatusInProgress, job.StatusCompleted, job.StatusCancelled}

	for i := 0; i < 500; i++ {
		var jobs []job.Job
		for n := rng.Intn(20); n > 0; n-- {
			st := statuses[rng.Intn(len(statuses))]
			started := st == job.StatusInProgress || st == job.StatusCompleted
			jobs = append(jobs, makeJob(st, "", started, st == job.StatusCompleted))
		}
		var records []attendance.Record
		for n := rng.Intn(10); n > 0; n-- {
			records = append(records, checkInAt(1+rng.Intn(28), rng.Intn(24), rng.Intn(60), rng.Intn(60)))
		}

		r := ComputeScore(ScoreInput{Jobs: jobs, Attendance: records, PhotoCount: rng.Intn(30)})

		assert.True(t, r.ScoreJobs >= 0 && r.ScoreJobs <= WeightJobs)
		assert.True(t, r.ScorePunctuality >= 0 && r.ScorePunctuality <= WeightPunctuality)
		assert.True(t, r.ScorePhotos >= 0 && r.ScorePhotos <= WeightPhotos)
		assert.True(t, r.ScoreProcess >= 0 && r.ScoreProcess <= WeightProcess)
		assert.Equal(t, r.ScoreJobs+r.ScorePunctuality+r.ScorePhotos+r.ScoreProcess, r.EfficiencyScore)
		assert.LessOrEqual(t, r.EfficiencyScore, 100)
	}
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("")
	require.NoError(t, err)
	assert.Equal(t, WindowMonth, w)

	w, err = ParseWindow("WEEK")
	require.NoError(t, err)
	assert.Equal(t, WindowWeek, w)

	_, err = ParseWindow("decade")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, -7), *WindowWeek.Start(now))
	assert.Equal(t, now.AddDate(0, -1, 0), *WindowMonth.Start(now))
	assert.Equal(t, now.AddDate(-1, 0, 0), *WindowYear.Start(now))
	assert.Nil(t, WindowAll.Start(now))
}
