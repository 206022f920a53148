package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trakby/trakby-backend-go/internal/domain/attendance"
	"github.com/trakby/trakby-backend-go/internal/domain/job"
	"github.com/trakby/trakby-backend-go/internal/domain/notification"
	"github.com/trakby/trakby-backend-go/internal/domain/performance"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
	"github.com/trakby/trakby-backend-go/internal/domain/tracking"
	"github.com/trakby/trakby-backend-go/internal/handler/http/response"
	"github.com/trakby/trakby-backend-go/internal/pkg/jwt"
)

type fakeAttendance struct {
	checkInReq attendance.CheckInRequest
	checkInErr error
}

func (f *fakeAttendance) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	f.checkInReq = req
	if f.checkInErr != nil {
		return attendance.AttendanceResponse{}, f.checkInErr
	}
	return attendance.AttendanceResponse{StaffID: req.StaffID, State: attendance.StateCheckedIn}, nil
}

func (f *fakeAttendance) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
}

func (f *fakeAttendance) Today(ctx context.Context, staffID string) (attendance.TodayResponse, error) {
	return attendance.TodayResponse{State: attendance.StateNotCheckedIn}, nil
}

func (f *fakeAttendance) GetMyAttendance(ctx context.Context, staffID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return attendance.ListAttendanceResponse{}, nil
}

func (f *fakeAttendance) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return attendance.ListAttendanceResponse{}, nil
}

type fakePerformance struct {
	lastStaffID string
	lastWindow  performance.Window
}

func (f *fakePerformance) GetStaffReport(ctx context.Context, staffID string, window performance.Window) (performance.StaffReportResponse, error) {
	f.lastStaffID, f.lastWindow = staffID, window
	return performance.StaffReportResponse{StaffID: staffID, Window: window}, nil
}

func (f *fakePerformance) GetLeaderboard(ctx context.Context, window performance.Window) (performance.LeaderboardResponse, error) {
	f.lastWindow = window
	return performance.LeaderboardResponse{Window: window}, nil
}

func (f *fakePerformance) GetDashboardSummary(ctx context.Context, window performance.Window) (performance.DashboardSummary, error) {
	return performance.DashboardSummary{Window: window}, nil
}

func (f *fakePerformance) Refresh(ctx context.Context) error { return nil }

func (f *fakePerformance) Invalidate(window performance.Window) {}

type fakeJobs struct {
	lastReq job.UpdateStatusRequest
}

func (f *fakeJobs) UpdateStatus(ctx context.Context, req job.UpdateStatusRequest) (job.JobResponse, error) {
	f.lastReq = req
	return job.JobResponse{ID: req.JobID, Status: req.Status}, nil
}

func (f *fakeJobs) ListMyJobs(ctx context.Context, staffID string) ([]job.JobResponse, error) {
	return nil, nil
}

type fakeTracking struct{}

func (fakeTracking) RecordPosition(ctx context.Context, req tracking.RecordPositionRequest) (tracking.PingResponse, error) {
	return tracking.PingResponse{StaffID: req.StaffID}, nil
}

func (fakeTracking) LatestPositions(ctx context.Context) ([]tracking.PingResponse, error) {
	return nil, nil
}

func (fakeTracking) History(ctx context.Context, filter tracking.HistoryFilter) (tracking.HistoryResponse, error) {
	return tracking.HistoryResponse{StaffID: filter.StaffID}, nil
}

type fakeStaff struct{}

func (fakeStaff) GetStaff(ctx context.Context, id string) (staff.StaffResponse, error) {
	return staff.StaffResponse{}, staff.ErrStaffNotFound
}

func (fakeStaff) ListStaff(ctx context.Context, filter staff.StaffFilter) (staff.ListStaffResponse, error) {
	return staff.ListStaffResponse{Page: 1, Limit: 20}, nil
}

type fakeNotifications struct {
	events chan notification.SSEEvent
}

func (f *fakeNotifications) NotifyAdmins(ctx context.Context, intent notification.Intent) error {
	return nil
}

func (f *fakeNotifications) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	return nil
}

func (f *fakeNotifications) GetNotifications(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	return &notification.NotificationListResponse{Page: page, PageSize: pageSize}, nil
}

func (f *fakeNotifications) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	return 3, nil
}

func (f *fakeNotifications) MarkAsRead(ctx context.Context, recipientID string, req notification.MarkAsReadRequest) error {
	return req.Validate()
}

func (f *fakeNotifications) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return nil
}

func (f *fakeNotifications) Subscribe(ctx context.Context, recipientID string) (<-chan notification.SSEEvent, func()) {
	return f.events, func() {}
}

func (f *fakeNotifications) Stop() {}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

type testAPI struct {
	handler     http.Handler
	jwt         jwt.Service
	attendance  *fakeAttendance
	performance *fakePerformance
	jobs        *fakeJobs
	notifs      *fakeNotifications
}

func newTestAPI(t *testing.T, pingErr error) *testAPI {
	t.Helper()
	jwtSvc, err := jwt.NewJWTService("router-test-secret", "1h")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	api := &testAPI{
		jwt:         jwtSvc,
		attendance:  &fakeAttendance{},
		performance: &fakePerformance{},
		jobs:        &fakeJobs{},
		notifs:      &fakeNotifications{events: make(chan notification.SSEEvent, 1)},
	}
	api.handler = NewRouter(ctx, RouterConfig{
		Env:                "test",
		Version:            "test",
		LogLevel:           slog.LevelError,
		CORSOrigins:        []string{"*"},
		RateLimitPerMinute: 60,
		RateLimitBurst:     2,
	}, jwtSvc, Handlers{
		Health:       NewHealthHandler(fakePinger{err: pingErr}),
		Attendance:   NewAttendanceHandler(api.attendance),
		Performance:  NewPerformanceHandler(api.performance),
		Job:          NewJobHandler(api.jobs),
		Tracking:     NewTrackingHandler(fakeTracking{}),
		Staff:        NewStaffHandler(fakeStaff{}),
		Notification: NewNotificationHandler(api.notifs, jwtSvc),
	})
	return api
}

func (a *testAPI) token(t *testing.T, staffID, role string) string {
	t.Helper()
	tok, _, err := a.jwt.GenerateAccessToken(staffID, role)
	require.NoError(t, err)
	return tok
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_Healthz(t *testing.T) {
	assert.Equal(t, http.StatusOK, newTestAPI(t, nil).do(http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, newTestAPI(t, errors.New("down")).do(http.MethodGet, "/healthz", "", nil).Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	api := newTestAPI(t, nil)
	rec := api.do(http.MethodGet, "/api/v1/attendance/today", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CheckInUsesTokenStaffID(t *testing.T) {
	api := newTestAPI(t, nil)
	lat, lon := -6.2, 106.8

	rec := api.do(http.MethodPost, "/api/v1/attendance/check-in", api.token(t, "staff-1", "staff"),
		map[string]interface{}{"latitude": lat, "longitude": lon, "staff_id": "someone-else"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "staff-1", api.attendance.checkInReq.StaffID)
	require.NotNil(t, api.attendance.checkInReq.Fix())
	assert.Equal(t, lat, api.attendance.checkInReq.Fix().Latitude)
}

func TestRouter_CheckInWithoutBodyReportsLocationUnavailable(t *testing.T) {
	api := newTestAPI(t, nil)
	api.attendance.checkInErr = attendance.ErrLocationUnavailable

	rec := api.do(http.MethodPost, "/api/v1/attendance/check-in", api.token(t, "staff-1", "staff"), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "LOCATION_UNAVAILABLE", decodeBody(t, rec).Error.Code)
	assert.Nil(t, api.attendance.checkInReq.Fix())
}

func TestRouter_CheckOutTwiceIsConflict(t *testing.T) {
	api := newTestAPI(t, nil)
	rec := api.do(http.MethodPost, "/api/v1/attendance/check-out", api.token(t, "staff-1", "staff"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_CheckInIsRateLimited(t *testing.T) {
	api := newTestAPI(t, nil)
	tok := api.token(t, "staff-1", "staff")

	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/attendance/check-in", tok, nil).Code)
	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/attendance/check-in", tok, nil).Code)
	rec := api.do(http.MethodPost, "/api/v1/attendance/check-in", tok, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRouter_AdminRoutes(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodGet, "/api/v1/performance/leaderboard", api.token(t, "staff-1", "staff"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/performance/leaderboard?window=week", api.token(t, "admin-1", "Admin"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, performance.WindowWeek, api.performance.lastWindow)

	rec = api.do(http.MethodGet, "/api/v1/staff/unknown", api.token(t, "admin-1", "admin"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PerformanceWindow(t *testing.T) {
	api := newTestAPI(t, nil)
	tok := api.token(t, "staff-1", "staff")

	rec := api.do(http.MethodGet, "/api/v1/performance/me", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "staff-1", api.performance.lastStaffID)
	assert.Equal(t, performance.WindowMonth, api.performance.lastWindow)

	rec = api.do(http.MethodGet, "/api/v1/performance/me?window=decade", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_JobStatusCarriesActor(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodPatch, "/api/v1/jobs/job-9/status", api.token(t, "admin-1", "admin"),
		map[string]string{"status": "completed"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, job.UpdateStatusRequest{JobID: "job-9", ActorID: "admin-1", IsAdmin: true, Status: "completed"}, api.jobs.lastReq)
}

func TestRouter_NotificationsMarkAsReadValidates(t *testing.T) {
	api := newTestAPI(t, nil)
	rec := api.do(http.MethodPost, "/api/v1/notifications/read", api.token(t, "admin-1", "admin"),
		map[string]interface{}{"notification_ids": []string{}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_NotificationStream(t *testing.T) {
	api := newTestAPI(t, nil)
	srv := httptest.NewServer(api.handler)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/api/v1/notifications/stream")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// an access token is not accepted on the stream
	res, err = http.Get(srv.URL + "/api/v1/notifications/stream?token=" + api.token(t, "admin-1", "admin"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	sseToken, _, err := api.jwt.GenerateSSEToken("admin-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/notifications/stream?token="+sseToken, nil)
	require.NoError(t, err)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	api.notifs.events <- notification.SSEEvent{
		Event: "notification",
		Data:  notification.NotificationResponse{ID: "n-1", Type: notification.TypeAttendanceCheckIn, Title: "Check-in"},
	}

	scanner := bufio.NewScanner(res.Body)
	var events []string
	for scanner.Scan() && len(events) < 2 {
		if line := scanner.Text(); strings.HasPrefix(line, "event: ") {
			events = append(events, strings.TrimPrefix(line, "event: "))
		}
	}
	assert.Equal(t, []string{"connected", "notification"}, events)
}
