package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *NominatimClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewNominatimClient(Config{BaseURL: srv.URL, Timeout: time.Second})
}

func TestReverse_BuildsShortAddressFromPlaceAndStreet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		require.NoError(t, err)
		assert.InDelta(t, -6.2, lat, 1e-6)
		w.Write([]byte(`{
			"display_name": "Trakby Head Office, 12, Sudirman Road, Jakarta, Indonesia",
			"address": {"office": "Trakby Head Office", "house_number": "12", "road": "Sudirman Road", "city": "Jakarta", "country": "Indonesia"}
		}`))
	})

	addr, err := client.Reverse(context.Background(), -6.2, 106.8)
	require.NoError(t, err)
	assert.Equal(t, "Trakby Head Office, 12 Sudirman Road", addr.ShortAddress)
	assert.Equal(t, "Trakby Head Office, 12, Sudirman Road, Jakarta, Indonesia", addr.FullAddress)
	require.NotNil(t, addr.BuildingHint)
	assert.Equal(t, "Trakby Head Office", *addr.BuildingHint)
}

func TestReverse_StreetOnlyHasNoBuildingHint(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"display_name": "12, Sudirman Road, Jakarta, Indonesia",
			"address": {"house_number": "12", "road": "Sudirman Road", "city": "Jakarta", "country": "Indonesia"}
		}`))
	})

	addr, err := client.Reverse(context.Background(), -6.2, 106.8)
	require.NoError(t, err)
	assert.Equal(t, "12 Sudirman Road", addr.ShortAddress)
	assert.Nil(t, addr.BuildingHint)
}

func TestReverse_FallsBackToDisplayName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"display_name": "Kebayoran Baru, South Jakarta, Jakarta, Indonesia",
			"address": {"suburb": "Kebayoran Baru", "city": "South Jakarta", "state": "Jakarta", "country": "Indonesia"}
		}`))
	})

	addr, err := client.Reverse(context.Background(), -6.24, 106.79)
	require.NoError(t, err)
	assert.Equal(t, "Kebayoran Baru, South Jakarta", addr.ShortAddress)
	assert.Nil(t, addr.BuildingHint)
}

func TestReverse_EmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.Reverse(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestReverse_UnableToGeocode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Unable to geocode"}`))
	})

	_, err := client.Reverse(context.Background(), 0, 0)
	assert.Error(t, err)
}

func TestReverse_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Reverse(context.Background(), 1, 1)
	assert.Error(t, err)
}

func TestReverse_HonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Reverse(ctx, 1, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Reverse(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrDisabled)
}
