package board

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomscout-engine/internal/config"
	"roomscout-engine/internal/ingest/util"
)

const boardPage = `
<html><body>
<div class="listing-card">
  <h2>Sunrise Hostel</h2>
  <span class="location">Hilltop</span>
  <span class="room-type">single</span>
  <div class="price">GHS 700 / month</div>
  <ul class="amenities"><li>WiFi</li><li>Parking</li></ul>
  <img src="/img/a.jpg">
  <a href="/listings/1">details</a>
</div>
<div class="listing-card">
  <h2>Green Park Flat</h2>
  <div class="price">call us</div>
  <a href="https://other.example.com/2">details</a>
</div>
<div class="listing-card">
  <!-- no name: skipped -->
  <div class="price">500</div>
</div>
</body></html>`

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBoardFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(boardPage))
	}))
	defer srv.Close()

	f := New([]config.Board{{Name: "test-board", URL: srv.URL}}, util.NewHostLimiter(100, 10), testLogger())
	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "board", res.Source)
	require.Len(t, res.Listings, 2)

	first := res.Listings[0]
	assert.Equal(t, "Sunrise Hostel", first.Name)
	assert.Equal(t, "Hilltop", first.Location)
	assert.Equal(t, "single", first.RoomType)
	assert.Equal(t, []string{"WiFi", "Parking"}, first.Amenities)
	require.NotNil(t, first.Price)
	assert.Equal(t, 700.0, *first.Price)
	assert.Equal(t, "board", first.Source)
	assert.Equal(t, []string{"/img/a.jpg"}, first.Images)
	assert.Equal(t, "board:"+srv.URL+"/listings/1", first.SourceID)

	second := res.Listings[1]
	assert.Equal(t, "Green Park Flat", second.Name)
	assert.Nil(t, second.Price)
	assert.Equal(t, "board:https://other.example.com/2", second.SourceID)
}

func TestBoardFetchToleratesFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(boardPage))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	f := New([]config.Board{
		{Name: "down", URL: bad.URL},
		{Name: "up", URL: good.URL},
	}, util.NewHostLimiter(100, 10), testLogger())

	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Listings, 2)
}

func TestInferUnit(t *testing.T) {
	assert.Equal(t, "month", string(inferUnit("GHS 700 / month")))
	assert.Equal(t, "night", string(inferUnit("$30 per night")))
	assert.Equal(t, "semester", string(inferUnit("1200 / semester")))
	assert.Equal(t, "", string(inferUnit("700")))
}
