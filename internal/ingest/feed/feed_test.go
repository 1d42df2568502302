package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomscout-engine/internal/config"
	"roomscout-engine/internal/ingest/util"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDecodeRecords(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		got, err := decodeRecords(strings.NewReader(`[{"name":"A"},{"name":"B"}]`))
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("wrapper keys", func(t *testing.T) {
		for _, body := range []string{
			`{"listings":[{"name":"A"}]}`,
			`{"data":[{"name":"A"}]}`,
			`{"results":[{"name":"A"}]}`,
			`{"items":[{"name":"A"}]}`,
		} {
			got, err := decodeRecords(strings.NewReader(body))
			require.NoError(t, err, body)
			assert.Len(t, got, 1, body)
		}
	})

	t.Run("unknown wrapper yields nothing", func(t *testing.T) {
		got, err := decodeRecords(strings.NewReader(`{"other":[{"name":"A"}]}`))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("garbage is an error", func(t *testing.T) {
		_, err := decodeRecords(strings.NewReader(`not json`))
		assert.Error(t, err)
	})
}

func TestFeedFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"listings":[
			{"id":"l1","name":"Sunrise Hostel","location":"Hilltop","price":700},
			{"name":"No ID Flat","monthly_rent":"GHS 950"},
			{"location":"nameless, skipped"}
		]}`))
	}))
	defer srv.Close()

	f := New([]config.Feed{{Name: "campus", URL: srv.URL}}, util.NewHostLimiter(100, 10), testLogger())
	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "feed", res.Source)
	require.Len(t, res.Listings, 2)

	byName := map[string]int{}
	for i, l := range res.Listings {
		byName[l.Name] = i
	}

	first := res.Listings[byName["Sunrise Hostel"]]
	assert.Equal(t, "feed", first.Source)
	assert.Equal(t, "feed:campus:l1", first.SourceID)
	require.NotNil(t, first.Price)
	assert.Equal(t, 700.0, *first.Price)

	second := res.Listings[byName["No ID Flat"]]
	assert.Equal(t, "feed:campus:No ID Flat", second.SourceID)
	require.NotNil(t, second.Price)
	assert.Equal(t, 950.0, *second.Price)
}

func TestFeedFetchToleratesFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"A"}]`))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	f := New([]config.Feed{
		{Name: "down", URL: bad.URL},
		{Name: "up", URL: good.URL},
	}, util.NewHostLimiter(100, 10), testLogger())

	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Listings, 1)
}
