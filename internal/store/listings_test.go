package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomscout-engine/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db.Pool))

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, 1, v)
}

func TestInsertAndSnapshot(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	price := 700.0
	l := domain.RawListing{
		Name:      "Sunrise Hostel",
		Location:  "Hilltop",
		Address:   "12 Campus Rd",
		RoomType:  "single",
		Amenities: []string{"WiFi", "Parking"},
		Tags:      []string{"verified"},
		Price:     &price,
		PriceUnit: domain.UnitMonth,
		Verified:  true,
		Images:    []string{"https://x/a.jpg"},
		Source:    "board",
		SourceID:  "board:https://x/1",
	}

	added, err := InsertListingIgnore(ctx, db.Pool, l)
	require.NoError(t, err)
	assert.True(t, added)

	got, err := Snapshot(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, l.Name, got[0].Name)
	assert.Equal(t, l.Amenities, got[0].Amenities)
	require.NotNil(t, got[0].Price)
	assert.Equal(t, price, *got[0].Price)
	assert.Equal(t, domain.UnitMonth, got[0].PriceUnit)
	assert.True(t, got[0].Verified)
	assert.False(t, got[0].NearCampus)
	assert.Equal(t, l.Images, got[0].Images)
	assert.Equal(t, l.SourceID, got[0].SourceID)
}

func TestInsertIgnoresDuplicateSourceID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	l := domain.RawListing{Name: "A", SourceID: "feed:x:1"}
	added, err := InsertListingIgnore(ctx, db.Pool, l)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = InsertListingIgnore(ctx, db.Pool, l)
	require.NoError(t, err)
	assert.False(t, added)

	got, err := Snapshot(ctx, db.Pool)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestEmptySourceIDNeverCollides(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B"} {
		added, err := InsertListingIgnore(ctx, db.Pool, domain.RawListing{Name: name})
		require.NoError(t, err)
		assert.True(t, added)
	}

	got, err := Snapshot(ctx, db.Pool)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNilPriceRoundTrips(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := InsertListingIgnore(ctx, db.Pool, domain.RawListing{Name: "No Price"})
	require.NoError(t, err)

	got, err := Snapshot(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Price)
}

func TestDeleteListing(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := InsertListingIgnore(ctx, db.Pool, domain.RawListing{Name: "Doomed"})
	require.NoError(t, err)

	got, err := Snapshot(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, got, 1)

	var id int64
	require.NoError(t, db.Pool.QueryRow(`SELECT id FROM listings LIMIT 1;`).Scan(&id))
	require.NoError(t, DeleteListing(ctx, db.Pool, id))

	got, err = Snapshot(ctx, db.Pool)
	require.NoError(t, err)
	assert.Empty(t, got)
}
