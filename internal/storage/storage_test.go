package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/models"
)

func createTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "nested", "rsvps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func TestUpsertRSVP_CreatesWithDefaults(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	got, err := s.UpsertRSVP(ctx, models.PartialRSVP{ID: "place-1", Email: ptr("a@b.c")})
	require.NoError(t, err)
	assert.Equal(t, "place-1", got.ID)
	assert.Equal(t, "a@b.c", got.Email)
	assert.Equal(t, models.RSVPPending, got.Status)
	assert.Empty(t, got.Guests)
}

func TestUpsertRSVP_MergeKeepsUntouchedFields(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	guests := []models.Guest{{Name: "Milo"}, {Name: "Huck", MealChoice: models.MealVegan}}
	_, err := s.UpsertRSVP(ctx, models.PartialRSVP{
		ID:     "X",
		Email:  ptr("E"),
		Guests: &guests,
	})
	require.NoError(t, err)

	_, err = s.UpsertRSVP(ctx, models.PartialRSVP{ID: "X", Status: ptr(models.RSVPConfirmed)})
	require.NoError(t, err)

	rsvps, err := s.GetRSVPs(ctx, "X")
	require.NoError(t, err)
	require.Len(t, rsvps, 1)
	got := rsvps[0]
	assert.Equal(t, "E", got.Email)
	assert.Equal(t, guests, got.Guests)
	assert.Equal(t, models.RSVPConfirmed, got.Status)
}

func TestUpsertRSVP_ArraysReplace(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	first := []models.Guest{{Name: "Milo"}, {Name: "Huck"}}
	second := []models.Guest{{Name: "Ollie"}}
	_, err := s.UpsertRSVP(ctx, models.PartialRSVP{ID: "X", Guests: &first})
	require.NoError(t, err)
	got, err := s.UpsertRSVP(ctx, models.PartialRSVP{ID: "X", Guests: &second})
	require.NoError(t, err)

	assert.Equal(t, second, got.Guests)
}

func TestGetRSVPs(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	got, err := s.GetRSVPs(ctx, "unknown")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = s.UpsertRSVP(ctx, models.PartialRSVP{ID: "X", Household: 1, Email: ptr("second")})
	require.NoError(t, err)
	_, err = s.UpsertRSVP(ctx, models.PartialRSVP{ID: "X", Email: ptr("first")})
	require.NoError(t, err)
	_, err = s.UpsertRSVP(ctx, models.PartialRSVP{ID: "Y", Email: ptr("other")})
	require.NoError(t, err)

	got, err = s.GetRSVPs(ctx, "X")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Email)
	assert.Equal(t, 0, got[0].Household)
	assert.Equal(t, "second", got[1].Email)
	assert.Equal(t, 1, got[1].Household)
}

func TestGetRSVPsByStatus(t *testing.T) {
	s := createTestStorage(t)
	ctx := context.Background()

	_, err := s.UpsertRSVP(ctx, models.PartialRSVP{ID: "A", Status: ptr(models.RSVPConfirmed)})
	require.NoError(t, err)
	_, err = s.UpsertRSVP(ctx, models.PartialRSVP{ID: "B"})
	require.NoError(t, err)
	_, err = s.UpsertRSVP(ctx, models.PartialRSVP{ID: "C", Status: ptr(models.RSVPDeclined)})
	require.NoError(t, err)

	pending, err := s.GetRSVPsByStatus(ctx, models.RSVPPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "B", pending[0].ID)

	all, err := s.GetAllRSVPs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestNewStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rsvps.db")
	s, err := NewStorage(path)
	require.NoError(t, err)
	_, err = s.UpsertRSVP(context.Background(), models.PartialRSVP{ID: "A", Email: ptr("kept")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStorage(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetRSVPs(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Email)
}

func TestMerge_NestedObjects(t *testing.T) {
	dst := map[string]any{
		"a": 1.0,
		"nested": map[string]any{"keep": true, "over": "old"},
	}
	Merge(dst, map[string]any{
		"b":      "new",
		"nested": map[string]any{"over": "new"},
	})

	assert.Equal(t, map[string]any{
		"a":      1.0,
		"b":      "new",
		"nested": map[string]any{"keep": true, "over": "new"},
	}, dst)
}
