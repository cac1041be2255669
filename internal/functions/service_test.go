package functions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/errx"
	"wedding-rsvp/internal/models"
)

type fakeStore struct {
	rsvps     map[string][]models.RSVP
	upserts   []models.PartialRSVP
	fetches   int
	fetchErr  error
	upsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rsvps: map[string][]models.RSVP{}}
}

func (f *fakeStore) GetRSVPs(_ context.Context, id string) ([]models.RSVP, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if r, ok := f.rsvps[id]; ok {
		return r, nil
	}
	return []models.RSVP{}, nil
}

func (f *fakeStore) UpsertRSVP(_ context.Context, p models.PartialRSVP) (*models.RSVP, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upserts = append(f.upserts, p)
	r := models.RSVP{ID: p.ID, Household: p.Household, Status: models.RSVPPending}
	if p.Status != nil {
		r.Status = *p.Status
	}
	return &r, nil
}

type fakeCache struct {
	entries     map[string][]models.RSVP
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]models.RSVP{}}
}

func (f *fakeCache) Get(_ context.Context, id string) ([]models.RSVP, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	r, ok := f.entries[id]
	return r, ok, nil
}

func (f *fakeCache) Set(_ context.Context, id string, rsvps []models.RSVP) error {
	f.entries[id] = rsvps
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, id string) error {
	f.invalidated = append(f.invalidated, id)
	delete(f.entries, id)
	return nil
}

type fakeNotifier struct {
	notified []models.RSVP
	err      error
}

func (f *fakeNotifier) NotifyRSVP(_ context.Context, r models.RSVP) error {
	f.notified = append(f.notified, r)
	return f.err
}

func TestService_FetchRSVPs_UnknownIsEmpty(t *testing.T) {
	svc := NewService(newFakeStore())

	got, err := svc.FetchRSVPs(context.Background(), "unknown")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_FetchRSVPs_RequiresID(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.FetchRSVPs(context.Background(), "")
	assert.True(t, errx.Is(err, errx.InvalidArgument))
}

func TestService_FetchRSVPs_StoreFailureIsInternal(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = errors.New("Intentional test error")
	svc := NewService(store)

	_, err := svc.FetchRSVPs(context.Background(), "id")
	require.Error(t, err)
	assert.True(t, errx.Is(err, errx.Internal))
	assert.ErrorIs(t, err, store.fetchErr)
}

func TestService_FetchRSVPs_UsesCache(t *testing.T) {
	store := newFakeStore()
	store.rsvps["X"] = []models.RSVP{{ID: "X"}}
	cache := newFakeCache()
	svc := NewService(store, WithCache(cache))
	ctx := context.Background()

	first, err := svc.FetchRSVPs(ctx, "X")
	require.NoError(t, err)
	second, err := svc.FetchRSVPs(ctx, "X")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.fetches)
}

func TestService_FetchRSVPs_CacheFailureFallsBackToStore(t *testing.T) {
	store := newFakeStore()
	store.rsvps["X"] = []models.RSVP{{ID: "X"}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	svc := NewService(store, WithCache(cache))

	got, err := svc.FetchRSVPs(context.Background(), "X")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, store.fetches)
}

func TestService_UpsertRSVP_InvalidatesAndNotifies(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	notifier := &fakeNotifier{}
	svc := NewService(store, WithCache(cache), WithNotifier(notifier))
	confirmed := models.RSVPConfirmed

	require.NoError(t, svc.UpsertRSVP(context.Background(), models.PartialRSVP{ID: "X", Status: &confirmed}))

	assert.Equal(t, []string{"X"}, cache.invalidated)
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, models.RSVPConfirmed, notifier.notified[0].Status)
}

func TestService_UpsertRSVP_NoStatusNoNotification(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(newFakeStore(), WithNotifier(notifier))
	email := "e"

	require.NoError(t, svc.UpsertRSVP(context.Background(), models.PartialRSVP{ID: "X", Email: &email}))
	assert.Empty(t, notifier.notified)
}

func TestService_UpsertRSVP_NotifierFailureIsNotFatal(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("not paired")}
	svc := NewService(newFakeStore(), WithNotifier(notifier))
	declined := models.RSVPDeclined

	assert.NoError(t, svc.UpsertRSVP(context.Background(), models.PartialRSVP{ID: "X", Status: &declined}))
}

func TestService_UpsertRSVP_Errors(t *testing.T) {
	svc := NewService(newFakeStore())
	err := svc.UpsertRSVP(context.Background(), models.PartialRSVP{})
	assert.True(t, errx.Is(err, errx.InvalidArgument))

	store := newFakeStore()
	store.upsertErr = errors.New("Intentional test error")
	svc = NewService(store)
	err = svc.UpsertRSVP(context.Background(), models.PartialRSVP{ID: "id"})
	assert.True(t, errx.Is(err, errx.Internal))
}

func TestValidator(t *testing.T) {
	ctx := context.Background()
	v := NewValidator(NewTokenVerifier([]string{"good", ""}), false)

	assert.NoError(t, v.Validate(ctx, "good"))
	assert.True(t, errx.Is(v.Validate(ctx, "bad"), errx.Unauthenticated))
	assert.True(t, errx.Is(v.Validate(ctx, ""), errx.Unauthenticated))

	disabled := NewValidator(nil, true)
	assert.NoError(t, disabled.Validate(ctx, ""))

	noVerifier := NewValidator(nil, false)
	assert.True(t, errx.Is(noVerifier.Validate(ctx, "good"), errx.Unauthenticated))
}
