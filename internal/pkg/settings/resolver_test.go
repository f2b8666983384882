package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/app/repository/repositorytest"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func version(n int, from time.Time, to *time.Time, withholding models.Rate) models.CommissionSettings {
	return models.CommissionSettings{
		ID: uint(n), Version: n, ValidFrom: from, ValidTo: to,
		MinimumPayable: 5000, WithholdingTaxRate: withholding, NonInvoiceDeductionRate: 200,
		Tier1FromTier2Rate: 200, Tier2FromTier3Rate: 150, Tier3FromTier4Rate: 100,
	}
}

func TestResolve(t *testing.T) {
	end := day(2026, 7, 1)
	store := repositorytest.NewStore()
	store.Settings = []models.CommissionSettings{
		version(1, day(2026, 1, 1), &end, 1000),
		version(2, day(2026, 7, 1), nil, 1100),
		version(3, day(2026, 6, 1), nil, 1200),
	}
	r := NewResolver(store.Repositories().Settings)

	tests := []struct {
		name        string
		at          time.Time
		wantVersion int
	}{
		{"before every version", day(2025, 12, 31), 0},
		{"first window", day(2026, 3, 1), 1},
		{"overlap picks highest", day(2026, 6, 15), 3},
		{"end exclusive", day(2026, 7, 1), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := r.Resolve(context.Background(), tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, snap.Version)
		})
	}

	snap, err := r.Resolve(context.Background(), day(2025, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettingsSnapshot(), snap)
}

func TestResolveWithoutDefaults(t *testing.T) {
	store := repositorytest.NewStore()
	r := NewResolver(store.Repositories().Settings, WithoutDefaults())

	_, err := r.Resolve(context.Background(), day(2026, 1, 1))
	assert.ErrorIs(t, err, ErrNoSettings)
}

func TestResolveStorageError(t *testing.T) {
	store := repositorytest.NewStore()
	store.ListSettingsErr = errors.New("too many connections")
	r := NewResolver(store.Repositories().Settings)

	_, err := r.Resolve(context.Background(), day(2026, 1, 1))
	assert.ErrorIs(t, err, store.ListSettingsErr)
}

func newCache(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestResolveUsesCache(t *testing.T) {
	mr, client := newCache(t)
	store := repositorytest.NewStore()
	store.Settings = []models.CommissionSettings{version(1, day(2026, 1, 1), nil, 1000)}
	r := NewResolver(store.Repositories().Settings, WithCache(client))
	ctx := context.Background()

	snap, err := r.Resolve(ctx, day(2026, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)
	assert.True(t, mr.Exists(CacheKeyVersions))

	store.ListSettingsErr = errors.New("database down")
	snap, err = r.Resolve(ctx, day(2026, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)
}

func TestPublish(t *testing.T) {
	mr, client := newCache(t)
	store := repositorytest.NewStore()
	store.Settings = []models.CommissionSettings{version(1, day(2026, 1, 1), nil, 1000)}
	store.Settings[0].IsActive = true
	r := NewResolver(store.Repositories().Settings, WithCache(client))
	ctx := context.Background()

	_, err := r.History(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(CacheKeyVersions))

	next := version(0, day(2026, 10, 1), nil, 1500)
	next.ID = 0
	published, err := r.Publish(ctx, next, " alice ")
	require.NoError(t, err)
	assert.Equal(t, 2, published.Version)
	assert.Equal(t, "alice", published.CreatedBy)
	assert.True(t, published.IsActive)
	assert.False(t, mr.Exists(CacheKeyVersions))

	history, err := r.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Version)
	require.NotNil(t, history[1].ValidTo)
	assert.Equal(t, day(2026, 10, 1), *history[1].ValidTo)
	assert.False(t, history[1].IsActive)

	before, err := r.Resolve(ctx, day(2026, 9, 30))
	require.NoError(t, err)
	assert.Equal(t, models.Rate(1000), before.WithholdingTaxRate)
	after, err := r.Resolve(ctx, day(2026, 10, 1))
	require.NoError(t, err)
	assert.Equal(t, models.Rate(1500), after.WithholdingTaxRate)
}

func TestPublishRejectsInvalidInput(t *testing.T) {
	store := repositorytest.NewStore()
	r := NewResolver(store.Repositories().Settings)
	ctx := context.Background()

	_, err := r.Publish(ctx, version(0, day(2026, 1, 1), nil, 1000), "  ")
	assert.Error(t, err)

	bad := version(0, day(2026, 1, 1), nil, 20000)
	_, err = r.Publish(ctx, bad, "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Empty(t, store.Settings)
}

func TestPublishRejectsBackdatedVersion(t *testing.T) {
	store := repositorytest.NewStore()
	r := NewResolver(store.Repositories().Settings)
	ctx := context.Background()

	_, err := r.Publish(ctx, version(0, day(2026, 1, 1), nil, 1000), "alice")
	require.NoError(t, err)
	_, err = r.Publish(ctx, version(0, day(2026, 10, 1), nil, 1500), "alice")
	require.NoError(t, err)

	tests := []struct {
		name string
		from time.Time
	}{
		{"before active version", day(2026, 3, 1)},
		{"same instant as active version", day(2026, 10, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Publish(ctx, version(0, tt.from, nil, 2000), "alice")
			require.ErrorIs(t, err, ErrBackdated)
		})
	}

	history, err := r.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, day(2026, 10, 1), history[0].ValidFrom)
	assert.Nil(t, history[0].ValidTo)
	assert.True(t, history[0].IsActive)

	snap, err := r.Resolve(ctx, day(2026, 10, 15))
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Version)
	snap, err = r.Resolve(ctx, day(2026, 4, 15))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)
}
