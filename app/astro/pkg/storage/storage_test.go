package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/config"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(config.StoreConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "nested", "astro.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorage_KV(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "a", "2"))
	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	require.NoError(t, s.Delete(ctx, "a", "missing"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_Profile(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	first, err := s.IsFirstTimeUser(ctx)
	require.NoError(t, err)
	assert.True(t, first)

	_, err = s.LoadProfile(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SaveChart(ctx, []dm.Planet{{Name: "Sun"}}))

	p := &dm.Profile{
		Name:      "Teddy",
		Birthday:  time.Date(2003, 4, 21, 0, 0, 0, 0, time.UTC),
		BirthTime: "07:45",
		City:      "Anchorage",
		State:     "AK",
	}
	require.NoError(t, s.SaveProfile(ctx, p))

	got, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	first, err = s.IsFirstTimeUser(ctx)
	require.NoError(t, err)
	assert.False(t, first)

	// 资料变更后星盘缓存失效
	_, err = s.LoadChart(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_Chart(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	planets := []dm.Planet{
		{Name: "Sun", Sign: "Tau", SignNum: 1, AbsPos: 30.8, House: "Eleventh_House"},
		{Name: "Moon", Sign: "Ari", Retrograde: true},
	}
	require.NoError(t, s.SaveChart(ctx, planets))

	got, err := s.LoadChart(ctx)
	require.NoError(t, err)
	assert.Equal(t, planets, got)
}

func TestStorage_Rebind(t *testing.T) {
	pg := &Storage{driver: "postgres"}
	assert.Equal(t, "SELECT value FROM kv WHERE key = $1 AND x IN ($2, $3)", pg.rebind("SELECT value FROM kv WHERE key = ? AND x IN (?, ?)"))

	lite := &Storage{driver: "sqlite"}
	assert.Equal(t, "key = ?", lite.rebind("key = ?"))
}
