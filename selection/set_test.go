package selection

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/utils/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// flakyStore wraps a store and fails writes while broken is set
type flakyStore struct {
	*cache.MemoryStore
	broken bool
	writes int
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if f.broken {
		return errors.New("disk full")
	}
	f.writes++
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	if f.broken {
		return errors.New("disk full")
	}
	f.writes++
	return f.MemoryStore.Delete(ctx, key)
}

func course(id string) Item {
	return Item{ID: id, Kind: model.KindCourse, Name: "Course " + id, Data: json.RawMessage(`{"id":"` + id + `"}`)}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSet_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: cache.NewMemoryStore()}
	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := first

	set, err := Load(ctx, store, Options{Name: "favorites", Key: FavoritesKey, StampAddedAt: true, Now: func() time.Time { return clock }})
	require.NoError(t, err)

	added, evicted, err := set.Add(ctx, course("a"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Nil(t, evicted)

	clock = first.Add(time.Hour)
	added, _, err = set.Add(ctx, course("a"))
	require.NoError(t, err)
	assert.False(t, added)

	items := set.List()
	require.Len(t, items, 1)
	require.NotNil(t, items[0].AddedAt)
	assert.Equal(t, first, *items[0].AddedAt)
	assert.Equal(t, 1, store.writes, "duplicate add must not write")
}

func TestSet_CompareEvictsOldest(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(ctx, cache.NewMemoryStore(), zaptest.NewLogger(t))
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c", "d"} {
		_, evicted, err := m.Compare.Add(ctx, course(id))
		require.NoError(t, err)
		assert.Nil(t, evicted)
	}

	added, evicted, err := m.Compare.Add(ctx, course("e"))
	require.NoError(t, err)
	assert.True(t, added)
	require.NotNil(t, evicted)
	assert.Equal(t, "a", evicted.ID)

	assert.Equal(t, CompareCapacity, m.Compare.Count())
	assert.Equal(t, []string{"b", "c", "d", "e"}, ids(m.Compare.List()))
	assert.False(t, m.Compare.Contains("a"))
	assert.Nil(t, m.Compare.List()[0].AddedAt)
}

func TestSet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := cache.NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")

	m, err := NewManager(ctx, store, zaptest.NewLogger(t))
	require.NoError(t, err)
	_, _, err = m.Favorites.Add(ctx, course("x"))
	require.NoError(t, err)
	_, _, err = m.Favorites.Add(ctx, Item{ID: "i-1", Kind: model.KindInstitution, Name: "Lakeside College", Data: json.RawMessage(`{"id":"i-1","rating":4.2}`)})
	require.NoError(t, err)

	reloaded, err := NewManager(ctx, store, zaptest.NewLogger(t))
	require.NoError(t, err)

	want, got := m.Favorites.List(), reloaded.Favorites.List()
	assert.Equal(t, ids(want), ids(got))
	for i := range want {
		assert.JSONEq(t, string(want[i].Data), string(got[i].Data))
		assert.True(t, want[i].AddedAt.Equal(*got[i].AddedAt))
	}
	assert.Zero(t, reloaded.Compare.Count())
}

func TestSet_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: cache.NewMemoryStore()}
	set, err := Load(ctx, store, Options{Name: "favorites", Key: FavoritesKey})
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		_, _, err := set.Add(ctx, course(id))
		require.NoError(t, err)
	}

	removed, err := set.Remove(ctx, "b")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"a", "c"}, ids(set.List()))

	writes := store.writes
	removed, err = set.Remove(ctx, "zzz")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, writes, store.writes)

	require.NoError(t, set.Clear(ctx))
	assert.Zero(t, set.Count())
	_, err = store.Get(ctx, FavoritesKey)
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestSet_ListByKind(t *testing.T) {
	ctx := context.Background()
	set, err := Load(ctx, cache.NewMemoryStore(), Options{Name: "favorites", Key: FavoritesKey})
	require.NoError(t, err)

	_, _, _ = set.Add(ctx, course("c1"))
	_, _, _ = set.Add(ctx, Item{ID: "i1", Kind: model.KindInstitution})
	_, _, _ = set.Add(ctx, course("c2"))

	assert.Equal(t, []string{"c1", "c2"}, ids(set.ListByKind(model.KindCourse)))
	assert.Equal(t, []string{"i1"}, ids(set.ListByKind(model.KindInstitution)))
}

func TestSet_FailedWriteLeavesSetUnchanged(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: cache.NewMemoryStore()}
	set, err := Load(ctx, store, Options{Name: "compare", Key: CompareKey, Capacity: 2, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	_, _, _ = set.Add(ctx, course("a"))
	_, _, _ = set.Add(ctx, course("b"))

	store.broken = true

	_, evicted, err := set.Add(ctx, course("c"))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Nil(t, evicted)

	_, err = set.Remove(ctx, "a")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.ErrorIs(t, set.Clear(ctx), ErrStoreUnavailable)
	assert.Equal(t, []string{"a", "b"}, ids(set.List()))
}

func TestSet_InvalidItem(t *testing.T) {
	set, err := Load(context.Background(), cache.NewMemoryStore(), Options{Name: "favorites", Key: FavoritesKey})
	require.NoError(t, err)

	_, _, err = set.Add(context.Background(), Item{ID: "r1", Kind: model.KindReview})
	assert.ErrorIs(t, err, ErrInvalidItem)
	_, _, err = set.Add(context.Background(), Item{Kind: model.KindCourse})
	assert.ErrorIs(t, err, ErrInvalidItem)
	assert.Zero(t, set.Count())
}

func TestLoad_CorruptPayloadIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, FavoritesKey, "{not json"))

	m, err := NewManager(ctx, store, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Zero(t, m.Favorites.Count())

	_, _, err = m.Favorites.Add(ctx, course("a"))
	require.NoError(t, err)
	raw, err := store.Get(ctx, FavoritesKey)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(raw)))
}

func TestLoad_NormalizesStoredPayload(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	var stored []Item
	for i := 0; i < 6; i++ {
		stored = append(stored, course(fmt.Sprintf("c%d", i)))
	}
	stored = append(stored, course("c5"), Item{ID: "bad", Kind: "review"})
	payload, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, CompareKey, string(payload)))

	m, err := NewManager(ctx, store, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c3", "c4", "c5"}, ids(m.Compare.List()))
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}
func (brokenStore) Set(context.Context, string, string) error { return nil }
func (brokenStore) Delete(context.Context, string) error      { return nil }

func TestLoad_StoreReadFailure(t *testing.T) {
	_, err := NewManager(context.Background(), brokenStore{}, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestSnapshot(t *testing.T) {
	fee := 12000.0
	item, err := Snapshot(&model.Course{ID: "c1", Title: "Nursing", TuitionFee: &fee})
	require.NoError(t, err)
	assert.Equal(t, "c1", item.ID)
	assert.Equal(t, model.KindCourse, item.Kind)
	assert.Equal(t, "Nursing", item.Name)
	assert.Contains(t, string(item.Data), `"tuitionFee":12000`)

	item, err = Snapshot(&model.InstitutionDetail{Institution: model.Institution{ID: "i1", Name: "Hillcrest"}})
	require.NoError(t, err)
	assert.Equal(t, model.KindInstitution, item.Kind)

	_, err = Snapshot(&model.Review{ID: "r1"})
	assert.ErrorIs(t, err, ErrInvalidItem)
}
