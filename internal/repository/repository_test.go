package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/sprig/internal/errors"
	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/store"
)

// fakeStore wraps a Memory store with failure injection and call counting.
type fakeStore struct {
	*store.Memory

	mu      sync.Mutex
	failGet error
	failSet error
	sets    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{Memory: store.NewMemory()}
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	err := f.failGet
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Memory.Get(ctx, key)
}

func (f *fakeStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	err := f.failSet
	if err == nil {
		f.sets++
	}
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *fakeStore) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// fixedClock returns a clock advanced by hand.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func sequentialIDs() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%03d", n), nil
	}
}

func newTestRepo(t *testing.T, s store.Store, opts ...Option) (*Repository, *fixedClock) {
	t.Helper()
	clock := &fixedClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	all := append([]Option{WithClock(clock.Now), WithIDGenerator(sequentialIDs())}, opts...)
	r := New(s, all...)
	_, err := r.Load(context.Background())
	require.NoError(t, err)
	return r, clock
}

func TestLoad_EmptyNeverSeeds(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	r := New(s)

	prompts, err := r.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, prompts)
	require.Zero(t, s.setCount(), "empty load must not write")

	prompts, err = r.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, prompts)

	data, err := s.Get(ctx, prompt.StorageKey)
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestLoad_SeedPersisted(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	seed := prompt.Samples(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	r := New(s, WithSeed(seed))
	prompts, err := r.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, seed, prompts)
	require.Equal(t, 1, s.setCount())

	// A second repository sees the persisted seed, not a fresh one
	other := New(s, WithSeed(nil))
	prompts, err = other.Load(ctx)
	require.NoError(t, err)
	require.Len(t, prompts, 3)
	require.Equal(t, 1, s.setCount())
}

func TestLoad_InvalidSeedNotPersisted(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		seed []prompt.Prompt
		code errors.ErrorCode
	}{
		{
			name: "duplicate ids",
			seed: []prompt.Prompt{{ID: "x", Tags: []string{}, CreatedAt: at, UpdatedAt: at}, {ID: "x", Tags: []string{}, CreatedAt: at, UpdatedAt: at}},
			code: errors.ErrConflict,
		},
		{
			name: "empty id",
			seed: []prompt.Prompt{{Tags: []string{}, CreatedAt: at, UpdatedAt: at}},
			code: errors.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFakeStore()
			r := New(s, WithSeed(tt.seed))

			_, err := r.Load(ctx)
			require.True(t, errors.Is(err, tt.code), "got %v", err)
			require.Zero(t, s.setCount())

			// Nothing poisoned: a repository without the bad seed starts clean
			prompts, err := New(s).Load(ctx)
			require.NoError(t, err)
			require.Empty(t, prompts)
		})
	}
}

func TestLoad_StoredCollectionWinsOverSeed(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	require.NoError(t, s.Set(ctx, prompt.StorageKey, []byte("[]")))

	r := New(s, WithSeed(prompt.Samples(time.Now())))
	prompts, err := r.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, prompts)
}

func TestLoad_CorruptData(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	require.NoError(t, s.Set(ctx, prompt.StorageKey, []byte(`{"not":"an array"}`)))

	_, err := New(s).Load(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCorruptData), "got %v", err)
}

func TestLoad_IOError(t *testing.T) {
	s := newFakeStore()
	cause := stderrors.New("disk unplugged")
	s.failGet = cause

	_, err := New(s).Load(context.Background())
	require.True(t, errors.Is(err, errors.ErrIO), "got %v", err)
	require.ErrorIs(t, err, cause)
}

func TestLoad_CustomKey(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	r, _ := newTestRepo(t, s, WithKey("work"))

	_, err := r.Create(ctx, CreateParams{Title: "x"})
	require.NoError(t, err)

	data, err := s.Get(ctx, "work")
	require.NoError(t, err)
	require.NotNil(t, data)
	data, err = s.Get(ctx, prompt.StorageKey)
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	r, clock := newTestRepo(t, s)

	p, err := r.Create(ctx, CreateParams{
		Title:   "Code Reviewer",
		Content: "Review my code",
		Tags:    []string{" coding ", "review", "coding", ""},
	})
	require.NoError(t, err)
	require.Equal(t, "id-001", p.ID)
	require.Equal(t, []string{"coding", "review"}, p.Tags)
	require.False(t, p.IsFavorite)
	require.Equal(t, clock.Now(), p.CreatedAt)
	require.Equal(t, p.CreatedAt, p.UpdatedAt)

	got, ok := r.GetByID(p.ID)
	require.True(t, ok)
	require.Equal(t, p, got)

	// Persisted value round-trips to the snapshot
	data, err := s.Get(ctx, prompt.StorageKey)
	require.NoError(t, err)
	stored, err := prompt.Decode(data)
	require.NoError(t, err)
	require.Equal(t, r.Prompts(), stored)
}

func TestCreate_EmptyFieldsAllowed(t *testing.T) {
	r, _ := newTestRepo(t, newFakeStore())

	p, err := r.Create(context.Background(), CreateParams{})
	require.NoError(t, err)
	require.Empty(t, p.Title)
	require.Empty(t, p.Content)
	require.NotNil(t, p.Tags)
}

func TestCreate_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	r := New(newFakeStore())
	_, err := r.Load(ctx)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p, err := r.Create(ctx, CreateParams{Title: fmt.Sprintf("p%d", i)})
		require.NoError(t, err)
		require.Len(t, p.ID, 26, "ULID string")
		require.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
	require.Len(t, r.Prompts(), 50)
}

func TestCreate_RegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	ids := []string{"dup", "dup", "fresh"}
	next := 0
	gen := func() (string, error) {
		id := ids[next]
		next++
		return id, nil
	}

	r := New(newFakeStore(), WithIDGenerator(gen))
	_, err := r.Load(ctx)
	require.NoError(t, err)

	first, err := r.Create(ctx, CreateParams{Title: "first"})
	require.NoError(t, err)
	second, err := r.Create(ctx, CreateParams{Title: "second"})
	require.NoError(t, err)

	require.Equal(t, "dup", first.ID)
	require.Equal(t, "fresh", second.ID)
	got, _ := r.GetByID("dup")
	require.Equal(t, "first", got.Title, "existing prompt must not be overwritten")
}

func TestCreate_IDGeneratorExhausted(t *testing.T) {
	ctx := context.Background()
	r := New(newFakeStore(), WithIDGenerator(func() (string, error) { return "same", nil }))
	_, err := r.Load(ctx)
	require.NoError(t, err)

	_, err = r.Create(ctx, CreateParams{})
	require.NoError(t, err)
	_, err = r.Create(ctx, CreateParams{})
	require.True(t, errors.Is(err, errors.ErrConflict), "got %v", err)
	require.Len(t, r.Prompts(), 1)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	r, clock := newTestRepo(t, newFakeStore())

	orig, err := r.Create(ctx, CreateParams{Title: "Old", Content: "body", Tags: []string{"a"}})
	require.NoError(t, err)
	clock.Advance(time.Minute)

	title := "New"
	tags := []string{"b", " b", "c"}
	got, err := r.Update(ctx, orig.ID, Patch{Title: &title, Tags: &tags})
	require.NoError(t, err)

	require.Equal(t, orig.ID, got.ID)
	require.Equal(t, orig.CreatedAt, got.CreatedAt)
	require.Equal(t, "New", got.Title)
	require.Equal(t, "body", got.Content, "untouched field")
	require.Equal(t, []string{"b", "c"}, got.Tags)
	require.Equal(t, clock.Now(), got.UpdatedAt)
}

func TestUpdate_RemoveTags(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t, newFakeStore())

	orig, err := r.Create(ctx, CreateParams{Tags: []string{"a", "b", "c"}})
	require.NoError(t, err)

	got, err := r.Update(ctx, orig.ID, Patch{RemoveTags: []string{" b ", "missing"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, got.Tags)

	// Applied after a replacement list
	tags := []string{"x", "y"}
	got, err = r.Update(ctx, orig.ID, Patch{Tags: &tags, RemoveTags: []string{"x"}})
	require.NoError(t, err)
	require.Equal(t, []string{"y"}, got.Tags)
}

func TestUpdate_NotFound(t *testing.T) {
	s := newFakeStore()
	r, _ := newTestRepo(t, s)

	title := "x"
	_, err := r.Update(context.Background(), "missing", Patch{Title: &title})
	require.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)
	require.Zero(t, s.setCount())
}

func TestUpdate_ClockTieStillAdvances(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t, newFakeStore())

	p, err := r.Create(ctx, CreateParams{Title: "x"})
	require.NoError(t, err)

	// Clock has not moved since Create
	toggled, err := r.ToggleFavorite(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, toggled.UpdatedAt.After(p.UpdatedAt))

	again, err := r.ToggleFavorite(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, again.UpdatedAt.After(toggled.UpdatedAt))
}

func TestToggleFavorite_Scenario(t *testing.T) {
	ctx := context.Background()
	r, clock := newTestRepo(t, newFakeStore())

	p, err := r.Create(ctx, CreateParams{Title: "T", Content: "C"})
	require.NoError(t, err)
	require.False(t, p.IsFavorite)

	clock.Advance(time.Second)
	toggled, err := r.ToggleFavorite(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, toggled.IsFavorite)
	require.True(t, toggled.UpdatedAt.After(toggled.CreatedAt))

	clock.Advance(time.Second)
	back, err := r.ToggleFavorite(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, back.IsFavorite)

	_, err = r.ToggleFavorite(ctx, "missing")
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestDelete_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	r, _ := newTestRepo(t, s)

	p, err := r.Create(ctx, CreateParams{Title: "x"})
	require.NoError(t, err)
	keep, err := r.Create(ctx, CreateParams{Title: "y"})
	require.NoError(t, err)
	writes := s.setCount()

	removed, err := r.Delete(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, writes+1, s.setCount())

	removed, err = r.Delete(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, removed)
	require.Equal(t, writes+1, s.setCount(), "absent id must not write")

	_, ok := r.GetByID(p.ID)
	require.False(t, ok)
	require.Len(t, r.Prompts(), 1)
	require.Equal(t, keep.ID, r.Prompts()[0].ID)
}

func TestMutation_FailedWriteLeavesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	r, _ := newTestRepo(t, s)

	p, err := r.Create(ctx, CreateParams{Title: "keep"})
	require.NoError(t, err)
	before := r.Prompts()
	stored, _ := s.Memory.Get(ctx, prompt.StorageKey)

	s.failSet = stderrors.New("quota exceeded")

	_, err = r.Create(ctx, CreateParams{Title: "new"})
	require.True(t, errors.Is(err, errors.ErrIO), "got %v", err)

	title := "changed"
	_, err = r.Update(ctx, p.ID, Patch{Title: &title})
	require.True(t, errors.Is(err, errors.ErrIO))

	_, err = r.ToggleFavorite(ctx, p.ID)
	require.True(t, errors.Is(err, errors.ErrIO))

	_, err = r.Delete(ctx, p.ID)
	require.True(t, errors.Is(err, errors.ErrIO))

	err = r.Apply(ctx, func([]prompt.Prompt) ([]prompt.Prompt, error) { return nil, nil })
	require.True(t, errors.Is(err, errors.ErrIO))

	require.Equal(t, before, r.Prompts())
	after, _ := s.Memory.Get(ctx, prompt.StorageKey)
	require.Equal(t, stored, after)
}

func TestMutation_FailedReadLeavesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	r, _ := newTestRepo(t, s)

	_, err := r.Create(ctx, CreateParams{Title: "keep"})
	require.NoError(t, err)
	before := r.Prompts()

	s.failGet = stderrors.New("timeout")
	_, err = r.Create(ctx, CreateParams{Title: "new"})
	require.True(t, errors.Is(err, errors.ErrIO))
	require.Equal(t, before, r.Prompts())
}

func TestMutation_ReadsLatestPersistedValue(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	a, _ := newTestRepo(t, s)
	b := New(s, WithIDGenerator(func() (string, error) { return "from-b", nil }))
	_, err := b.Load(ctx)
	require.NoError(t, err)

	_, err = a.Create(ctx, CreateParams{Title: "from a"})
	require.NoError(t, err)
	_, err = b.Create(ctx, CreateParams{Title: "from b"})
	require.NoError(t, err)

	// b's write included a's prompt
	require.Len(t, b.Prompts(), 2)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t, newFakeStore())

	existing, err := r.Create(ctx, CreateParams{Title: "existing"})
	require.NoError(t, err)

	seed := prompt.Samples(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	err = r.Apply(ctx, func(current []prompt.Prompt) ([]prompt.Prompt, error) {
		require.Len(t, current, 1)
		return append(current, seed...), nil
	})
	require.NoError(t, err)
	require.Len(t, r.Prompts(), 4)
	require.Equal(t, existing.ID, r.Prompts()[0].ID)

	reloaded, err := r.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, r.Prompts(), reloaded)
}

func TestApply_AbortsWithoutWrite(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	r, _ := newTestRepo(t, s)
	writes := s.setCount()

	abort := stderrors.New("nope")
	err := r.Apply(ctx, func(current []prompt.Prompt) ([]prompt.Prompt, error) { return nil, abort })
	require.ErrorIs(t, err, abort)

	dup := prompt.Prompt{ID: "same", Tags: []string{}}
	err = r.Apply(ctx, func(current []prompt.Prompt) ([]prompt.Prompt, error) {
		return []prompt.Prompt{dup, dup}, nil
	})
	require.True(t, errors.Is(err, errors.ErrConflict), "got %v", err)
	require.Equal(t, writes, s.setCount())

	err = r.Apply(ctx, func(current []prompt.Prompt) ([]prompt.Prompt, error) {
		return append(current, prompt.Prompt{Tags: []string{}}), nil
	})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
	require.Equal(t, writes, s.setCount())

	_, err = r.Load(ctx)
	require.NoError(t, err, "store must still decode")
}

func TestSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t, newFakeStore())

	p, err := r.Create(ctx, CreateParams{Title: "x", Tags: []string{"a"}})
	require.NoError(t, err)

	p.Tags[0] = "mutated"
	list := r.Prompts()
	list[0].Title = "mutated"

	got, _ := r.GetByID(p.ID)
	assert.Equal(t, "x", got.Title)
	assert.Equal(t, []string{"a"}, got.Tags)
}

func TestKnownTags(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t, newFakeStore())

	_, err := r.Create(ctx, CreateParams{Tags: []string{"go", "cli"}})
	require.NoError(t, err)
	_, err = r.Create(ctx, CreateParams{Tags: []string{"cli", "ai"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "cli", "ai"}, r.KnownTags())
}

func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	r := New(newFakeStore())
	_, err := r.Load(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Create(ctx, CreateParams{Title: fmt.Sprintf("p%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Len(t, r.Prompts(), 20)
	reloaded, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 20)
}

func TestPatchEmpty(t *testing.T) {
	require.True(t, Patch{}.Empty())
	require.True(t, Patch{RemoveTags: []string{}}.Empty())
	fav := true
	require.False(t, Patch{IsFavorite: &fav}.Empty())
	require.False(t, Patch{RemoveTags: []string{"a"}}.Empty())
}

func TestDefaultIDsFollowClock(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	r := New(newFakeStore(), WithClock(func() time.Time { return at }))

	p, err := r.Create(ctx, CreateParams{Title: "t"})
	require.NoError(t, err)

	id, err := ulid.ParseStrict(p.ID)
	require.NoError(t, err)
	require.Equal(t, ulid.Timestamp(at), id.Time())
}
