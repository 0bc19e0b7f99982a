package store

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/sprig/internal/db"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	file, err := NewFile(t.TempDir())
	require.NoError(t, err)

	conn, err := db.Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return map[string]Store{
		BackendMemory: NewMemory(),
		BackendFile:   file,
		BackendSQLite: NewSQLite(conn),
		BackendRedis:  NewRedisFromClient(rdb, ""),
	}
}

func TestStoreContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := s.Get(ctx, "prompts")
			require.NoError(t, err)
			require.Nil(t, got, "absent key returns nil")

			require.NoError(t, s.Set(ctx, "prompts", []byte(`[{"id":"1"}]`)))
			got, err = s.Get(ctx, "prompts")
			require.NoError(t, err)
			require.Equal(t, `[{"id":"1"}]`, string(got))

			require.NoError(t, s.Set(ctx, "prompts", []byte(`[]`)))
			got, err = s.Get(ctx, "prompts")
			require.NoError(t, err)
			require.Equal(t, `[]`, string(got))

			// Empty values are present, not absent
			require.NoError(t, s.Set(ctx, "empty", []byte{}))
			got, err = s.Get(ctx, "empty")
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Empty(t, got)

			require.Error(t, s.Set(ctx, "../escape", []byte("x")))
		})
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _ := m.Get(ctx, "k")
	require.Equal(t, "abc", string(again))
}

func TestFile_Layout(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Set(context.Background(), "prompts", []byte("[]")))

	info, err := os.Stat(filepath.Join(dir, "prompts.json"))
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestFile_CancelledContext(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, f.Set(ctx, "prompts", []byte("[]")), context.Canceled)
	_, err = f.Get(ctx, "prompts")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRedis_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := NewRedisFromClient(rdb, "test:")
	require.NoError(t, r.Set(context.Background(), "prompts", []byte("[]")))

	raw, err := mr.Get("test:prompts")
	require.NoError(t, err)
	require.Equal(t, "[]", raw)
}

func TestNewRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(context.Background(), RedisOptions{Addr: addr})
	require.Error(t, err)
}

func TestNewRedis_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := NewRedis(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Get(context.Background(), "prompts")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestValidateKey(t *testing.T) {
	valid := []string{"prompts", "prompts.v2", "a_b-c", "0"}
	for _, k := range valid {
		require.NoError(t, ValidateKey(k), k)
	}
	invalid := []string{"", ".hidden", "a/b", "../x", "sp ace", strings.Repeat("a", 129)}
	for _, k := range invalid {
		require.Error(t, ValidateKey(k), k)
	}
}
