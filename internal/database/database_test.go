package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()

	_, found, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set("favorites", `[{"link":"a"}]`))
	require.NoError(t, kv.Set("favorites", `[{"link":"b"}]`))

	value, found, err := kv.Get("favorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"link":"b"}]`, value)
}

func TestBoltKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.db")
	kv, err := NewBolt(path)
	require.NoError(t, err)
	exerciseKV(t, kv)
	require.NoError(t, kv.Close())

	reopened, err := NewBolt(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get("favorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"link":"b"}]`, value)
}

func TestSQLiteKV(t *testing.T) {
	kv, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestSQLiteKVFile(t *testing.T) {
	kv, err := NewSQLite(filepath.Join(t.TempDir(), "fav.sqlite"))
	require.NoError(t, err)
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestOpen(t *testing.T) {
	kv, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	kv, err = Open("bolt", filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.IsType(t, &BoltKV{}, kv)
	kv.Close()

	_, err = Open("redis", "")
	assert.Error(t, err)
}
