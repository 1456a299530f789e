package memkv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamsonMokaya/pesapal-challenge/index"
	"github.com/SamsonMokaya/pesapal-challenge/schema"
	"github.com/SamsonMokaya/pesapal-challenge/storage"
	"github.com/SamsonMokaya/pesapal-challenge/value"
)

func TestCreateThenLoadRoundTrips(t *testing.T) {
	s := New()
	snap := storage.Snapshot{
		Schema:  &schema.Schema{Table: "users"},
		Rows:    []index.Row{},
		Indexes: map[string]index.Index{},
	}
	require.NoError(t, s.Create("users", snap))

	exists, err := s.Exists("users")
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := s.Load("users")
	require.NoError(t, err)
	assert.Equal(t, "users", loaded.Schema.Table)
}

func TestCreateRejectsExistingTable(t *testing.T) {
	s := New()
	snap := storage.Snapshot{Schema: &schema.Schema{Table: "users"}}
	require.NoError(t, s.Create("users", snap))
	assert.Error(t, s.Create("users", snap))
}

func TestSaveRejectsUnknownTable(t *testing.T) {
	s := New()
	err := s.Save("missing", storage.Snapshot{})
	assert.Error(t, err)
}

func TestLoadReturnsIndependentCopy(t *testing.T) {
	s := New()
	snap := storage.Snapshot{
		Schema: &schema.Schema{Table: "users"},
		Rows:   []index.Row{{"id": value.Value{Kind: value.Int, Int: 1}}},
	}
	require.NoError(t, s.Create("users", snap))

	loaded, err := s.Load("users")
	require.NoError(t, err)
	loaded.Rows[0]["id"] = value.Value{Kind: value.Int, Int: 99}

	reloaded, err := s.Load("users")
	require.NoError(t, err)
	assert.Len(t, reloaded.Rows, 1)
	assert.Equal(t, int64(1), reloaded.Rows[0]["id"].Int)
}

func TestDropRemovesTable(t *testing.T) {
	s := New()
	require.NoError(t, s.Create("users", storage.Snapshot{Schema: &schema.Schema{Table: "users"}}))
	require.NoError(t, s.Drop("users"))
	exists, err := s.Exists("users")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListIsSorted(t *testing.T) {
	s := New()
	for _, name := range []string{"zebra", "apple"} {
		require.NoError(t, s.Create(name, storage.Snapshot{Schema: &schema.Schema{Table: name}}))
	}
	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "zebra"}, names)
}
