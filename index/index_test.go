package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SamsonMokaya/pesapal-challenge/value"
)

func textVal(s string) value.Value { return value.Value{Kind: value.Text, Str: s} }
func intVal(n int64) value.Value   { return value.Value{Kind: value.Int, Int: n} }

func TestBuildSkipsNullValues(t *testing.T) {
	rows := []Row{
		{"email": textVal("a@x.com")},
		{"email": value.NullValue},
		{"email": textVal("b@x.com")},
	}
	idx := Build(rows, "email")
	assert.Equal(t, []int{0}, Lookup(idx, textVal("a@x.com")))
	assert.Empty(t, Lookup(idx, value.NullValue))
}

func TestBuildFoldsTextCase(t *testing.T) {
	rows := []Row{{"email": textVal("A@X.com")}}
	idx := Build(rows, "email")
	assert.Equal(t, []int{0}, Lookup(idx, textVal("a@x.COM")))
}

func TestOnInsertAppends(t *testing.T) {
	idx := Build(nil, "id")
	OnInsert(idx, intVal(1), 0)
	OnInsert(idx, intVal(1), 5)
	assert.Equal(t, []int{0, 5}, Lookup(idx, intVal(1)))
}

func TestOnInsertIgnoresNull(t *testing.T) {
	idx := Build(nil, "id")
	OnInsert(idx, value.NullValue, 0)
	assert.Empty(t, idx)
}

func TestOnUpdateDiffsOldAndNew(t *testing.T) {
	rows := []Row{{"status": textVal("open")}}
	idx := Build(rows, "status")
	OnUpdate(idx, textVal("open"), textVal("closed"), 0)
	assert.Empty(t, Lookup(idx, textVal("open")))
	assert.Equal(t, []int{0}, Lookup(idx, textVal("closed")))
}

func TestOnUpdateNoopWhenValueUnchanged(t *testing.T) {
	rows := []Row{{"status": textVal("open")}}
	idx := Build(rows, "status")
	before := append([]int(nil), idx[key(textVal("open"))]...)
	OnUpdate(idx, textVal("open"), textVal("open"), 0)
	assert.Equal(t, before, Lookup(idx, textVal("open")))
}

func TestOnUpdateToNullRemovesEntry(t *testing.T) {
	rows := []Row{{"status": textVal("open")}}
	idx := Build(rows, "status")
	OnUpdate(idx, textVal("open"), value.NullValue, 0)
	assert.Empty(t, Lookup(idx, textVal("open")))
}
