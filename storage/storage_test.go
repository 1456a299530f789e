package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SamsonMokaya/pesapal-challenge/index"
	"github.com/SamsonMokaya/pesapal-challenge/schema"
	"github.com/SamsonMokaya/pesapal-challenge/value"
)

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	original := Snapshot{
		Schema: &schema.Schema{Table: "t"},
		Rows: []index.Row{
			{"id": value.Value{Kind: value.Int, Int: 1}},
		},
		Indexes: map[string]index.Index{
			"id_idx": {value.Value{Kind: value.Int, Int: 1}: {0}},
		},
	}

	clone := original.Clone()
	clone.Rows[0]["id"] = value.Value{Kind: value.Int, Int: 99}
	clone.Indexes["id_idx"][value.Value{Kind: value.Int, Int: 1}][0] = 42

	assert.Equal(t, int64(1), original.Rows[0]["id"].Int, "mutating the clone must not affect the original row")
	assert.Equal(t, 0, original.Indexes["id_idx"][value.Value{Kind: value.Int, Int: 1}][0], "mutating the clone must not affect the original index")
}
