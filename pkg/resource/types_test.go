package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseID(t *testing.T) {
	valid := primitive.NewObjectID()
	oid, err := ParseID(valid.Hex())
	require.NoError(t, err)
	assert.Equal(t, valid, oid)

	for _, id := range []string{"", "abc", "not-an-object-id", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := ParseID(id)
		assert.ErrorIs(t, err, ErrInvalidID, "id %q", id)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count int64
		want  int
	}{
		{count: 0, want: 0},
		{count: 1, want: 1},
		{count: 10, want: 1},
		{count: 11, want: 2},
		{count: 25, want: 3},
		{count: 100, want: 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.count), "count %d", tt.count)
	}
}
