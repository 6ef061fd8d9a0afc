package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pickupgames/internal/model"
)

func TestEncodeCollectionSortsById(t *testing.T) {
	users := map[model.UserID]model.User{
		"b": {ID: "b", Username: "bob"},
		"a": {ID: "a", Username: "alice"},
	}

	raw, err := encodeCollection(users)
	require.NoError(t, err)

	assert.JSONEq(t,
		`[["a",{"id":"a","username":"alice","createdAt":"0001-01-01T00:00:00Z","passwordHash":""}],`+
			`["b",{"id":"b","username":"bob","createdAt":"0001-01-01T00:00:00Z","passwordHash":""}]]`,
		raw)
}

func TestEncodeEmptyCollection(t *testing.T) {
	raw, err := encodeCollection(map[model.EventID]model.Event{})
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)
}

func TestDecodeCollectionFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []model.UserID
	}{
		{name: "pairs", raw: `[["a",{"id":"a","username":"alice"}]]`, want: []model.UserID{"a"}},
		{name: "legacy object", raw: `{"a":{"id":"a"},"b":{"id":"b"}}`, want: []model.UserID{"a", "b"}},
		{name: "empty pairs", raw: `[]`, want: nil},
		{name: "empty object", raw: ` {} `, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCollection[model.UserID, model.User](tt.raw)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Len(t, got, len(tt.want))
			for _, id := range tt.want {
				assert.Contains(t, got, id)
			}
		})
	}
}

func TestDecodeCollectionRejectsMalformed(t *testing.T) {
	for _, raw := range []string{``, `null`, `"x"`, `[["a"]]`, `[[1,{}]]`, `[["a",{"id":5}]]`} {
		_, err := decodeCollection[model.UserID, model.User](raw)
		assert.Error(t, err, raw)
	}
}

func TestDecodeAuth(t *testing.T) {
	a, err := decodeAuth(`{"isAuthenticated":true,"currentUserId":"u1"}`)
	require.NoError(t, err)
	id, ok := a.UserID()
	assert.True(t, ok)
	assert.Equal(t, model.UserID("u1"), id)

	a, err = decodeAuth(`{"isAuthenticated":true,"currentUserId":null}`)
	require.NoError(t, err)
	assert.False(t, a.IsAuthenticated)

	_, err = decodeAuth(`nope`)
	assert.Error(t, err)
}
