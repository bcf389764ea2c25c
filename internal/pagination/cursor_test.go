package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 30, 45, 123456000, time.UTC)

	encoded := EncodeCursor("doc-42", ts)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, "doc-42", decoded.LastID)
	assert.True(t, ts.Equal(decoded.Timestamp))
}

func TestEncodeCursor_EmptyID(t *testing.T) {
	assert.Empty(t, EncodeCursor("", time.Now()))
}

func TestDecodeCursor_Empty(t *testing.T) {
	decoded, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := []string{
		"not base64!!!",
		"aGVsbG8=",                 // decodes but has no separator
		"ZG9jLTF8bm90LWEtdGltZQ==", // "doc-1|not-a-time"
	}
	for _, cursor := range tests {
		_, err := DecodeCursor(cursor)
		assert.ErrorIs(t, err, ErrInvalidCursor, "cursor %q", cursor)
	}
}

func TestCreateNextCursor(t *testing.T) {
	type item struct {
		id string
		ts time.Time
	}
	getID := func(i item) string { return i.id }
	getTS := func(i item) time.Time { return i.ts }

	now := time.Now().UTC()
	full := []item{{"a", now}, {"b", now.Add(time.Second)}}

	assert.NotEmpty(t, CreateNextCursor(full, 2, getID, getTS))
	assert.Empty(t, CreateNextCursor(full, 3, getID, getTS), "a short page has no next cursor")
	assert.Empty(t, CreateNextCursor([]item{}, 2, getID, getTS))
}
