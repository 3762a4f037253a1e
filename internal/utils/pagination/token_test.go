package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	cursor := Cursor{
		Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "6f1c0c5e-1d7a-4a53-9a2a-7d1f8f3c1e11",
	}

	token := EncodeCursor(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, cursor.Date.Equal(decoded.Date), "Date should match after decode")
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt), "Created at should match after decode")
	assert.Equal(t, cursor.ID, decoded.ID)
}

func TestDecodeCursorError(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeCursor(EncodeMultiFieldToken("2023-05-15T00:00:00Z"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeCursor(EncodeMultiFieldToken("notadate", "2023-05-15T00:00:00Z", "id"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")

	_, err = DecodeCursor(EncodeMultiFieldToken("2023-05-15T00:00:00Z", "2023-05-15T00:00:00Z", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestCursorAfter(t *testing.T) {
	day := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	created := day.Add(5 * time.Hour)
	c := Cursor{Date: day, CreatedAt: created, ID: "m"}

	tests := []struct {
		name      string
		date      time.Time
		createdAt time.Time
		id        string
		want      bool
	}{
		{"older date", day.AddDate(0, 0, -1), created, "z", true},
		{"newer date", day.AddDate(0, 0, 1), created, "a", false},
		{"same date created earlier", day, created.Add(-time.Minute), "z", true},
		{"same date created later", day, created.Add(time.Minute), "a", false},
		{"same instant smaller id", day, created, "a", true},
		{"same row", day, created, "m", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.After(tt.date, tt.createdAt, tt.id))
		})
	}
}

func TestMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	parts, err := DecodeMultiFieldToken(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, parts)
}
