package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationParamsValidate(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 0}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 15, p.PerPage)

	p = &PaginationParams{Page: 3, PerPage: 500}
	p.Validate()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 100, p.PerPage)
}

func TestNewPagination(t *testing.T) {
	pag := NewPagination(2, 10, 35)
	assert.Equal(t, 4, pag.TotalPages)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)

	pag = NewPagination(1, 10, 5)
	assert.Equal(t, 1, pag.TotalPages)
	assert.False(t, pag.HasNext)
	assert.False(t, pag.HasPrev)
}

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	encoded := EncodeCursor("abc-123", createdAt)

	params := &CursorParams{Cursor: encoded}
	cursor, err := params.DecodeCursor()
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, "abc-123", cursor.ID)
	assert.True(t, cursor.CreatedAt.Equal(createdAt))
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	params := &CursorParams{Cursor: "not base64!!"}
	_, err := params.DecodeCursor()
	assert.Error(t, err)
}

func TestNewCursorPaginationDetectsMore(t *testing.T) {
	type row struct {
		ID        string
		CreatedAt time.Time
	}

	rows := []row{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}

	// three rows fetched with limit 2 means there is a next page
	pag, items := NewCursorPagination(rows, 2,
		func(r row) string { return r.ID },
		func(r row) time.Time { return r.CreatedAt },
	)

	assert.Len(t, items, 2)
	assert.True(t, pag.HasNext)
	require.NotNil(t, pag.NextCursor)

	decoded, err := (&CursorParams{Cursor: *pag.NextCursor}).DecodeCursor()
	require.NoError(t, err)
	assert.Equal(t, "b", decoded.ID)
}
