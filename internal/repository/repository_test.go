package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Astemirdum/bookshelf-service/internal/errs"
	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockRepo(t *testing.T) (*repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r, err := NewRepository(sqlx.NewDb(db, "sqlmock"), zap.NewNop())
	require.NoError(t, err)
	return r, mock
}

func bookRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows(bookColumns)
	for _, id := range ids {
		rows.AddRow(id, "Dune", "Herbert", "1965", "", nil, "Anonymous", nil)
	}
	return rows
}

func TestRepository_List_Pagination(t *testing.T) {
	t.Parallel()
	r, mock := newMockRepo(t)
	ctx := context.Background()

	// Three rows exist; pages of two must come back as [1 2] then [3],
	// with the token present only while more rows remain.
	mock.ExpectQuery(`SELECT .+ FROM books ORDER BY id LIMIT 3`).
		WillReturnRows(bookRows(1, 2, 3))

	first, err := r.List(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.Equal(t, int64(1), first.Items[0].ID)
	require.Equal(t, int64(2), first.Items[1].ID)
	require.NotEmpty(t, first.NextPageToken)

	mock.ExpectQuery(`SELECT .+ FROM books WHERE id > \$1 ORDER BY id LIMIT 3`).
		WithArgs(int64(2)).
		WillReturnRows(bookRows(3))

	second, err := r.List(ctx, 2, first.NextPageToken)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.Equal(t, int64(3), second.Items[0].ID)
	require.Empty(t, second.NextPageToken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_ExactPageIsLast(t *testing.T) {
	t.Parallel()
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM books ORDER BY id LIMIT 3`).
		WillReturnRows(bookRows(1, 2))

	list, err := r.List(context.Background(), 2, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	require.Empty(t, list.NextPageToken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_BadToken(t *testing.T) {
	t.Parallel()
	r, _ := newMockRepo(t)

	_, err := r.List(context.Background(), 2, "not-a-cursor!!!")
	require.ErrorIs(t, err, errs.ErrInvalidCursor)
}

func TestRepository_ListBy_FiltersOwner(t *testing.T) {
	t.Parallel()
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM books WHERE created_by_id = \$1 ORDER BY id LIMIT 11`).
		WithArgs("sub-1").
		WillReturnRows(bookRows(7))

	list, err := r.ListBy(context.Background(), "sub-1", 10, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Empty(t, list.NextPageToken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Read_NotFound(t *testing.T) {
	t.Parallel()
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM books WHERE id = \$1 LIMIT 1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := r.Read(context.Background(), 99)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
