package repository

import (
	"context"
	"database/sql"

	"github.com/Astemirdum/bookshelf-service/internal/errs"
	"github.com/Astemirdum/bookshelf-service/internal/model"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	List(ctx context.Context, pageSize int, pageToken string) (model.ListBooks, error)
	ListBy(ctx context.Context, ownerID string, pageSize int, pageToken string) (model.ListBooks, error)
	Read(ctx context.Context, id int64) (model.Book, error)
	Create(ctx context.Context, data model.BookData) (model.Book, error)
	Update(ctx context.Context, id int64, data model.BookData) (model.Book, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName = `books`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var bookColumns = []string{"id", "title", "author", "published_date", "description", "image_url", "created_by", "created_by_id"}

func (r *repository) List(ctx context.Context, pageSize int, pageToken string) (model.ListBooks, error) {
	return r.list(ctx, "", pageSize, pageToken)
}

func (r *repository) ListBy(ctx context.Context, ownerID string, pageSize int, pageToken string) (model.ListBooks, error) {
	return r.list(ctx, ownerID, pageSize, pageToken)
}

// list pages through books ordered by id. It fetches one row past the page
// boundary to tell whether another page exists.
func (r *repository) list(ctx context.Context, ownerID string, pageSize int, pageToken string) (model.ListBooks, error) {
	cursor, err := decodeCursor(pageToken)
	if err != nil {
		return model.ListBooks{}, err
	}

	q := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("id").
		Limit(uint64(pageSize) + 1)

	if ownerID != "" {
		q = q.Where(sq.Eq{"created_by_id": ownerID})
	}
	if cursor.AfterID > 0 {
		q = q.Where(sq.Gt{"id": cursor.AfterID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}

	books := make([]model.Book, 0, pageSize+1)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		r.log.Error("list", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.ListBooks{}, err
	}

	var next string
	if len(books) > pageSize {
		books = books[:pageSize]
		next = encodeCursor(cursorData{AfterID: books[pageSize-1].ID})
	}

	return model.ListBooks{
		Items:         books,
		NextPageToken: next,
	}, nil
}

func (r *repository) Read(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}

	return book, nil
}

func (r *repository) Create(ctx context.Context, data model.BookData) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "published_date", "description", "image_url", "created_by", "created_by_id").
		Values(data.Title, data.Author, data.PublishedDate, data.Description, data.ImageURL, data.CreatedBy, data.CreatedByID).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		r.log.Error("create", zap.String("q", query), zap.Error(err))
		return model.Book{}, classify(err)
	}

	return book, nil
}

func (r *repository) Update(ctx context.Context, id int64, data model.BookData) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		Set("title", data.Title).
		Set("author", data.Author).
		Set("published_date", data.PublishedDate).
		Set("description", data.Description).
		Set("image_url", data.ImageURL).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		r.log.Error("update", zap.String("q", query), zap.Error(err))
		return model.Book{}, classify(err)
	}

	return book, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// classify maps postgres constraint violations onto the validation sentinel,
// leaving everything else untouched.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) || pgerrcode.IsDataException(pgErr.Code) {
			return errors.Wrap(errs.ErrValidation, pgErr.Message)
		}
	}
	return err
}
