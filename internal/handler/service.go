package handler

import (
	"context"

	"github.com/Astemirdum/bookshelf-service/internal/model"
	"github.com/Astemirdum/bookshelf-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	List(ctx context.Context, pageSize int, pageToken string) (model.ListBooks, error)
	ListBy(ctx context.Context, ownerID string, pageSize int, pageToken string) (model.ListBooks, error)
	Read(ctx context.Context, id int64) (model.Book, error)
	Create(ctx context.Context, data model.BookData) (model.Book, error)
	Update(ctx context.Context, id int64, data model.BookData) (model.Book, error)
	Delete(ctx context.Context, id int64) error
}

var _ BookService = (*service.Service)(nil)

// Enqueuer publishes book mutation events. Publishing is best effort: a
// failed enqueue is logged by the caller and never fails the request.
type Enqueuer interface {
	Enqueue(topic string, v any) error
}
