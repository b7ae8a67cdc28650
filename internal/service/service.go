package service

import (
	"context"

	"github.com/Astemirdum/bookshelf-service/internal/model"
	bookRepo "github.com/Astemirdum/bookshelf-service/internal/repository"
	"go.uber.org/zap"
)

const anonymousAuthor = "Anonymous"

type Service struct {
	log  *zap.Logger
	repo bookRepo.Repository
}

func NewService(repo bookRepo.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

func (s *Service) List(ctx context.Context, pageSize int, pageToken string) (model.ListBooks, error) {
	return s.repo.List(ctx, pageSize, pageToken)
}

func (s *Service) ListBy(ctx context.Context, ownerID string, pageSize int, pageToken string) (model.ListBooks, error) {
	return s.repo.ListBy(ctx, ownerID, pageSize, pageToken)
}

func (s *Service) Read(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.Read(ctx, id)
}

func (s *Service) Create(ctx context.Context, data model.BookData) (model.Book, error) {
	if data.CreatedBy == "" {
		data.CreatedBy = anonymousAuthor
	}
	return s.repo.Create(ctx, data)
}

func (s *Service) Update(ctx context.Context, id int64, data model.BookData) (model.Book, error) {
	return s.repo.Update(ctx, id, data)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
