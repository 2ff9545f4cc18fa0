package service

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	return s.repo.CreateBook(ctx, book)
}

func (s *Service) UpdateBook(ctx context.Context, id int64, book model.Book) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, book)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) (bool, error) {
	return s.repo.DeleteBook(ctx, id)
}
