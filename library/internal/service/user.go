package service

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

// CheckUserParameters reports whether user may be created, i.e. its email
// is not taken yet.
func (s *Service) CheckUserParameters(ctx context.Context, user model.User) (bool, error) {
	exists, err := s.repo.EmailExists(ctx, user.Email)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *Service) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	return s.repo.CreateUser(ctx, user)
}

func (s *Service) UpdateUser(ctx context.Context, id int64, user model.User) (model.User, error) {
	return s.repo.UpdateUser(ctx, id, user)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) (bool, error) {
	return s.repo.DeleteUser(ctx, id)
}
