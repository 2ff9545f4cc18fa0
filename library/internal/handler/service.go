package handler

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/catalog"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) (bool, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	CheckUserParameters(ctx context.Context, user model.User) (bool, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UpdateUser(ctx context.Context, id int64, user model.User) (model.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)

	ListLoans(ctx context.Context) ([]model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, error)
	CheckUser(ctx context.Context, loan model.Loan) (bool, error)
	CheckBook(ctx context.Context, loan model.Loan) (bool, error)
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	FinishLoan(ctx context.Context, id int64) (model.Loan, error)
	DeleteLoan(ctx context.Context, id int64) (bool, error)
}

type CatalogService interface {
	SearchByTitle(ctx context.Context, title string) ([]byte, error)
}

var (
	_ LibraryService = (*service.Service)(nil)
	_ CatalogService = (*catalog.Client)(nil)
)
