package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository/memory"
	"github.com/Astemirdum/library-management/library/internal/service"
)

type recorder struct {
	mu     sync.Mutex
	events []model.LoanEvent
	err    error
}

func (r *recorder) Publish(_ context.Context, event model.LoanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recorder) types() []model.LoanEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]model.LoanEventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

var today = time.Date(2024, time.September, 14, 18, 30, 0, 0, time.UTC)

func newService(t *testing.T) (*service.Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	svc := service.NewService(memory.NewRepository(), zap.NewNop(),
		service.WithPublisher(rec),
		service.WithClock(func() time.Time { return today }))
	return svc, rec
}

func paul() model.User {
	return model.User{
		Name:      "Paul",
		Email:     "paul2@gmail.com",
		Phone:     "0000000",
		CreatedAt: model.NewDate(2024, time.September, 14),
	}
}

func domCasmurro() model.Book {
	return model.Book{
		Title:       "Dom Casmurro",
		Author:      "Machado de Assis",
		Isbn:        "9788542221091",
		Category:    "Romance",
		PublishDate: model.NewDate(1899, time.December, 5),
	}
}

func loanOf(userID, bookID int64) model.Loan {
	return model.Loan{
		LoanDate: model.NewDate(2024, time.September, 10),
		User:     &model.User{ID: userID},
		Book:     &model.Book{ID: bookID},
	}
}

func TestService_Books(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t)

	book, err := svc.CreateBook(ctx, domCasmurro())
	require.NoError(t, err)
	assert.Equal(t, int64(1), book.ID)

	got, err := svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book, got)

	upd := domCasmurro()
	upd.Category = "Classic"
	updated, err := svc.UpdateBook(ctx, book.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Classic", updated.Category)
	assert.Equal(t, book.ID, updated.ID)

	_, err = svc.UpdateBook(ctx, 99, upd)
	require.ErrorIs(t, err, errs.ErrBookNotFound)

	books, err := svc.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	ok, err := svc.DeleteBook(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.DeleteBook(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = svc.GetBook(ctx, book.ID)
	require.ErrorIs(t, err, errs.ErrBookNotFound)
}

func TestService_Users(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t)

	ok, err := svc.CheckUserParameters(ctx, paul())
	require.NoError(t, err)
	assert.True(t, ok)

	user, err := svc.CreateUser(ctx, paul())
	require.NoError(t, err)

	ok, err = svc.CheckUserParameters(ctx, paul())
	require.NoError(t, err)
	assert.False(t, ok, "email is taken")

	_, err = svc.CreateUser(ctx, paul())
	require.ErrorIs(t, err, errs.ErrEmailExists)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = svc.GetUser(ctx, 99)
	require.ErrorIs(t, err, errs.ErrUserNotFound)

	ok, err = svc.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_CheckUserAndBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t)
	user, err := svc.CreateUser(ctx, paul())
	require.NoError(t, err)
	book, err := svc.CreateBook(ctx, domCasmurro())
	require.NoError(t, err)

	tests := []struct {
		name     string
		loan     model.Loan
		wantUser bool
		wantBook bool
	}{
		{name: "both exist", loan: loanOf(user.ID, book.ID), wantUser: true, wantBook: true},
		{name: "unknown user", loan: loanOf(99, book.ID), wantBook: true},
		{name: "unknown book", loan: loanOf(user.ID, 99), wantUser: true},
		{name: "no refs", loan: model.Loan{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			okUser, err := svc.CheckUser(ctx, tt.loan)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, okUser)
			okBook, err := svc.CheckBook(ctx, tt.loan)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBook, okBook)
		})
	}
}

func TestService_LoanLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, rec := newService(t)
	user, err := svc.CreateUser(ctx, paul())
	require.NoError(t, err)
	book, err := svc.CreateBook(ctx, domCasmurro())
	require.NoError(t, err)

	in := loanOf(user.ID, book.ID)
	in.Status = model.LoanStatusFinished
	returned := model.NewDate(2024, time.September, 11)
	in.ReturnDate = &returned

	loan, err := svc.CreateLoan(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, model.LoanStatusActive, loan.Status, "status from input is ignored")
	assert.Nil(t, loan.ReturnDate)
	assert.Equal(t, model.NewDate(2024, time.September, 10), loan.LoanDate)
	require.NotNil(t, loan.User)
	assert.Equal(t, user, *loan.User)
	require.NotNil(t, loan.Book)
	assert.Equal(t, book, *loan.Book)

	_, err = svc.CreateLoan(ctx, loanOf(user.ID, book.ID))
	require.ErrorIs(t, err, errs.ErrBookNotAvailable)
	require.ErrorIs(t, err, errs.ErrConflict)

	got, err := svc.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan, got)

	finished, err := svc.FinishLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LoanStatusFinished, finished.Status)
	require.NotNil(t, finished.ReturnDate)
	assert.Equal(t, "14-09-2024", finished.ReturnDate.String())

	again, err := svc.FinishLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, finished, again)

	_, err = svc.FinishLoan(ctx, 99)
	require.ErrorIs(t, err, errs.ErrLoanNotFound)

	next, err := svc.CreateLoan(ctx, loanOf(user.ID, book.ID))
	require.NoError(t, err, "finished loan frees the book")

	loans, err := svc.ListLoans(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 2)

	ok, err := svc.DeleteLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.DeleteLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.DeleteLoan(ctx, next.ID)
	require.NoError(t, err)
	assert.True(t, ok, "active loans can be cancelled")

	assert.Equal(t, []model.LoanEventType{
		model.LoanCreated,
		model.LoanFinished,
		model.LoanCreated,
		model.LoanCancelled,
		model.LoanCancelled,
	}, rec.types())
}

func TestService_CreateLoan_danglingRefs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, rec := newService(t)
	book, err := svc.CreateBook(ctx, domCasmurro())
	require.NoError(t, err)

	_, err = svc.CreateLoan(ctx, loanOf(99, book.ID))
	require.ErrorIs(t, err, errs.ErrUserNotFound)
	assert.Empty(t, rec.types())
}

func TestService_publishFailureIsIgnored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rec := &recorder{err: errors.New("broker down")}
	svc := service.NewService(memory.NewRepository(), zap.NewNop(), service.WithPublisher(rec))
	user, err := svc.CreateUser(ctx, paul())
	require.NoError(t, err)
	book, err := svc.CreateBook(ctx, domCasmurro())
	require.NoError(t, err)

	loan, err := svc.CreateLoan(ctx, loanOf(user.ID, book.ID))
	require.NoError(t, err)
	assert.Equal(t, []model.LoanEventType{model.LoanCreated}, rec.types())
	assert.Equal(t, loan.ID, rec.events[0].LoanID)
}
