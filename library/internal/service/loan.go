package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) ListLoans(ctx context.Context) ([]model.Loan, error) {
	return s.repo.ListLoans(ctx)
}

func (s *Service) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

func (s *Service) CheckUser(ctx context.Context, loan model.Loan) (bool, error) {
	_, err := s.repo.GetUser(ctx, loan.UserID())
	return found(err)
}

func (s *Service) CheckBook(ctx context.Context, loan model.Loan) (bool, error) {
	_, err := s.repo.GetBook(ctx, loan.BookID())
	return found(err)
}

func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errs.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// CreateLoan opens an ACTIVE loan. Callers check the user and the book
// first; the store still rejects dangling references and a second active
// loan of the same book.
func (s *Service) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	active, err := s.repo.HasActiveLoan(ctx, loan.BookID())
	if err != nil {
		return model.Loan{}, err
	}
	if active {
		return model.Loan{}, errs.ErrBookNotAvailable
	}
	loan.Status = model.LoanStatusActive
	loan.ReturnDate = nil
	created, err := s.repo.CreateLoan(ctx, loan)
	if err != nil {
		return model.Loan{}, err
	}
	s.log.Info("loan created",
		zap.Int64("loanId", created.ID),
		zap.Int64("bookId", created.BookID()),
		zap.Int64("userId", created.UserID()))
	s.publish(ctx, model.LoanCreated, created)
	return created, nil
}

// FinishLoan closes an ACTIVE loan with today's date. A FINISHED loan is
// returned as is.
func (s *Service) FinishLoan(ctx context.Context, id int64) (model.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		return model.Loan{}, err
	}
	if !loan.IsActive() {
		return loan, nil
	}
	finished, err := s.repo.FinishLoan(ctx, id, model.DateOf(s.now()))
	if err != nil {
		return model.Loan{}, err
	}
	s.log.Info("loan finished", zap.Int64("loanId", id))
	s.publish(ctx, model.LoanFinished, finished)
	return finished, nil
}

func (s *Service) DeleteLoan(ctx context.Context, id int64) (bool, error) {
	loan, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	ok, err := s.repo.DeleteLoan(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	s.log.Info("loan cancelled", zap.Int64("loanId", id))
	s.publish(ctx, model.LoanCancelled, loan)
	return true, nil
}
