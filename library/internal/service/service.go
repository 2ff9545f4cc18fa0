package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/events"
	"github.com/Astemirdum/library-management/library/internal/model"
	libraryRepo "github.com/Astemirdum/library-management/library/internal/repository"
)

type Publisher interface {
	Publish(ctx context.Context, event model.LoanEvent) error
}

type Service struct {
	log       *zap.Logger
	repo      libraryRepo.Repository
	publisher Publisher
	now       func() time.Time
}

type Option func(s *Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo libraryRepo.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		publisher: events.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publish never fails the caller: the loan change is already stored.
func (s *Service) publish(ctx context.Context, typ model.LoanEventType, loan model.Loan) {
	event := model.NewLoanEvent(typ, loan, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("publish loan event",
			zap.String("type", string(typ)),
			zap.Int64("loanId", loan.ID),
			zap.Error(err))
	}
}
