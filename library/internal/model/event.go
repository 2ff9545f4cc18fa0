package model

import (
	"time"

	"github.com/google/uuid"
)

type LoanEventType string

const (
	LoanCreated   LoanEventType = "LOAN_CREATED"
	LoanFinished  LoanEventType = "LOAN_FINISHED"
	LoanCancelled LoanEventType = "LOAN_CANCELLED"
)

type LoanEvent struct {
	ID         uuid.UUID     `json:"id"`
	Type       LoanEventType `json:"type"`
	LoanID     int64         `json:"loanId"`
	BookID     int64         `json:"bookId"`
	UserID     int64         `json:"userId"`
	Status     LoanStatus    `json:"status"`
	OccurredAt time.Time     `json:"occurredAt"`
}

func NewLoanEvent(typ LoanEventType, loan Loan, at time.Time) LoanEvent {
	return LoanEvent{
		ID:         uuid.New(),
		Type:       typ,
		LoanID:     loan.ID,
		BookID:     loan.BookID(),
		UserID:     loan.UserID(),
		Status:     loan.Status,
		OccurredAt: at.UTC(),
	}
}
