package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

// loanRecord keeps references by id so that loans always show the
// current user and book.
type loanRecord struct {
	ID         int64
	Status     model.LoanStatus
	LoanDate   model.Date
	ReturnDate *model.Date
	UserID     int64
	BookID     int64
}

// Repository is an in-memory store with the same constraints as the
// postgres schema: unique user email, loans referencing existing rows and
// at most one active loan per book.
type Repository struct {
	mu    sync.RWMutex
	books map[int64]model.Book
	users map[int64]model.User
	loans map[int64]loanRecord

	bookSeq int64
	userSeq int64
	loanSeq int64
}

func NewRepository() *Repository {
	return &Repository{
		books: make(map[int64]model.Book),
		users: make(map[int64]model.User),
		loans: make(map[int64]loanRecord),
	}
}

func (m *Repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	books := make([]model.Book, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool {
		return books[i].ID < books[j].ID
	})
	return books, nil
}

func (m *Repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.books[id]
	if !ok {
		return model.Book{}, errs.ErrBookNotFound
	}
	return b, nil
}

func (m *Repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bookSeq++
	book.ID = m.bookSeq
	m.books[book.ID] = book
	return book, nil
}

func (m *Repository) UpdateBook(ctx context.Context, id int64, book model.Book) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return model.Book{}, errs.ErrBookNotFound
	}
	book.ID = id
	m.books[id] = book
	return book, nil
}

func (m *Repository) DeleteBook(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return false, nil
	}
	for _, l := range m.loans {
		if l.BookID == id {
			return false, errs.ErrBookReferenced
		}
	}
	delete(m.books, id)
	return true, nil
}

func (m *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (m *Repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return model.User{}, errs.ErrUserNotFound
	}
	return u, nil
}

func (m *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.emailTaken(email, 0), nil
}

// emailTaken reports whether a user other than except owns email.
func (m *Repository) emailTaken(email string, except int64) bool {
	for _, u := range m.users {
		if u.ID != except && u.Email == email {
			return true
		}
	}
	return false
}

func (m *Repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailTaken(user.Email, 0) {
		return model.User{}, errs.ErrEmailExists
	}
	m.userSeq++
	user.ID = m.userSeq
	m.users[user.ID] = user
	return user, nil
}

func (m *Repository) UpdateUser(ctx context.Context, id int64, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return model.User{}, errs.ErrUserNotFound
	}
	if m.emailTaken(user.Email, id) {
		return model.User{}, errs.ErrEmailExists
	}
	user.ID = id
	m.users[id] = user
	return user, nil
}

func (m *Repository) DeleteUser(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	for _, l := range m.loans {
		if l.UserID == id {
			return false, errs.ErrUserReferenced
		}
	}
	delete(m.users, id)
	return true, nil
}

func (m *Repository) ListLoans(ctx context.Context) ([]model.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	loans := make([]model.Loan, 0, len(m.loans))
	for _, l := range m.loans {
		loans = append(loans, m.hydrate(l))
	}
	sort.Slice(loans, func(i, j int) bool {
		return loans[i].ID < loans[j].ID
	})
	return loans, nil
}

func (m *Repository) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.loans[id]
	if !ok {
		return model.Loan{}, errs.ErrLoanNotFound
	}
	return m.hydrate(l), nil
}

func (m *Repository) HasActiveLoan(ctx context.Context, bookID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.hasActiveLoan(bookID), nil
}

func (m *Repository) hasActiveLoan(bookID int64) bool {
	for _, l := range m.loans {
		if l.BookID == bookID && l.Status == model.LoanStatusActive {
			return true
		}
	}
	return false
}

func (m *Repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[loan.UserID()]; !ok {
		return model.Loan{}, errs.ErrUserNotFound
	}
	if _, ok := m.books[loan.BookID()]; !ok {
		return model.Loan{}, errs.ErrBookNotFound
	}
	if loan.Status == model.LoanStatusActive && m.hasActiveLoan(loan.BookID()) {
		return model.Loan{}, errs.ErrBookNotAvailable
	}
	m.loanSeq++
	rec := loanRecord{
		ID:         m.loanSeq,
		Status:     loan.Status,
		LoanDate:   loan.LoanDate,
		ReturnDate: copyDate(loan.ReturnDate),
		UserID:     loan.UserID(),
		BookID:     loan.BookID(),
	}
	m.loans[rec.ID] = rec
	return m.hydrate(rec), nil
}

func (m *Repository) FinishLoan(ctx context.Context, id int64, returnDate model.Date) (model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.loans[id]
	if !ok {
		return model.Loan{}, errs.ErrLoanNotFound
	}
	if rec.Status == model.LoanStatusActive {
		rec.Status = model.LoanStatusFinished
		rec.ReturnDate = &returnDate
		m.loans[id] = rec
	}
	return m.hydrate(rec), nil
}

func (m *Repository) DeleteLoan(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loans[id]; !ok {
		return false, nil
	}
	delete(m.loans, id)
	return true, nil
}

func (m *Repository) hydrate(rec loanRecord) model.Loan {
	loan := model.Loan{
		ID:         rec.ID,
		Status:     rec.Status,
		LoanDate:   rec.LoanDate,
		ReturnDate: copyDate(rec.ReturnDate),
	}
	if u, ok := m.users[rec.UserID]; ok {
		loan.User = &u
	}
	if b, ok := m.books[rec.BookID]; ok {
		loan.Book = &b
	}
	return loan
}

func copyDate(d *model.Date) *model.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
