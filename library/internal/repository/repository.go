package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

type Repository interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) (bool, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UpdateUser(ctx context.Context, id int64, user model.User) (model.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)

	ListLoans(ctx context.Context) ([]model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, error)
	HasActiveLoan(ctx context.Context, bookID int64) (bool, error)
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	FinishLoan(ctx context.Context, id int64, returnDate model.Date) (model.Loan, error)
	DeleteLoan(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName = `books`
	usersTableName = `users`
	loansTableName = `loans`

	loansUserFKey       = `loans_user_id_fkey`
	loansBookFKey       = `loans_book_id_fkey`
	loansActiveBookUIdx = `loans_active_book_uidx`
	usersEmailKey       = `users_email_key`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	bookColumns = []string{"id", "title", "author", "isbn", "category", "publish_date"}
	userColumns = []string{"id", "name", "email", "phone", "created_at"}
)

func returning(columns []string) string {
	return "returning " + strings.Join(columns, ", ")
}

// pgError returns the postgres error behind err, if any.
func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, errors.Wrap(err, "ListBooks")
	}
	return books, nil
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, errors.Wrap(err, "GetBook")
	}
	return book, nil
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "category", "publish_date").
		Values(book.Title, book.Author, book.Isbn, book.Category, book.PublishDate).
		Suffix(returning(bookColumns)).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var created model.Book
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Book{}, errors.Wrap(err, "CreateBook")
	}
	return created, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int64, book model.Book) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		SetMap(map[string]interface{}{
			"title":        book.Title,
			"author":       book.Author,
			"isbn":         book.Isbn,
			"category":     book.Category,
			"publish_date": book.PublishDate,
		}).
		Where(sq.Eq{"id": id}).
		Suffix(returning(bookColumns)).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var updated model.Book
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, errors.Wrap(err, "UpdateBook")
	}
	return updated, nil
}

func (r *repository) DeleteBook(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return false, errs.ErrBookReferenced
		}
		return false, errors.Wrap(err, "DeleteBook")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0)
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, errors.Wrap(err, "ListUsers")
	}
	return users, nil
}

func (r *repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, errors.Wrap(err, "GetUser")
	}
	return user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query, args, err := qb.Select("1").
		Prefix("select exists(").
		From(usersTableName).
		Where(sq.Eq{"email": email}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "EmailExists")
	}
	return exists, nil
}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("name", "email", "phone", "created_at").
		Values(user.Name, user.Email, user.Phone, user.CreatedAt).
		Suffix(returning(userColumns)).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var created model.User
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errs.ErrEmailExists
		}
		r.log.Error("CreateUser", zap.String("q", query), zap.Error(err))
		return model.User{}, errors.Wrap(err, "CreateUser")
	}
	return created, nil
}

func (r *repository) UpdateUser(ctx context.Context, id int64, user model.User) (model.User, error) {
	query, args, err := qb.Update(usersTableName).
		SetMap(map[string]interface{}{
			"name":       user.Name,
			"email":      user.Email,
			"phone":      user.Phone,
			"created_at": user.CreatedAt,
		}).
		Where(sq.Eq{"id": id}).
		Suffix(returning(userColumns)).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var updated model.User
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		if pgErr, ok := pgError(err); ok && pgErr.ConstraintName == usersEmailKey {
			return model.User{}, errs.ErrEmailExists
		}
		return model.User{}, errors.Wrap(err, "UpdateUser")
	}
	return updated, nil
}

func (r *repository) DeleteUser(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.Delete(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return false, errs.ErrUserReferenced
		}
		return false, errors.Wrap(err, "DeleteUser")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// loanRow is a loan joined with its user and book.
type loanRow struct {
	ID         int64            `db:"id"`
	Status     model.LoanStatus `db:"status"`
	LoanDate   model.Date       `db:"loan_date"`
	ReturnDate *model.Date      `db:"return_date"`

	UserID        int64      `db:"user_id"`
	UserName      string     `db:"user_name"`
	UserEmail     string     `db:"user_email"`
	UserPhone     string     `db:"user_phone"`
	UserCreatedAt model.Date `db:"user_created_at"`

	BookID          int64      `db:"book_id"`
	BookTitle       string     `db:"book_title"`
	BookAuthor      string     `db:"book_author"`
	BookIsbn        string     `db:"book_isbn"`
	BookCategory    string     `db:"book_category"`
	BookPublishDate model.Date `db:"book_publish_date"`
}

func (r loanRow) toModel() model.Loan {
	return model.Loan{
		ID:         r.ID,
		Status:     r.Status,
		LoanDate:   r.LoanDate,
		ReturnDate: r.ReturnDate,
		User: &model.User{
			ID:        r.UserID,
			Name:      r.UserName,
			Email:     r.UserEmail,
			Phone:     r.UserPhone,
			CreatedAt: r.UserCreatedAt,
		},
		Book: &model.Book{
			ID:          r.BookID,
			Title:       r.BookTitle,
			Author:      r.BookAuthor,
			Isbn:        r.BookIsbn,
			Category:    r.BookCategory,
			PublishDate: r.BookPublishDate,
		},
	}
}

func selectLoans() sq.SelectBuilder {
	return qb.Select(
		"l.id", "l.status", "l.loan_date", "l.return_date",
		"u.id as user_id", "u.name as user_name", "u.email as user_email",
		"u.phone as user_phone", "u.created_at as user_created_at",
		"b.id as book_id", "b.title as book_title", "b.author as book_author",
		"b.isbn as book_isbn", "b.category as book_category", "b.publish_date as book_publish_date",
	).
		From(loansTableName + " l").
		Join(fmt.Sprintf("%s u on u.id = l.user_id", usersTableName)).
		Join(fmt.Sprintf("%s b on b.id = l.book_id", booksTableName))
}

func (r *repository) ListLoans(ctx context.Context) ([]model.Loan, error) {
	query, args, err := selectLoans().OrderBy("l.id").ToSql()
	if err != nil {
		return nil, err
	}
	var rows []loanRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "ListLoans")
	}
	loans := make([]model.Loan, 0, len(rows))
	for _, row := range rows {
		loans = append(loans, row.toModel())
	}
	return loans, nil
}

func (r *repository) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	query, args, err := selectLoans().
		Where(sq.Eq{"l.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var row loanRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, errors.Wrap(err, "GetLoan")
	}
	return row.toModel(), nil
}

func (r *repository) HasActiveLoan(ctx context.Context, bookID int64) (bool, error) {
	query, args, err := qb.Select("1").
		Prefix("select exists(").
		From(loansTableName).
		Where(sq.Eq{"book_id": bookID, "status": model.LoanStatusActive}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}
	var active bool
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&active); err != nil {
		return false, errors.Wrap(err, "HasActiveLoan")
	}
	return active, nil
}

// CreateLoan relies on loans_active_book_uidx to reject a second active
// loan of the same book.
func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := qb.Insert(loansTableName).
		Columns("status", "loan_date", "return_date", "user_id", "book_id").
		Values(loan.Status, loan.LoanDate, loan.ReturnDate, loan.UserID(), loan.BookID()).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if pgErr, ok := pgError(err); ok {
			switch pgErr.ConstraintName {
			case loansActiveBookUIdx:
				return model.Loan{}, errs.ErrBookNotAvailable
			case loansUserFKey:
				return model.Loan{}, errs.ErrUserNotFound
			case loansBookFKey:
				return model.Loan{}, errs.ErrBookNotFound
			}
		}
		r.log.Error("CreateLoan", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Loan{}, errors.Wrap(err, "CreateLoan")
	}
	return r.GetLoan(ctx, id)
}

func (r *repository) FinishLoan(ctx context.Context, id int64, returnDate model.Date) (model.Loan, error) {
	query, args, err := qb.Update(loansTableName).
		Set("status", model.LoanStatusFinished).
		Set("return_date", returnDate).
		Where(sq.Eq{"id": id, "status": model.LoanStatusActive}).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return model.Loan{}, errors.Wrap(err, "FinishLoan")
	}
	return r.GetLoan(ctx, id)
}

func (r *repository) DeleteLoan(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.Delete(loansTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, errors.Wrap(err, "DeleteLoan")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
