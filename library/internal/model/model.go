package model

type Book struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title" validate:"required,max=255" label:"Title"`
	Author      string `json:"author" db:"author" validate:"required,max=255" label:"Author"`
	Isbn        string `json:"isbn" db:"isbn" validate:"required,max=32" label:"Isbn"`
	Category    string `json:"category" db:"category" validate:"max=128" label:"Category"`
	PublishDate Date   `json:"publishDate" db:"publish_date" validate:"required,notfuture" label:"Publish date"`
}

type User struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name" validate:"required,max=255" label:"Name" msg:"required=Name can not be empty!"`
	Email     string `json:"email" db:"email" validate:"required,email,max=255" label:"Email" msg:"required=Email can not be empty!"`
	Phone     string `json:"phone" db:"phone" validate:"required,max=64" label:"Phone" msg:"required=Phone can not be empty!"`
	CreatedAt Date   `json:"createdAt" db:"created_at" validate:"required,notfuture" label:"Created at" msg:"required=Create at is required!;notfuture=Date can not be a future date"`
}

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "ACTIVE"
	LoanStatusFinished LoanStatus = "FINISHED"
)

// Loan references its User and Book by id on input; on output both are
// embedded in full.
type Loan struct {
	ID         int64      `json:"id" db:"id"`
	Status     LoanStatus `json:"status" db:"status"`
	LoanDate   Date       `json:"loanDate" db:"loan_date" validate:"required,notfuture" label:"Loan date"`
	ReturnDate *Date      `json:"returnDate" db:"return_date" validate:"omitempty,notfuture" label:"Return date"`
	User       *User      `json:"user" validate:"-"`
	Book       *Book      `json:"book" validate:"-"`
}

func (l Loan) UserID() int64 {
	if l.User == nil {
		return 0
	}
	return l.User.ID
}

func (l Loan) BookID() int64 {
	if l.Book == nil {
		return 0
	}
	return l.Book.ID
}

func (l Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}
