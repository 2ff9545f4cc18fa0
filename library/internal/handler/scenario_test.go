package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/repository/memory"
	"github.com/Astemirdum/library-management/library/internal/service"
)

func TestHandler_Scenario(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, time.September, 14, 9, 0, 0, 0, time.UTC)
	svc := service.NewService(memory.NewRepository(), zap.NewNop(), service.WithClock(func() time.Time { return now }))
	e := handler.New(svc, nil, zap.NewNop()).NewRouter()

	do := func(method, target, body string) (int, string) {
		t.Helper()
		var r *http.Request
		if body == "" {
			r = httptest.NewRequest(method, target, http.NoBody)
		} else {
			r = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		return w.Code, strings.Trim(w.Body.String(), "\n")
	}

	steps := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "create user",
			method:   http.MethodPost,
			target:   "/users/",
			body:     `{"name":"Paul","email":"paul2@gmail.com","phone":"0000000","createdAt":"14-09-2024"}`,
			wantCode: http.StatusCreated,
			wantBody: userJSON,
		},
		{
			name:     "duplicate email",
			method:   http.MethodPost,
			target:   "/users/",
			body:     `{"name":"Pablo","email":"paul2@gmail.com","phone":"1111111","createdAt":"14-09-2024"}`,
			wantCode: http.StatusConflict,
			wantBody: "User email already exists",
		},
		{
			name:     "loan before the book exists",
			method:   http.MethodPost,
			target:   "/loans/",
			body:     `{"loanDate":"10-09-2024","user":{"id":1},"book":{"id":1}}`,
			wantCode: http.StatusNotFound,
			wantBody: "Book not found",
		},
		{
			name:     "loan of unknown user and book",
			method:   http.MethodPost,
			target:   "/loans/",
			body:     `{"loanDate":"10-09-2024","user":{"id":7},"book":{"id":7}}`,
			wantCode: http.StatusNotFound,
			wantBody: "User not found",
		},
		{
			name:     "create book",
			method:   http.MethodPost,
			target:   "/books/",
			body:     `{"title":"Dom Casmurro","author":"Machado de Assis","isbn":"9788542221091","category":"Romance","publishDate":"05-12-1899"}`,
			wantCode: http.StatusCreated,
			wantBody: bookJSON,
		},
		{
			name:     "create loan",
			method:   http.MethodPost,
			target:   "/loans/",
			body:     `{"loanDate":"10-09-2024","user":{"id":1},"book":{"id":1}}`,
			wantCode: http.StatusCreated,
			wantBody: loanJSON,
		},
		{
			name:     "book is taken",
			method:   http.MethodPost,
			target:   "/loans/",
			body:     `{"loanDate":"11-09-2024","user":{"id":1},"book":{"id":1}}`,
			wantCode: http.StatusConflict,
			wantBody: "Book is not available",
		},
		{
			name:     "book with loans cannot be deleted",
			method:   http.MethodDelete,
			target:   "/books/1",
			wantCode: http.StatusConflict,
			wantBody: "Book has loans",
		},
		{
			name:     "finish loan",
			method:   http.MethodPatch,
			target:   "/loans/1",
			wantCode: http.StatusOK,
			wantBody: "Loan finished successfully",
		},
		{
			name:     "finished loan",
			method:   http.MethodGet,
			target:   "/loans/1",
			wantCode: http.StatusOK,
			wantBody: `{"id":1,"status":"FINISHED","loanDate":"10-09-2024","returnDate":"14-09-2024","user":` + userJSON + `,"book":` + bookJSON + `}`,
		},
		{
			name:     "finish again",
			method:   http.MethodPatch,
			target:   "/loans/1",
			wantCode: http.StatusOK,
			wantBody: "Loan finished successfully",
		},
		{
			name:     "cancel loan",
			method:   http.MethodDelete,
			target:   "/loans/1",
			wantCode: http.StatusOK,
			wantBody: "Loan cancelled successfully",
		},
		{
			name:     "cancel again",
			method:   http.MethodDelete,
			target:   "/loans/1",
			wantCode: http.StatusNotFound,
			wantBody: "Loan not found",
		},
		{
			name:     "no loans left",
			method:   http.MethodGet,
			target:   "/loans/",
			wantCode: http.StatusOK,
			wantBody: `[]`,
		},
		{
			name:     "delete book",
			method:   http.MethodDelete,
			target:   "/books/1",
			wantCode: http.StatusOK,
			wantBody: "Book deleted successfully",
		},
		{
			name:     "delete user",
			method:   http.MethodDelete,
			target:   "/users/1",
			wantCode: http.StatusOK,
			wantBody: "User deleted successfully",
		},
		{
			name:     "user is gone",
			method:   http.MethodGet,
			target:   "/users/1",
			wantCode: http.StatusNotFound,
			wantBody: "User not found",
		},
	}
	for _, st := range steps {
		code, body := do(st.method, st.target, st.body)
		require.Equal(t, st.wantCode, code, st.name)
		require.Equal(t, st.wantBody, body, st.name)
	}
}
