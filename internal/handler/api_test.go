package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Astemirdum/bookshelf-service/internal/errs"
	"github.com/Astemirdum/bookshelf-service/internal/handler"
	"github.com/Astemirdum/bookshelf-service/internal/model"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/bookshelf-service/internal/handler/mocks"
)

func newAPITest(t *testing.T) (*echo.Echo, *service_mocks.MockBookService, *service_mocks.MockEnqueuer) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)

	svc := service_mocks.NewMockBookService(c)
	enq := service_mocks.NewMockEnqueuer(c)
	h := handler.New(svc, nil, nil, enq, zap.NewNop())
	return h.NewRouter(), svc, enq
}

func strPtr(s string) *string { return &s }

func TestAPI_ListBooks(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService)

	var tests = []struct {
		name         string
		pageToken    string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					List(gomock.Any(), 10, "").
					Return(model.ListBooks{
						Items: []model.Book{
							{
								ID:            1,
								Title:         "Dune",
								Author:        "Herbert",
								PublishedDate: "1965",
								CreatedBy:     "Anonymous",
							},
						},
						NextPageToken: "tok",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"item":[{"id":1,"title":"Dune","author":"Herbert","publishedDate":"1965","description":"","imageUrl":null,"createdBy":"Anonymous","createdById":null}],"nextPageToken":"tok"}`,
			},
		},
		{
			name:      "last page omits token",
			pageToken: "tok",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					List(gomock.Any(), 10, "tok").
					Return(model.ListBooks{Items: []model.Book{}}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"item":[]}`,
			},
		},
		{
			name:      "stale token",
			pageToken: "bad",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					List(gomock.Any(), 10, "bad").
					Return(model.ListBooks{}, errs.ErrInvalidCursor)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid page token","internalCode":"INVALID_CURSOR"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc, _ := newAPITest(t)
			tt.mockBehavior(svc)

			target := "/api/books"
			if tt.pageToken != "" {
				target += "?pageToken=" + tt.pageToken
			}
			r := httptest.NewRequest(http.MethodGet, target, http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestAPI_GetBook(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		target       string
		mockBehavior func(r *service_mocks.MockBookService)
		expectedCode int
		expectedBody string
	}{
		{
			name:   "ok",
			target: "/api/books/1",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					Read(gomock.Any(), int64(1)).
					Return(model.Book{ID: 1, Title: "Dune", CreatedBy: "Anonymous"}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"title":"Dune","author":"","publishedDate":"","description":"","imageUrl":null,"createdBy":"Anonymous","createdById":null}`,
		},
		{
			name:   "not found",
			target: "/api/books/99",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					Read(gomock.Any(), int64(99)).
					Return(model.Book{}, errs.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"not found","internalCode":"NOT_FOUND"}`,
		},
		{
			name:         "invalid id",
			target:       "/api/books/abc",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"invalid book id: invalid book payload","internalCode":"VALIDATION_FAILED"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, svc, _ := newAPITest(t)
			tt.mockBehavior(svc)

			r := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestAPI_CreateBook(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		e, svc, enq := newAPITest(t)

		svc.EXPECT().
			Create(gomock.Any(), model.BookData{Title: "Dune", Author: "Herbert"}).
			Return(model.Book{ID: 5, Title: "Dune", Author: "Herbert", CreatedBy: "Anonymous"}, nil)
		enq.EXPECT().
			Enqueue(kafka.BooksTopic, kafka.EventBook{Event: kafka.EventBookCreated, BookID: 5}).
			Return(nil)

		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{"title":"Dune","author":"Herbert"}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t,
			`{"id":5,"title":"Dune","author":"Herbert","publishedDate":"","description":"","imageUrl":null,"createdBy":"Anonymous","createdById":null}`,
			strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newAPITest(t)

		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{"author":"Herbert"}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), `"internalCode":"VALIDATION_FAILED"`)
	})
}

func TestAPI_UpdateBook(t *testing.T) {
	t.Parallel()

	t.Run("ok preserves id", func(t *testing.T) {
		t.Parallel()
		e, svc, enq := newAPITest(t)

		svc.EXPECT().
			Update(gomock.Any(), int64(5), model.BookData{Title: "Dune Messiah", ImageURL: strPtr("https://img")}).
			Return(model.Book{ID: 5, Title: "Dune Messiah", ImageURL: strPtr("https://img"), CreatedBy: "Anonymous"}, nil)
		enq.EXPECT().
			Enqueue(kafka.BooksTopic, kafka.EventBook{Event: kafka.EventBookUpdated, BookID: 5}).
			Return(nil)

		r := httptest.NewRequest(http.MethodPut, "/api/books/5", strings.NewReader(`{"title":"Dune Messiah","imageUrl":"https://img"}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t,
			`{"id":5,"title":"Dune Messiah","author":"","publishedDate":"","description":"","imageUrl":"https://img","createdBy":"Anonymous","createdById":null}`,
			strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		e, svc, _ := newAPITest(t)

		svc.EXPECT().
			Update(gomock.Any(), int64(404), gomock.Any()).
			Return(model.Book{}, errs.ErrNotFound)

		r := httptest.NewRequest(http.MethodPut, "/api/books/404", strings.NewReader(`{"title":"Ghost"}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, `{"message":"not found","internalCode":"NOT_FOUND"}`, strings.Trim(w.Body.String(), "\n"))
	})
}

func TestAPI_DeleteBook(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		e, svc, enq := newAPITest(t)

		svc.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)
		enq.EXPECT().
			Enqueue(kafka.BooksTopic, kafka.EventBook{Event: kafka.EventBookDeleted, BookID: 5}).
			Return(nil)

		r := httptest.NewRequest(http.MethodDelete, "/api/books/5", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "OK", w.Body.String())
	})

	t.Run("repeated delete fails", func(t *testing.T) {
		t.Parallel()
		e, svc, _ := newAPITest(t)

		svc.EXPECT().Delete(gomock.Any(), int64(5)).Return(errs.ErrNotFound)

		r := httptest.NewRequest(http.MethodDelete, "/api/books/5", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, `{"message":"not found","internalCode":"NOT_FOUND"}`, strings.Trim(w.Body.String(), "\n"))
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()
	e, _, _ := newAPITest(t)

	r := httptest.NewRequest(http.MethodGet, "/manage/health", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}
