package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/bookshelf-service/internal/errs"
	"github.com/Astemirdum/bookshelf-service/internal/storage"
	md "github.com/Astemirdum/bookshelf-service/pkg/middleware"
	"github.com/Astemirdum/bookshelf-service/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// defaultPageSize caps every list page, HTML and JSON alike.
const defaultPageSize = 10

type Handler struct {
	bookSvc  BookService
	uploader storage.Uploader
	auth     *Auth
	enqueuer Enqueuer
	log      *zap.Logger
}

func New(bookSvc BookService, uploader storage.Uploader, auth *Auth, enqueuer Enqueuer, log *zap.Logger) *Handler {
	return &Handler{
		bookSvc:  bookSvc,
		uploader: uploader,
		auth:     auth,
		enqueuer: enqueuer,
		log:      log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
	)

	e.Validator = validate.NewCustomValidator()
	e.Renderer = NewRenderer()
	e.HTTPErrorHandler = h.errorHandler

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/books")
	})
	e.GET("/manage/health", h.Health)

	e.GET(loginPath, h.auth.Login)
	e.GET(callbackPath, h.auth.Callback)
	e.GET(logoutPath, h.auth.Logout)

	books := e.Group("/books", h.auth.TemplateVars)
	books.GET("", h.listBooks)
	books.GET("/mine", h.myBooks, h.auth.Required)
	books.GET("/add", h.addBookForm)
	books.POST("/add", h.createBook)
	books.GET("/:book", h.viewBook)
	books.GET("/:book/edit", h.editBookForm)
	books.POST("/:book/edit", h.updateBook)
	books.GET("/:book/delete", h.deleteBook)

	api := e.Group("/api/books")
	api.GET("", h.listBooksAPI)
	api.POST("", h.createBookAPI)
	api.GET("/:book", h.getBookAPI)
	api.PUT("/:book", h.updateBookAPI)
	api.DELETE("/:book", h.deleteBookAPI)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// errorHandler is the single sink for every error a route returns. Routes
// attach a response-safe message (APIError for JSON, string for HTML);
// anything without one is logged and answered with a generic 500.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			h.log.Error("request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		}
		switch m := he.Message.(type) {
		case errs.APIError:
			_ = c.JSON(he.Code, m) //nolint:errcheck
		case string:
			if c.Echo().Renderer != nil {
				if rerr := c.Render(he.Code, "error.html", map[string]interface{}{"message": m}); rerr == nil {
					return
				}
			}
			_ = c.String(he.Code, m) //nolint:errcheck
		default:
			_ = c.JSON(he.Code, map[string]interface{}{"message": m}) //nolint:errcheck
		}
		return
	}

	h.log.Error("unhandled error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	_ = c.String(http.StatusInternalServerError, "Something broke!") //nolint:errcheck
}

func httpStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, errs.CodeNotFound
	case errors.Is(err, errs.ErrInvalidCursor):
		return http.StatusBadRequest, errs.CodeInvalidCursor
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, errs.CodeValidation
	case errors.Is(err, errs.ErrUploadFailed):
		return http.StatusInternalServerError, errs.CodeUploadFailed
	default:
		return http.StatusInternalServerError, errs.CodeInternal
	}
}

// apiError formats a model error for the JSON router.
func apiError(err error) *echo.HTTPError {
	status, code := httpStatus(err)
	return echo.NewHTTPError(status, errs.APIError{Message: err.Error(), InternalCode: code})
}

// htmlError attaches a plain safe message for known error kinds; everything
// else falls through to the generic handler untouched.
func htmlError(err error) error {
	status, code := httpStatus(err)
	if code == errs.CodeInternal {
		return err
	}
	return echo.NewHTTPError(status, err.Error())
}

func bookID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("book"), 10, 64)
	if err != nil {
		return 0, errors.Wrap(errs.ErrValidation, "invalid book id")
	}
	return id, nil
}
