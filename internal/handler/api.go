package handler

import (
	"fmt"
	"net/http"

	"github.com/Astemirdum/bookshelf-service/internal/errs"
	"github.com/Astemirdum/bookshelf-service/internal/model"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// listBooksAPI returns a page of books as {item, nextPageToken}.
func (h *Handler) listBooksAPI(c echo.Context) error {
	list, err := h.bookSvc.List(c.Request().Context(), defaultPageSize, c.QueryParam("pageToken"))
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) getBookAPI(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return apiError(err)
	}
	book, err := h.bookSvc.Read(c.Request().Context(), id)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) createBookAPI(c echo.Context) error {
	data, err := bindBookJSON(c)
	if err != nil {
		return err
	}
	book, err := h.bookSvc.Create(c.Request().Context(), data)
	if err != nil {
		return apiError(err)
	}
	h.publish(c, kafka.EventBookCreated, book.ID)

	return c.JSON(http.StatusOK, book)
}

func (h *Handler) updateBookAPI(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return apiError(err)
	}
	data, err := bindBookJSON(c)
	if err != nil {
		return err
	}
	book, err := h.bookSvc.Update(c.Request().Context(), id, data)
	if err != nil {
		return apiError(err)
	}
	h.publish(c, kafka.EventBookUpdated, book.ID)

	return c.JSON(http.StatusOK, book)
}

func (h *Handler) deleteBookAPI(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return apiError(err)
	}
	if err := h.bookSvc.Delete(c.Request().Context(), id); err != nil {
		return apiError(err)
	}
	h.publish(c, kafka.EventBookDeleted, id)

	return c.String(http.StatusOK, "OK")
}

func bindBookJSON(c echo.Context) (model.BookData, error) {
	var data model.BookData
	if err := c.Bind(&data); err != nil {
		return model.BookData{}, apiError(errors.Wrap(errs.ErrValidation, err.Error()))
	}
	if err := c.Validate(data); err != nil {
		return model.BookData{}, apiError(errors.Wrap(errs.ErrValidation, messageOf(err)))
	}
	return data, nil
}

func messageOf(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprintf("%v", he.Message)
	}
	return err.Error()
}
