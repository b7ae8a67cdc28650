package handler

import (
	"fmt"
	"net/http"

	"github.com/Astemirdum/bookshelf-service/internal/model"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// listBooks renders a page of books (up to ten at a time).
func (h *Handler) listBooks(c echo.Context) error {
	list, err := h.bookSvc.List(c.Request().Context(), defaultPageSize, c.QueryParam("pageToken"))
	if err != nil {
		return htmlError(err)
	}
	return c.Render(http.StatusOK, "list.html", h.renderData(c, map[string]interface{}{
		"books":         list.Items,
		"nextPageToken": list.NextPageToken,
	}))
}

// myBooks renders the current user's books. The route is gated by
// auth.Required.
func (h *Handler) myBooks(c echo.Context) error {
	profile, ok := h.auth.Profile(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	list, err := h.bookSvc.ListBy(c.Request().Context(), profile.ID, defaultPageSize, c.QueryParam("pageToken"))
	if err != nil {
		return htmlError(err)
	}
	return c.Render(http.StatusOK, "list.html", h.renderData(c, map[string]interface{}{
		"books":         list.Items,
		"nextPageToken": list.NextPageToken,
	}))
}

func (h *Handler) addBookForm(c echo.Context) error {
	return c.Render(http.StatusOK, "form.html", h.renderData(c, map[string]interface{}{
		"book":   model.Book{},
		"action": "Add",
	}))
}

func (h *Handler) createBook(c echo.Context) error {
	data, err := h.bindBookForm(c)
	if err != nil {
		return err
	}

	if profile, ok := h.auth.Profile(c); ok {
		data.CreatedBy = profile.DisplayName
		data.CreatedByID = &profile.ID
	}

	book, err := h.bookSvc.Create(c.Request().Context(), data)
	if err != nil {
		return htmlError(err)
	}
	h.publish(c, kafka.EventBookCreated, book.ID)

	return c.Redirect(http.StatusFound, fmt.Sprintf("/books/%d", book.ID))
}

func (h *Handler) editBookForm(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return htmlError(err)
	}
	book, err := h.bookSvc.Read(c.Request().Context(), id)
	if err != nil {
		return htmlError(err)
	}
	return c.Render(http.StatusOK, "form.html", h.renderData(c, map[string]interface{}{
		"book":   book,
		"action": "Edit",
	}))
}

func (h *Handler) updateBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return htmlError(err)
	}
	data, err := h.bindBookForm(c)
	if err != nil {
		return err
	}

	book, err := h.bookSvc.Update(c.Request().Context(), id, data)
	if err != nil {
		return htmlError(err)
	}
	h.publish(c, kafka.EventBookUpdated, book.ID)

	return c.Redirect(http.StatusFound, fmt.Sprintf("/books/%d", book.ID))
}

func (h *Handler) viewBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return htmlError(err)
	}
	book, err := h.bookSvc.Read(c.Request().Context(), id)
	if err != nil {
		return htmlError(err)
	}
	return c.Render(http.StatusOK, "view.html", h.renderData(c, map[string]interface{}{
		"book": book,
	}))
}

func (h *Handler) deleteBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return htmlError(err)
	}
	if err := h.bookSvc.Delete(c.Request().Context(), id); err != nil {
		return htmlError(err)
	}
	h.publish(c, kafka.EventBookDeleted, id)

	return c.Redirect(http.StatusFound, "/books")
}

// bindBookForm reads the submitted form fields and, when an image file is
// attached, uploads it and carries its public URL on the payload. A missing
// file field is not an error.
func (h *Handler) bindBookForm(c echo.Context) (model.BookData, error) {
	var data model.BookData
	if err := c.Bind(&data); err != nil {
		return model.BookData{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(data); err != nil {
		return model.BookData{}, err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return data, nil
	}
	url, err := h.uploader.Upload(c.Request().Context(), fh)
	if err != nil {
		return model.BookData{}, htmlError(err)
	}
	data.ImageURL = &url

	return data, nil
}

func (h *Handler) publish(c echo.Context, event string, id int64) {
	ev := kafka.EventBook{Event: event, BookID: id, UserID: h.userID(c)}
	if err := h.enqueuer.Enqueue(kafka.BooksTopic, ev); err != nil {
		h.log.Warn("enqueue", zap.String("event", event), zap.Int64("id", id), zap.Error(err))
	}
}

// userID names the session user on published events; anonymous and API
// callers leave it empty.
func (h *Handler) userID(c echo.Context) string {
	if h.auth == nil {
		return ""
	}
	if p, ok := h.auth.Profile(c); ok {
		return p.ID
	}
	return ""
}

// renderData merges page data with the template variables the auth middleware
// exposes (profile, login, logout).
func (h *Handler) renderData(c echo.Context, data map[string]interface{}) map[string]interface{} {
	for _, key := range []string{profileKey, "login", "logout"} {
		if v := c.Get(key); v != nil {
			data[key] = v
		}
	}
	return data
}
