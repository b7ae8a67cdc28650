package model

// Book is a single shelf record. The identifier is assigned by the store and
// never changes afterwards.
type Book struct {
	ID            int64   `json:"id" db:"id"`
	Title         string  `json:"title" db:"title"`
	Author        string  `json:"author" db:"author"`
	PublishedDate string  `json:"publishedDate" db:"published_date"`
	Description   string  `json:"description" db:"description"`
	ImageURL      *string `json:"imageUrl" db:"image_url"`
	CreatedBy     string  `json:"createdBy" db:"created_by"`
	CreatedByID   *string `json:"createdById" db:"created_by_id"`
}

// BookData carries the client-supplied fields of a create or update request.
type BookData struct {
	Title         string  `json:"title" form:"title" validate:"required"`
	Author        string  `json:"author" form:"author"`
	PublishedDate string  `json:"publishedDate" form:"publishedDate"`
	Description   string  `json:"description" form:"description"`
	ImageURL      *string `json:"imageUrl" form:"imageUrl"`
	CreatedBy     string  `json:"createdBy" form:"-"`
	CreatedByID   *string `json:"createdById" form:"-"`
}

type ListBooks struct {
	Items         []Book `json:"item"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// Profile is the minimal identity extracted from the OAuth provider response.
// It lives in the session only and is never persisted on its own.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Image       string `json:"image"`
}
