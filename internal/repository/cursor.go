package repository

import (
	"encoding/base64"
	"encoding/json"

	"github.com/Astemirdum/bookshelf-service/internal/errs"
	"github.com/pkg/errors"
)

// cursorData is the position a list call resumes from. Callers only ever see
// the encoded form and must treat it as opaque.
type cursorData struct {
	AfterID int64 `json:"after_id"`
}

func encodeCursor(data cursorData) string {
	if data.AfterID == 0 {
		return ""
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(raw)
}

func decodeCursor(token string) (cursorData, error) {
	if token == "" {
		return cursorData{}, nil
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return cursorData{}, errors.Wrap(errs.ErrInvalidCursor, err.Error())
	}

	var data cursorData
	if err := json.Unmarshal(raw, &data); err != nil {
		return cursorData{}, errors.Wrap(errs.ErrInvalidCursor, err.Error())
	}
	if data.AfterID <= 0 {
		return cursorData{}, errs.ErrInvalidCursor
	}
	return data, nil
}
