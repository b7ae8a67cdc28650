package repository

import (
	"encoding/base64"
	"testing"

	"github.com/Astemirdum/bookshelf-service/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	token := encodeCursor(cursorData{AfterID: 42})
	require.NotEmpty(t, token)

	data, err := decodeCursor(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), data.AfterID)
}

func TestEncodeCursor_Zero(t *testing.T) {
	t.Parallel()

	require.Empty(t, encodeCursor(cursorData{}))
}

func TestDecodeCursor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		token   string
		afterID int64
		wantErr bool
	}{
		{
			name:  "empty token is the first page",
			token: "",
		},
		{
			name:    "valid token",
			token:   encodeCursor(cursorData{AfterID: 7}),
			afterID: 7,
		},
		{
			name:    "garbage token",
			token:   "not-a-cursor!!!",
			wantErr: true,
		},
		{
			name:    "well-formed but not json",
			token:   base64.URLEncoding.EncodeToString([]byte("hello")),
			wantErr: true,
		},
		{
			name:    "non-positive position",
			token:   base64.URLEncoding.EncodeToString([]byte(`{"after_id":-1}`)),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data, err := decodeCursor(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidCursor)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.afterID, data.AfterID)
		})
	}
}
