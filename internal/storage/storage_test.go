package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	t.Parallel()

	key := objectKey("cover.jpg")
	require.True(t, strings.HasPrefix(key, "books/"))
	require.True(t, strings.HasSuffix(key, ".jpg"))

	require.NotEqual(t, key, objectKey("cover.jpg"))
	require.False(t, strings.Contains(objectKey("cover"), "."))
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	url := publicURL("bookshelf", "oss-ap-southeast-1.aliyuncs.com", "books/abc.jpg")
	require.Equal(t, "https://bookshelf.oss-ap-southeast-1.aliyuncs.com/books/abc.jpg", url)
}
