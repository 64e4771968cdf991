package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	objects map[string][]byte
	err     error
}

func (m *memoryStore) UploadObject(_ context.Context, key, _ string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return nil
}

func (m *memoryStore) ListObjects(_ context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

func TestObjectArchiver(t *testing.T) {
	store := &memoryStore{}
	a := NewObjectArchiver(store, "bucket", "/digests/")

	loc, err := a.Archive(context.Background(), "ozon/daily/2026-10-16.txt", "text/plain", []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/digests/ozon/daily/2026-10-16.txt", loc)
	assert.Equal(t, []byte("hi"), store.objects["digests/ozon/daily/2026-10-16.txt"])

	list, err := a.List(context.Background(), "ozon")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].Size)
}

func TestMultiArchiverKeepsSuccessfulCopies(t *testing.T) {
	ok := NewObjectArchiver(&memoryStore{}, "a", "")
	failing := NewObjectArchiver(&memoryStore{err: errors.New("boom")}, "b", "")

	loc, err := MultiArchiver{ok, failing}.Archive(context.Background(), "x.txt", "text/plain", nil)
	assert.Error(t, err)
	assert.Equal(t, "s3://a/x.txt", loc)

	loc, err = MultiArchiver{}.Archive(context.Background(), "x.txt", "text/plain", nil)
	assert.NoError(t, err)
	assert.Empty(t, loc)
}

func TestNewMinioClientValidates(t *testing.T) {
	_, err := NewMinioClient(S3Config{})
	assert.Error(t, err)
	_, err = NewMinioClient(S3Config{Endpoint: "s3.local"})
	assert.Error(t, err)
	_, err = NewMinioClient(S3Config{Endpoint: "s3.local", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)
}

func TestMinioClientUpload(t *testing.T) {
	var gotPath, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			gotPath = r.URL.Path
			gotType = r.Header.Get("Content-Type")
			_, _ = io.Copy(io.Discard, r.Body)
			w.Header().Set("ETag", `"abc"`)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewMinioClient(S3Config{Endpoint: srv.URL, AccessKey: "a", SecretKey: "b", Bucket: "digests"})
	require.NoError(t, err)

	require.NoError(t, c.UploadObject(context.Background(), "wb/weekly/report.txt", "text/plain", []byte("digest")))
	assert.Equal(t, "/digests/wb/weekly/report.txt", gotPath)
	assert.Equal(t, "text/plain", gotType)
}
