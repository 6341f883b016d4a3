package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lms-platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalProvider(t *testing.T) (*LocalProvider, *httptest.Server) {
	t.Helper()
	router := chi.NewRouter()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	provider, err := NewLocalProvider(&config.StorageConfig{
		Provider:      ProviderLocal,
		LocalDir:      t.TempDir(),
		PublicBaseURL: srv.URL,
		SigningKey:    strings.Repeat("k", 32),
		UploadURLTTL:  "15m",
	})
	require.NoError(t, err)
	provider.Routes(router)
	return provider, srv
}

func doRequest(t *testing.T, method, rawURL, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, rawURL, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestLocalProvider_UploadAndDownload(t *testing.T) {
	provider, _ := newLocalProvider(t)
	ctx := context.Background()
	key := "media/u-1/m-1/notes.txt"

	putURL, err := provider.GeneratePresignedPutURL(ctx, key, "text/plain", time.Minute)
	require.NoError(t, err)
	resp := doRequest(t, http.MethodPut, putURL, "lecture notes")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := os.ReadFile(filepath.Join(provider.dir, "media", "u-1", "m-1", "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "lecture notes", string(stored))

	getURL, err := provider.GeneratePresignedGetURL(ctx, key, time.Minute)
	require.NoError(t, err)
	resp = doRequest(t, http.MethodGet, getURL, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, provider.DeleteObject(ctx, key))
	_, err = os.Stat(filepath.Join(provider.dir, "media", "u-1", "m-1", "notes.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalProvider_RejectsBadSignatures(t *testing.T) {
	provider, _ := newLocalProvider(t)
	ctx := context.Background()
	key := "media/u-1/m-1/notes.txt"

	getURL, err := provider.GeneratePresignedGetURL(ctx, key, time.Minute)
	require.NoError(t, err)

	// подпись GET не подходит для PUT
	resp := doRequest(t, http.MethodPut, getURL, "x")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	putURL, err := provider.GeneratePresignedPutURL(ctx, key, "text/plain", time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(putURL)
	require.NoError(t, err)
	q := u.Query()
	q.Set("expires", "9999999999")
	u.RawQuery = q.Encode()
	resp = doRequest(t, http.MethodPut, u.String(), "x")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	otherKey := strings.Replace(putURL, "notes.txt", "other.txt", 1)
	resp = doRequest(t, http.MethodPut, otherKey, "x")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLocalProvider_Expired(t *testing.T) {
	provider, _ := newLocalProvider(t)
	putURL, err := provider.GeneratePresignedPutURL(context.Background(), "media/a.txt", "text/plain", time.Minute)
	require.NoError(t, err)

	provider.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	resp := doRequest(t, http.MethodPut, putURL, "x")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLocalProvider_ObjectPath(t *testing.T) {
	provider, _ := newLocalProvider(t)

	for _, key := range []string{"../etc/passwd", "media/../../x", "", "/abs", "media//x"} {
		_, err := provider.objectPath(key)
		assert.Error(t, err, key)
	}

	target, err := provider.objectPath("media/u-1/file.bin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(target, provider.dir))
}
