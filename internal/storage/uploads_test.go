package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"coursehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestUploadsSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	u, err := NewUploads(dir)
	require.NoError(t, err)
	u.now = func() time.Time { return time.UnixMilli(1700000000000) }

	up, err := u.Save(fileHeader(t, "my photo.png", "image/png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, "1700000000000-my_photo.png", up.Filename)

	data, err := os.ReadFile(filepath.Join(dir, up.Filename))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, u.Remove(up.Filename))
	_, err = os.Stat(filepath.Join(dir, up.Filename))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, u.Remove(up.Filename))
}

func TestUploadsRejectsNonImages(t *testing.T) {
	u, err := NewUploads(t.TempDir())
	require.NoError(t, err)

	_, err = u.Save(fileHeader(t, "notes.txt", "text/plain", []byte("hi")))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = u.Save(fileHeader(t, "fake.png", "application/octet-stream", []byte("hi")))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
