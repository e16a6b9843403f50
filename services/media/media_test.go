package media

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"trainhub/logger"
	"trainhub/testutil"
	"trainhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), "\x00\x00\x00\rIHDR"...)

func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestUploadListDelete(t *testing.T) {
	cfg := testutil.Config(t)
	db := testutil.DB(t)
	svc := NewService(db, cfg, logger.Nop())
	ctx := context.Background()

	row, err := svc.Upload(ctx, 1, fileHeader(t, "Logo.PNG", "image/png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "images", row.Category)
	assert.Equal(t, "image/png", row.MimeType)
	assert.Equal(t, "Logo.PNG", row.OriginalName)
	assert.Equal(t, ".png", filepath.Ext(row.FileName))
	assert.Equal(t, int64(len(pngBytes)), row.Size)
	assert.Equal(t, cfg.PublicBaseURL+"/uploads/images/"+row.FileName, row.URL)

	stored, err := os.ReadFile(row.Path)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	_, err = svc.Upload(ctx, 1, fileHeader(t, "notes.txt", "text/plain", []byte("hello")))
	require.NoError(t, err)

	images, err := svc.List(ctx, ListFilter{Category: "images"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), images.Total)

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	require.NoError(t, svc.Delete(ctx, row.ID))
	_, err = os.Stat(row.Path)
	assert.True(t, os.IsNotExist(err))

	_, err = svc.Get(ctx, row.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestUploadTypeComesFromContent(t *testing.T) {
	cfg := testutil.Config(t)
	db := testutil.DB(t)
	svc := NewService(db, cfg, logger.Nop())
	ctx := context.Background()

	page := []byte("<!DOCTYPE html><html><body><script>alert(1)</script></body></html>")
	_, err := svc.Upload(ctx, 1, fileHeader(t, "avatar.png", "image/png", page))
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)
	_, err = svc.Upload(ctx, 1, fileHeader(t, "icon.svg", "image/svg+xml", svg))
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
	_, err = os.Stat(filepath.Join(cfg.UploadDir, "images"))
	assert.True(t, os.IsNotExist(err))

	row, err := svc.Upload(ctx, 1, fileHeader(t, "photo.html", "text/html", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "images", row.Category)
	assert.Equal(t, "image/png", row.MimeType)
	assert.Equal(t, ".png", filepath.Ext(row.FileName))

	row, err = svc.Upload(ctx, 1, fileHeader(t, "fake.jpg", "image/jpeg", []byte("just some notes")))
	require.NoError(t, err)
	assert.Equal(t, "documents", row.Category)
	assert.Equal(t, "text/plain", row.MimeType)
	assert.Equal(t, ".txt", filepath.Ext(row.FileName))

	var count int64
	require.NoError(t, db.Table("media_files").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestMediaCategory(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":      "images",
		"VIDEO/mp4":       "videos",
		"audio/mpeg":      "audio",
		"application/pdf": "documents",
	}
	for mime, want := range tests {
		assert.Equal(t, want, utils.MediaCategory(mime), mime)
	}
}
