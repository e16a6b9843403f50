package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MediaCategory maps a mime type to the upload sub-directory.
func MediaCategory(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "images"
	case strings.HasPrefix(mimeType, "video/"):
		return "videos"
	case strings.HasPrefix(mimeType, "audio/"):
		return "audio"
	default:
		return "documents"
	}
}

// DetectUpload sniffs the upload content. The client supplied Content-Type
// and file name are not consulted.
func DetectUpload(file *multipart.FileHeader) (*mimetype.MIME, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return mimetype.DetectReader(src)
}

// BaseMimeType drops parameters such as charset from a mime type.
func BaseMimeType(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// SaveUploadedFile copies the upload into destDir under a random name with
// the given extension and returns the stored file name and full path.
func SaveUploadedFile(file *multipart.FileHeader, destDir, ext string) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", "", err
	}

	newFilename := uuid.NewString() + strings.ToLower(ext)
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(filePath)
		return "", "", err
	}

	return newFilename, filePath, nil
}

// GetFileURL builds the public URL of a stored upload.
func GetFileURL(baseURL, category, fileName string) string {
	if fileName == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/uploads/" + category + "/" + fileName
}

// RemoveFile deletes a stored upload, ignoring missing files.
func RemoveFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
