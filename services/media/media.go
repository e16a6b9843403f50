package media

import (
	"context"
	"mime/multipart"
	"path/filepath"

	"trainhub/config"
	"trainhub/logger"
	"trainhub/models"
	"trainhub/services/common"
	"trainhub/utils"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"
)

// MaxUploadSize caps a single upload.
const MaxUploadSize = 200 << 20

type ListFilter struct {
	Category string `query:"category" validate:"omitempty,oneof=images documents videos audio"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type Service struct {
	db  *gorm.DB
	cfg *config.Config
	log *logger.Logger
}

func NewService(db *gorm.DB, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{db: db, cfg: cfg, log: log}
}

// blockedTypes are rendered as active content by browsers and would be
// served from the uploads origin.
var blockedTypes = []string{
	"text/html",
	"application/xhtml+xml",
	"image/svg+xml",
	"text/javascript",
	"application/javascript",
}

// Upload stores the file under its category directory and records it. The
// category, extension and stored mime type come from the sniffed content.
// The stored file is removed again when the row cannot be written.
func (s *Service) Upload(ctx context.Context, uploaderID uint, file *multipart.FileHeader) (*models.MediaFile, error) {
	if file.Size > MaxUploadSize {
		return nil, utils.BadRequest("Validation failed!", "file exceeds the 200MB limit")
	}
	detected, err := utils.DetectUpload(file)
	if err != nil {
		return nil, err
	}
	mimeType := utils.BaseMimeType(detected.String())
	if mimetype.EqualsAny(mimeType, blockedTypes...) {
		return nil, utils.BadRequest("Validation failed!", "files of type "+mimeType+" are not allowed")
	}
	if declared := utils.BaseMimeType(file.Header.Get("Content-Type")); declared != "" && declared != mimeType {
		s.log.Debug("upload content type corrected", "declared", declared, "detected", mimeType)
	}
	category := utils.MediaCategory(mimeType)

	fileName, path, err := utils.SaveUploadedFile(file, filepath.Join(s.cfg.UploadDir, category), detected.Extension())
	if err != nil {
		return nil, err
	}

	row := models.MediaFile{
		FileName:     fileName,
		OriginalName: file.Filename,
		MimeType:     mimeType,
		Size:         file.Size,
		Category:     category,
		Path:         path,
		URL:          utils.GetFileURL(s.cfg.PublicBaseURL, category, fileName),
		UploadedBy:   uploaderID,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if rmErr := utils.RemoveFile(path); rmErr != nil {
			s.log.Warn("failed to remove orphaned upload", "path", path, "error", rmErr)
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) (utils.Page[models.MediaFile], error) {
	q := s.db.WithContext(ctx).Model(&models.MediaFile{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	return common.Paginate[models.MediaFile](q, utils.NewPagination(f.Page, f.Limit), "created_at desc, id desc")
}

func (s *Service) Get(ctx context.Context, id uint) (*models.MediaFile, error) {
	return common.FindByID[models.MediaFile](ctx, s.db, id, "Media file")
}

// Delete removes the row and then the stored file.
func (s *Service) Delete(ctx context.Context, id uint) error {
	row, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(row).Error; err != nil {
		return err
	}
	if err := utils.RemoveFile(row.Path); err != nil {
		s.log.Warn("failed to remove upload", "path", row.Path, "error", err)
	}
	return nil
}
