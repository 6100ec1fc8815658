package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubera-fin/kubera-loan-backend/internal/mapper"
	"github.com/kubera-fin/kubera-loan-backend/internal/models"
	"github.com/kubera-fin/kubera-loan-backend/internal/policy"
	"github.com/kubera-fin/kubera-loan-backend/internal/storage"
)

// ErrUploadRejected marks uploads refused before any row is created:
// unknown slot, disallowed MIME type, or a file over the size limit.
var ErrUploadRejected = errors.New("upload rejected")

// UploadConfig controls where document files land and what is accepted.
type UploadConfig struct {
	Dir              string
	MaxFileSize      int64
	AllowedMIMETypes []string
}

// DefaultUploadConfig mirrors the portal's limits: JPG/PNG/PDF, 5 MB.
func DefaultUploadConfig() UploadConfig {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads/documents"
	}
	return UploadConfig{
		Dir:              dir,
		MaxFileSize:      5 * 1024 * 1024,
		AllowedMIMETypes: []string{"image/jpeg", "image/png", "application/pdf"},
	}
}

// ApplicationService owns the intake pipeline: shape-map the payload,
// backfill mandatory columns, write through the store. Payloads may
// arrive nested (section/field) or already flat; both are accepted.
type ApplicationService struct {
	store   storage.Store
	uploads UploadConfig
	log     *zap.Logger
}

// NewApplicationService creates the service.
func NewApplicationService(store storage.Store, uploads UploadConfig, log *zap.Logger) *ApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationService{store: store, uploads: uploads, log: log}
}

// Create flattens and backfills the payload, then persists a new draft
// application with a freshly assigned application number.
func (s *ApplicationService) Create(payload map[string]any) (*models.Application, error) {
	flat := policy.ApplyDefaults(mapper.Flatten(payload))
	app, err := s.store.CreateApplication(flat)
	if err != nil {
		return nil, err
	}
	s.log.Info("application created",
		zap.String("id", app.ID),
		zap.String("applicationNumber", app.ApplicationNumber))
	return app, nil
}

// Update overwrites the matching columns of an existing row. Status is
// untouched; the backfill policy still applies, so required columns
// cannot be nulled out by a partial payload.
func (s *ApplicationService) Update(id string, payload map[string]any) (*models.Application, error) {
	flat := policy.ApplyDefaults(mapper.Flatten(payload))
	return s.store.UpdateApplication(id, flat)
}

// Submit marks the application submitted and stamps the submission
// time. No field-completeness re-validation happens here; the client's
// step validation is trusted.
func (s *ApplicationService) Submit(id string) (*models.Application, error) {
	app, err := s.store.SubmitApplication(id)
	if err != nil {
		return nil, err
	}
	s.log.Info("application submitted",
		zap.String("id", app.ID),
		zap.String("applicationNumber", app.ApplicationNumber))
	return app, nil
}

// Get returns the full row and its document summaries.
func (s *ApplicationService) Get(id string) (*models.Application, []models.DocumentSummary, error) {
	app, err := s.store.GetApplication(id)
	if err != nil {
		return nil, nil, err
	}
	docs, err := s.store.GetDocumentsByApplication(id)
	if err != nil {
		return nil, nil, err
	}
	summaries := make([]models.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, doc.Summary())
	}
	return app, summaries, nil
}

// List returns summaries matching the filter, newest first.
func (s *ApplicationService) List(filter *models.ApplicationFilter) ([]*models.ApplicationSummary, error) {
	return s.store.ListApplications(filter)
}

// UploadDocument stores a file into the slot for documentType,
// replacing any previous upload for the same slot: the old physical
// file is removed best-effort, then its row destroyed, then the new
// row created. The two steps are not atomic; a crash in between is an
// accepted risk.
func (s *ApplicationService) UploadDocument(applicationID, documentType string, file *multipart.FileHeader) (*models.Document, error) {
	if !models.ValidDocumentType(documentType) {
		return nil, fmt.Errorf("%w: unknown document type %q", ErrUploadRejected, documentType)
	}

	mimeType := file.Header.Get("Content-Type")
	if !s.mimeAllowed(mimeType) {
		return nil, fmt.Errorf("%w: invalid file type. Only JPG, PNG, and PDF files are allowed", ErrUploadRejected)
	}
	if file.Size > s.uploads.MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d byte limit", ErrUploadRejected, s.uploads.MaxFileSize)
	}

	if _, err := s.store.GetApplication(applicationID); err != nil {
		return nil, err
	}

	existing, err := s.store.GetDocumentByType(applicationID, documentType)
	if err != nil && !errors.Is(err, storage.ErrDocumentNotFound) {
		return nil, err
	}
	if existing != nil {
		if rmErr := os.Remove(existing.FilePath); rmErr != nil && !os.IsNotExist(rmErr) {
			s.log.Warn("could not delete old file",
				zap.String("path", existing.FilePath),
				zap.Error(rmErr))
		}
		if err := s.store.DeleteDocument(existing.ID); err != nil {
			return nil, err
		}
	}

	path, storedName, err := s.saveFile(file)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ApplicationID: applicationID,
		DocumentType:  documentType,
		FileName:      storedName,
		OriginalName:  file.Filename,
		FilePath:      path,
		FileSize:      file.Size,
		MimeType:      mimeType,
	}
	created, err := s.store.CreateDocument(doc)
	if err != nil {
		return nil, err
	}

	s.log.Info("document uploaded",
		zap.String("applicationId", applicationID),
		zap.String("documentType", documentType),
		zap.String("fileName", storedName))
	return created, nil
}

func (s *ApplicationService) mimeAllowed(mimeType string) bool {
	for _, allowed := range s.uploads.AllowedMIMETypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

func (s *ApplicationService) saveFile(file *multipart.FileHeader) (path, storedName string, err error) {
	if err := os.MkdirAll(s.uploads.Dir, 0o755); err != nil {
		return "", "", err
	}

	storedName = fmt.Sprintf("%s-%d%s",
		uuid.NewString(), time.Now().UnixMilli(), strings.ToLower(filepath.Ext(file.Filename)))
	path = filepath.Join(s.uploads.Dir, storedName)

	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", err
	}
	return path, storedName, nil
}
