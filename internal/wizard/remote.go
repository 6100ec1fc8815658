package wizard

import (
	"context"
	"io"
	"time"

	"github.com/kubera-fin/kubera-loan-backend/internal/models"
)

// ApplicationDetail is the full read of one application: the flat row
// plus its document summaries.
type ApplicationDetail struct {
	Application models.Application       `json:"application"`
	Documents   []models.DocumentSummary `json:"documents"`
}

// WriteResult is what the backend returns from create/update/submit.
type WriteResult struct {
	ID                string     `json:"id"`
	ApplicationNumber string     `json:"applicationNumber"`
	Status            string     `json:"status"`
	SubmittedAt       *time.Time `json:"submittedAt,omitempty"`
}

// UploadResult is what the backend returns from a document upload.
type UploadResult struct {
	ID           string    `json:"id"`
	DocumentType string    `json:"documentType"`
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalName"`
	FileSize     int64     `json:"fileSize"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Remote is the backend as seen from the wizard. The HTTP client
// implements it; tests substitute fakes to simulate network failure.
type Remote interface {
	ListApplications(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationSummary, error)
	GetApplication(ctx context.Context, id string) (*ApplicationDetail, error)
	CreateApplication(ctx context.Context, form map[string]any) (*WriteResult, error)
	SaveDraft(ctx context.Context, id string, form map[string]any) (*WriteResult, error)
	SubmitApplication(ctx context.Context, id string) (*WriteResult, error)
	UploadDocument(ctx context.Context, id, documentType, fileName, contentType string, file io.Reader) (*UploadResult, error)
}
