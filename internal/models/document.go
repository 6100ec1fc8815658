package models

import "time"

// Document is one uploaded file for an application. At most one row
// exists per (application, document type) pair; re-uploading a type
// replaces the previous row and its physical file.
type Document struct {
	ID            string `json:"id" gorm:"primaryKey"`
	ApplicationID string `json:"applicationId" gorm:"index"`
	DocumentType  string `json:"documentType"`
	FileName      string `json:"fileName"`
	OriginalName  string `json:"originalName"`
	FilePath      string `json:"-"` // never exposed on the wire
	FileSize      int64  `json:"fileSize"`
	MimeType      string `json:"mimeType"`

	UploadedAt      time.Time  `json:"uploadedAt"`
	Verified        bool       `json:"verified"`
	VerifiedAt      *time.Time `json:"verifiedAt"`
	VerifiedBy      string     `json:"verifiedBy"`
	RejectionReason string     `json:"rejectionReason" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Document) TableName() string {
	return "documents"
}

// Document type slots, shared by client and server.
const (
	DocTypePhoto      = "photo"
	DocTypeIdentity   = "identity"
	DocTypeAddress    = "address"
	DocTypeIncome     = "income"
	DocTypeAcademic   = "academic"
	DocTypeAdmission  = "admission"
	DocTypeBank       = "bank"
	DocTypeCollateral = "collateral"
)

// DocumentTypes lists every valid slot. "admission" and "collateral"
// are optional; the rest are required before submission.
var DocumentTypes = []string{
	DocTypePhoto,
	DocTypeIdentity,
	DocTypeAddress,
	DocTypeIncome,
	DocTypeAcademic,
	DocTypeAdmission,
	DocTypeBank,
	DocTypeCollateral,
}

// RequiredDocumentTypes are the slots that must be filled for an
// application to be submission-ready.
var RequiredDocumentTypes = []string{
	DocTypePhoto,
	DocTypeIdentity,
	DocTypeAddress,
	DocTypeIncome,
	DocTypeAcademic,
	DocTypeBank,
}

// ValidDocumentType reports whether t is a known slot key.
func ValidDocumentType(t string) bool {
	for _, dt := range DocumentTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// DocumentSummary is the projection of a document exposed alongside
// its application (no storage path, no MIME internals).
type DocumentSummary struct {
	ID           string    `json:"id"`
	DocumentType string    `json:"documentType"`
	OriginalName string    `json:"originalName"`
	FileSize     int64     `json:"fileSize"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Verified     bool      `json:"verified"`
}

// Summary projects the row for read APIs.
func (d *Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:           d.ID,
		DocumentType: d.DocumentType,
		OriginalName: d.OriginalName,
		FileSize:     d.FileSize,
		UploadedAt:   d.UploadedAt,
		Verified:     d.Verified,
	}
}
