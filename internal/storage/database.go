package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kubera-fin/kubera-loan-backend/internal/models"
)

// DatabaseStore is the PostgreSQL-backed Store used in production.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store on top of an open GORM connection.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Application operations

func (s *DatabaseStore) CreateApplication(flat map[string]any) (*models.Application, error) {
	// The sequence is the current row count; two concurrent creates can
	// read the same count. Accepted as-is, matching the original flow.
	var count int64
	if err := s.db.Model(&models.Application{}).Count(&count).Error; err != nil {
		return nil, err
	}

	app := models.NewApplication()
	app.ID = uuid.NewString()
	app.ApplicationNumber = applicationNumber(count + 1)
	app.ApplyFlat(flat)

	if err := s.db.Create(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

func (s *DatabaseStore) GetApplication(id string) (*models.Application, error) {
	var app models.Application
	if err := s.db.First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (s *DatabaseStore) UpdateApplication(id string, flat map[string]any) (*models.Application, error) {
	app, err := s.GetApplication(id)
	if err != nil {
		return nil, err
	}

	app.ApplyFlat(flat)
	if err := s.db.Save(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

func (s *DatabaseStore) SubmitApplication(id string) (*models.Application, error) {
	app, err := s.GetApplication(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	app.Status = models.StatusSubmitted
	app.SubmittedAt = &now
	if err := s.db.Save(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

func (s *DatabaseStore) ListApplications(filter *models.ApplicationFilter) ([]*models.ApplicationSummary, error) {
	query := s.db.Model(&models.Application{})
	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Email != "" {
			query = query.Where("email = ?", filter.Email)
		}
	}

	var apps []models.Application
	err := query.
		Select("id", "application_number", "status", "first_name", "last_name",
			"email", "loan_type", "loan_amount", "created_at", "submitted_at").
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.ApplicationSummary, 0, len(apps))
	for i := range apps {
		app := &apps[i]
		summaries = append(summaries, &models.ApplicationSummary{
			ID:                app.ID,
			ApplicationNumber: app.ApplicationNumber,
			Status:            app.Status,
			FirstName:         app.FirstName,
			LastName:          app.LastName,
			Email:             app.Email,
			LoanType:          app.LoanType,
			LoanAmount:        app.LoanAmount,
			CreatedAt:         app.CreatedAt,
			SubmittedAt:       app.SubmittedAt,
		})
	}
	return summaries, nil
}

// Document operations

func (s *DatabaseStore) CreateDocument(doc *models.Document) (*models.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now()
	}
	if err := s.db.Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DatabaseStore) GetDocumentByType(applicationID, documentType string) (*models.Document, error) {
	var doc models.Document
	err := s.db.First(&doc, "application_id = ? AND document_type = ?", applicationID, documentType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (s *DatabaseStore) GetDocumentsByApplication(applicationID string) ([]*models.Document, error) {
	var docs []*models.Document
	err := s.db.
		Where("application_id = ?", applicationID).
		Order("uploaded_at ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *DatabaseStore) DeleteDocument(id string) error {
	res := s.db.Delete(&models.Document{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
