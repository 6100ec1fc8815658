package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kubera-fin/kubera-loan-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development
type MemoryStore struct {
	applications map[string]*models.Application
	documents    map[string]*models.Document

	// Mutexes for thread safety
	appMu sync.RWMutex
	docMu sync.RWMutex

	// Counter for application number generation
	appCounter int64
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		applications: make(map[string]*models.Application),
		documents:    make(map[string]*models.Document),
	}
}

// Application operations

func (m *MemoryStore) CreateApplication(flat map[string]any) (*models.Application, error) {
	m.appMu.Lock()
	defer m.appMu.Unlock()

	m.appCounter++
	now := time.Now()

	app := models.NewApplication()
	app.ID = uuid.NewString()
	app.ApplicationNumber = applicationNumber(m.appCounter)
	app.CreatedAt = now
	app.UpdatedAt = now
	app.ApplyFlat(flat)

	m.applications[app.ID] = app
	return app, nil
}

func (m *MemoryStore) GetApplication(id string) (*models.Application, error) {
	m.appMu.RLock()
	defer m.appMu.RUnlock()

	app, exists := m.applications[id]
	if !exists {
		return nil, ErrApplicationNotFound
	}
	return app, nil
}

func (m *MemoryStore) UpdateApplication(id string, flat map[string]any) (*models.Application, error) {
	m.appMu.Lock()
	defer m.appMu.Unlock()

	app, exists := m.applications[id]
	if !exists {
		return nil, ErrApplicationNotFound
	}

	app.ApplyFlat(flat)
	app.UpdatedAt = time.Now()
	return app, nil
}

func (m *MemoryStore) SubmitApplication(id string) (*models.Application, error) {
	m.appMu.Lock()
	defer m.appMu.Unlock()

	app, exists := m.applications[id]
	if !exists {
		return nil, ErrApplicationNotFound
	}

	now := time.Now()
	app.Status = models.StatusSubmitted
	app.SubmittedAt = &now
	app.UpdatedAt = now
	return app, nil
}

func (m *MemoryStore) ListApplications(filter *models.ApplicationFilter) ([]*models.ApplicationSummary, error) {
	m.appMu.RLock()
	defer m.appMu.RUnlock()

	var matched []*models.Application
	for _, app := range m.applications {
		if filter != nil {
			if filter.Status != "" && app.Status != filter.Status {
				continue
			}
			if filter.Email != "" && app.Email != filter.Email {
				continue
			}
		}
		matched = append(matched, app)
	}

	// Most recent first
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	summaries := make([]*models.ApplicationSummary, 0, len(matched))
	for _, app := range matched {
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

func (m *MemoryStore) CreateDocument(doc *models.Document) (*models.Document, error) {
	m.docMu.Lock()
	defer m.docMu.Unlock()

	now := time.Now()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = now
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	m.documents[doc.ID] = doc
	return doc, nil
}

func (m *MemoryStore) GetDocumentByType(applicationID, documentType string) (*models.Document, error) {
	m.docMu.RLock()
	defer m.docMu.RUnlock()

	for _, doc := range m.documents {
		if doc.ApplicationID == applicationID && doc.DocumentType == documentType {
			return doc, nil
		}
	}
	return nil, ErrDocumentNotFound
}

func (m *MemoryStore) GetDocumentsByApplication(applicationID string) ([]*models.Document, error) {
	m.docMu.RLock()
	defer m.docMu.RUnlock()

	var docs []*models.Document
	for _, doc := range m.documents {
		if doc.ApplicationID == applicationID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})
	return docs, nil
}

func (m *MemoryStore) DeleteDocument(id string) error {
	m.docMu.Lock()
	defer m.docMu.Unlock()

	if _, exists := m.documents[id]; !exists {
		return ErrDocumentNotFound
	}
	delete(m.documents, id)
	return nil
}
