package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kubera-fin/kubera-loan-backend/internal/models"
)

var (
	storeInstance Store
	storeMu       sync.RWMutex
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return storeInstance
}

// Not-found sentinels; handlers map these to client-facing errors.
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrDocumentNotFound    = errors.New("document not found")
)

// Store defines the interface for storage operations
type Store interface {
	// Application operations. Create/Update take the flattened,
	// backfilled payload; the service layer owns the shape mapping.
	CreateApplication(flat map[string]any) (*models.Application, error)
	GetApplication(id string) (*models.Application, error)
	UpdateApplication(id string, flat map[string]any) (*models.Application, error)
	SubmitApplication(id string) (*models.Application, error)
	ListApplications(filter *models.ApplicationFilter) ([]*models.ApplicationSummary, error)

	// Document operations
	CreateDocument(doc *models.Document) (*models.Document, error)
	GetDocumentByType(applicationID, documentType string) (*models.Document, error)
	GetDocumentsByApplication(applicationID string) ([]*models.Document, error)
	DeleteDocument(id string) error
}

// applicationNumber formats the human-facing number handed out once at
// creation: KUB + year + zero-padded sequence. The sequence is derived
// from the current row count, so concurrent creates can in principle
// collide; kept as-is from the original intake flow.
func applicationNumber(seq int64) string {
	return fmt.Sprintf("KUB%d%06d", time.Now().Year(), seq)
}
