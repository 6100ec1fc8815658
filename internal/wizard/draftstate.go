package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/kubera-fin/kubera-loan-backend/internal/mapper"
	"github.com/kubera-fin/kubera-loan-backend/internal/models"
)

// ErrDraftIncomplete is returned when a remote save is attempted
// before the minimum identifying fields are filled in.
var ErrDraftIncomplete = errors.New("draft missing loan type, name, valid email, or phone")

// ErrValidationFailed is returned when submission is attempted with
// one or more wizard steps still invalid.
var ErrValidationFailed = errors.New("validation failed")

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DraftState is the single owner of the wizard's in-progress draft:
// the nested form data, the document registry, and the application id
// once one has been assigned. Every mutation re-persists the whole
// draft to the local cache; that full write is the only local
// durability the wizard has.
type DraftState struct {
	form          map[string]map[string]any
	docs          *DocumentRegistry
	applicationID string
	cache         DraftCache
}

// NewDraftState creates an empty draft backed by cache.
func NewDraftState(cache DraftCache) *DraftState {
	return &DraftState{
		form:  make(map[string]map[string]any),
		docs:  NewDocumentRegistry(),
		cache: cache,
	}
}

// Field reads one form value.
func (s *DraftState) Field(section, field string) (any, bool) {
	sec, ok := s.form[section]
	if !ok {
		return nil, false
	}
	v, ok := sec[field]
	return v, ok
}

// Section returns a copy of one section's fields.
func (s *DraftState) Section(section string) map[string]any {
	out := make(map[string]any, len(s.form[section]))
	for k, v := range s.form[section] {
		out[k] = v
	}
	return out
}

// SetField writes one form value and persists the draft.
func (s *DraftState) SetField(ctx context.Context, section, field string, value any) error {
	if s.form[section] == nil {
		s.form[section] = make(map[string]any)
	}
	s.form[section][field] = value
	return s.persist(ctx)
}

// PutDocument fills (or replaces) a document slot and persists.
func (s *DraftState) PutDocument(ctx context.Context, documentType string, slot DocumentSlot) error {
	if err := s.docs.Put(documentType, slot); err != nil {
		return err
	}
	return s.persist(ctx)
}

// UploadDocument fills a document slot with file content behind it.
// While the application only exists locally the slot is held
// client-side, exactly like PutDocument. Once the application has a
// server id the file is pushed immediately and the slot populated from
// the backend's response (assigned id, size, upload time); the local
// preview handle is kept.
func (s *DraftState) UploadDocument(ctx context.Context, remote Remote, documentType string, slot DocumentSlot, file io.Reader) error {
	if !models.ValidDocumentType(documentType) {
		return fmt.Errorf("unknown document type %q", documentType)
	}

	if s.applicationID == "" || remote == nil {
		return s.PutDocument(ctx, documentType, slot)
	}

	res, err := remote.UploadDocument(ctx, s.applicationID, documentType, slot.Name, slot.ContentType, file)
	if err != nil {
		return err
	}
	return s.PutDocument(ctx, documentType, DocumentSlot{
		ID:          res.ID,
		Name:        res.OriginalName,
		Size:        res.FileSize,
		ContentType: slot.ContentType,
		DataURL:     slot.DataURL,
		Uploaded:    true,
		UploadedAt:  res.UploadedAt,
	})
}

// RemoveDocument clears a document slot and persists.
func (s *DraftState) RemoveDocument(ctx context.Context, documentType string) error {
	s.docs.Remove(documentType)
	return s.persist(ctx)
}

// Document reads one slot.
func (s *DraftState) Document(documentType string) (DocumentSlot, bool) {
	return s.docs.Get(documentType)
}

// MissingDocuments lists the mandatory slots still unfilled.
func (s *DraftState) MissingDocuments() []string {
	return s.docs.RequiredMissing()
}

// ApplicationID returns the server-side id, or "" for a pure draft.
func (s *DraftState) ApplicationID() string {
	return s.applicationID
}

// SetApplicationID records the server-side id and persists.
func (s *DraftState) SetApplicationID(ctx context.Context, id string) error {
	s.applicationID = id
	return s.persist(ctx)
}

// Snapshot returns the serializable form of the whole draft.
func (s *DraftState) Snapshot() *CachedDraft {
	return &CachedDraft{
		FormData:      s.form,
		UploadedDocs:  s.docs.Snapshot(),
		ApplicationID: s.applicationID,
	}
}

// Payload returns the nested form as the generic payload the backend
// accepts.
func (s *DraftState) Payload() map[string]any {
	out := make(map[string]any, len(s.form))
	for section, fields := range s.form {
		sec := make(map[string]any, len(fields))
		for k, v := range fields {
			sec[k] = v
		}
		out[section] = sec
	}
	return out
}

func (s *DraftState) persist(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Save(ctx, s.Snapshot())
}

// restore adopts a cached blob verbatim.
func (s *DraftState) restore(cached *CachedDraft) {
	s.form = cached.FormData
	if s.form == nil {
		s.form = make(map[string]map[string]any)
	}
	s.docs.restore(cached.UploadedDocs)
	s.applicationID = cached.ApplicationID
}

// adopt takes over a draft resumed from the server: the unflattened
// form, a registry rebuilt from the document list, and the server id.
// The stored MIME type is not exposed by the read API, so rebuilt
// slots carry a placeholder content type.
func (s *DraftState) adopt(form map[string]map[string]any, docs []models.DocumentSummary, applicationID string) {
	s.form = form
	s.applicationID = applicationID
	s.docs = NewDocumentRegistry()
	for _, doc := range docs {
		_ = s.docs.Put(doc.DocumentType, DocumentSlot{
			ID:          doc.ID,
			Name:        doc.OriginalName,
			Size:        doc.FileSize,
			ContentType: "application/pdf",
			Uploaded:    true,
			UploadedAt:  doc.UploadedAt,
		})
	}
}

// Discard clears the local cache and resets the draft, used after a
// successful submission.
func (s *DraftState) Discard(ctx context.Context) error {
	s.form = make(map[string]map[string]any)
	s.docs = NewDocumentRegistry()
	s.applicationID = ""
	if s.cache == nil {
		return nil
	}
	return s.cache.Clear(ctx)
}

// ReadyToSave reports whether the draft carries enough identity to be
// worth pushing remotely: loan type, both names, a valid email, and a
// phone number.
func (s *DraftState) ReadyToSave() bool {
	return s.fieldFilled(mapper.SectionType, "loanType") &&
		s.fieldFilled(mapper.SectionApplicant, "firstName") &&
		s.fieldFilled(mapper.SectionApplicant, "lastName") &&
		emailRe.MatchString(s.stringField(mapper.SectionApplicant, "email")) &&
		s.fieldFilled(mapper.SectionApplicant, "phone")
}

// SaveRemote pushes the draft to the backend: first save creates the
// application and records its id, later saves go through save-draft.
func (s *DraftState) SaveRemote(ctx context.Context, remote Remote) (*WriteResult, error) {
	if !s.ReadyToSave() {
		return nil, ErrDraftIncomplete
	}

	if s.applicationID != "" {
		return remote.SaveDraft(ctx, s.applicationID, s.Payload())
	}

	res, err := remote.CreateApplication(ctx, s.Payload())
	if err != nil {
		return nil, err
	}
	if err := s.SetApplicationID(ctx, res.ID); err != nil {
		return nil, err
	}
	return res, nil
}

// Submit runs the full submission flow: validate every step, create
// the application if it only exists locally, submit it, and discard
// the cached draft on success.
func (s *DraftState) Submit(ctx context.Context, remote Remote) (*WriteResult, error) {
	if errs := ValidateAll(s); len(errs) > 0 {
		return nil, ErrValidationFailed
	}

	if s.applicationID == "" {
		created, err := remote.CreateApplication(ctx, s.Payload())
		if err != nil {
			return nil, err
		}
		if err := s.SetApplicationID(ctx, created.ID); err != nil {
			return nil, err
		}
	}

	res, err := remote.SubmitApplication(ctx, s.applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.Discard(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DraftState) fieldFilled(section, field string) bool {
	v, ok := s.Field(section, field)
	if !ok || v == nil {
		return false
	}
	if str, isStr := v.(string); isStr {
		return str != ""
	}
	return true
}

func (s *DraftState) boolField(section, field string) bool {
	v, _ := s.Field(section, field)
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "Yes" || val == "true"
	}
	return false
}

func (s *DraftState) stringField(section, field string) string {
	v, _ := s.Field(section, field)
	str, _ := v.(string)
	return str
}
