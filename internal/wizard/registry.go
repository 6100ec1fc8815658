// Package wizard implements the non-visual core of the application
// wizard: the draft state the step renderers edit, the document slot
// registry, the local draft cache, and the remote-first draft
// resolver used to resume an in-progress application.
package wizard

import (
	"fmt"
	"time"

	"github.com/kubera-fin/kubera-loan-backend/internal/models"
)

// DocumentSlot is the client-side record of an uploaded (or locally
// held) file for one document type. While the application only exists
// as a draft the slot has no server ID; it is reconciled once the
// application is created and the file submitted.
type DocumentSlot struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"type"`
	DataURL     string    `json:"dataUrl,omitempty"`
	Uploaded    bool      `json:"uploaded"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// DocumentRegistry maps document types to at most one slot each.
// Putting a slot for a type that already has one replaces it.
type DocumentRegistry struct {
	slots map[string]DocumentSlot
}

// NewDocumentRegistry creates an empty registry.
func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{slots: make(map[string]DocumentSlot)}
}

// Put inserts or replaces the slot for documentType.
func (r *DocumentRegistry) Put(documentType string, slot DocumentSlot) error {
	if !models.ValidDocumentType(documentType) {
		return fmt.Errorf("unknown document type %q", documentType)
	}
	r.slots[documentType] = slot
	return nil
}

// Remove deletes the slot for documentType. It does not touch any
// server-side row; only the backend's replace-on-upload path removes
// stored files.
func (r *DocumentRegistry) Remove(documentType string) {
	delete(r.slots, documentType)
}

// Get returns the slot for documentType, if present.
func (r *DocumentRegistry) Get(documentType string) (DocumentSlot, bool) {
	slot, ok := r.slots[documentType]
	return slot, ok
}

// Len returns the number of filled slots.
func (r *DocumentRegistry) Len() int {
	return len(r.slots)
}

// Snapshot returns a copy of the slot map for serialization.
func (r *DocumentRegistry) Snapshot() map[string]DocumentSlot {
	out := make(map[string]DocumentSlot, len(r.slots))
	for t, slot := range r.slots {
		out[t] = slot
	}
	return out
}

// restore replaces the registry contents from a cached snapshot.
// Unknown types in the snapshot are kept out.
func (r *DocumentRegistry) restore(slots map[string]DocumentSlot) {
	r.slots = make(map[string]DocumentSlot, len(slots))
	for t, slot := range slots {
		if models.ValidDocumentType(t) {
			r.slots[t] = slot
		}
	}
}

// RequiredMissing returns the mandatory document types with no slot
// filled, in the canonical slot order. An empty result means the
// registry is submission-ready.
func (r *DocumentRegistry) RequiredMissing() []string {
	var missing []string
	for _, t := range models.RequiredDocumentTypes {
		if _, ok := r.slots[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}
