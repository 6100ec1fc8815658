package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubera-fin/kubera-loan-backend/internal/models"
)

func TestDocumentRegistryPut(t *testing.T) {
	reg := NewDocumentRegistry()

	require.NoError(t, reg.Put(models.DocTypePhoto, DocumentSlot{Name: "me.png", Size: 10}))
	assert.Equal(t, 1, reg.Len())

	slot, ok := reg.Get(models.DocTypePhoto)
	require.True(t, ok)
	assert.Equal(t, "me.png", slot.Name)

	t.Run("replaces an existing slot", func(t *testing.T) {
		require.NoError(t, reg.Put(models.DocTypePhoto, DocumentSlot{Name: "better.png", Size: 20}))
		assert.Equal(t, 1, reg.Len())

		slot, _ := reg.Get(models.DocTypePhoto)
		assert.Equal(t, "better.png", slot.Name)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		err := reg.Put("passport", DocumentSlot{Name: "x.pdf"})
		assert.Error(t, err)
		assert.Equal(t, 1, reg.Len())
	})
}

func TestDocumentRegistryRemove(t *testing.T) {
	reg := NewDocumentRegistry()
	require.NoError(t, reg.Put(models.DocTypeBank, DocumentSlot{Name: "statement.pdf"}))

	reg.Remove(models.DocTypeBank)
	_, ok := reg.Get(models.DocTypeBank)
	assert.False(t, ok)

	// Removing an empty slot is a no-op.
	reg.Remove(models.DocTypeBank)
	assert.Equal(t, 0, reg.Len())
}

func TestDocumentRegistryRequiredMissing(t *testing.T) {
	reg := NewDocumentRegistry()

	assert.Equal(t, models.RequiredDocumentTypes, reg.RequiredMissing())

	require.NoError(t, reg.Put(models.DocTypePhoto, DocumentSlot{Name: "me.png"}))
	require.NoError(t, reg.Put(models.DocTypeIdentity, DocumentSlot{Name: "aadhaar.pdf"}))

	assert.Equal(t, []string{
		models.DocTypeAddress,
		models.DocTypeIncome,
		models.DocTypeAcademic,
		models.DocTypeBank,
	}, reg.RequiredMissing())

	for _, docType := range models.RequiredDocumentTypes {
		require.NoError(t, reg.Put(docType, DocumentSlot{Name: docType + ".pdf"}))
	}
	assert.Empty(t, reg.RequiredMissing())
}

func TestDocumentRegistrySnapshotRestore(t *testing.T) {
	reg := NewDocumentRegistry()
	uploaded := time.Now()
	require.NoError(t, reg.Put(models.DocTypeIncome, DocumentSlot{
		Name:        "itr.pdf",
		Size:        2048,
		ContentType: "application/pdf",
		Uploaded:    true,
		UploadedAt:  uploaded,
	}))

	snap := reg.Snapshot()

	t.Run("snapshot is a copy", func(t *testing.T) {
		snap[models.DocTypeIncome] = DocumentSlot{Name: "tampered"}
		slot, _ := reg.Get(models.DocTypeIncome)
		assert.Equal(t, "itr.pdf", slot.Name)
	})

	t.Run("restore drops unknown types", func(t *testing.T) {
		fresh := NewDocumentRegistry()
		fresh.restore(map[string]DocumentSlot{
			models.DocTypeIncome: {Name: "itr.pdf"},
			"visa":               {Name: "visa.pdf"},
		})
		assert.Equal(t, 1, fresh.Len())
		_, ok := fresh.Get("visa")
		assert.False(t, ok)
	})
}
