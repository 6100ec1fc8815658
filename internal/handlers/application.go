package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kubera-fin/kubera-loan-backend/internal/models"
	"github.com/kubera-fin/kubera-loan-backend/internal/services"
	"github.com/kubera-fin/kubera-loan-backend/internal/storage"
	"github.com/kubera-fin/kubera-loan-backend/internal/utils"
)

// ApplicationHandler handles loan application requests
type ApplicationHandler struct {
	svc *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(svc *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// CreateApplication handles POST /applications. The body may be the
// nested wizard draft or an already-flat record.
func (h *ApplicationHandler) CreateApplication(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	app, err := h.svc.Create(payload)
	if err != nil {
		return utils.ServerError(c)
	}

	return utils.Created(c, "Application created successfully", fiber.Map{
		"id":                app.ID,
		"applicationNumber": app.ApplicationNumber,
		"status":            app.Status,
	})
}

// UpdateApplication handles PUT /applications/:id
func (h *ApplicationHandler) UpdateApplication(c *fiber.Ctx) error {
	return h.update(c, "Application updated successfully")
}

// SaveDraft handles POST /applications/:id/save-draft. Same write path
// as update; the route exists so the client can save without touching
// status.
func (h *ApplicationHandler) SaveDraft(c *fiber.Ctx) error {
	return h.update(c, "Draft saved successfully")
}

func (h *ApplicationHandler) update(c *fiber.Ctx, message string) error {
	id := c.Params("id")

	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	app, err := h.svc.Update(id, payload)
	if err != nil {
		if errors.Is(err, storage.ErrApplicationNotFound) {
			return utils.BadRequest(c, "Application not found")
		}
		return utils.ServerError(c)
	}

	return utils.OK(c, message, fiber.Map{
		"id":                app.ID,
		"applicationNumber": app.ApplicationNumber,
		"status":            app.Status,
	})
}

// SubmitApplication handles POST /applications/:id/submit
func (h *ApplicationHandler) SubmitApplication(c *fiber.Ctx) error {
	id := c.Params("id")

	app, err := h.svc.Submit(id)
	if err != nil {
		if errors.Is(err, storage.ErrApplicationNotFound) {
			return utils.BadRequest(c, "Application not found")
		}
		return utils.ServerError(c)
	}

	return utils.OK(c, "Application submitted successfully", fiber.Map{
		"id":                app.ID,
		"applicationNumber": app.ApplicationNumber,
		"status":            app.Status,
		"submittedAt":       app.SubmittedAt,
	})
}

// UploadDocument handles POST /applications/:id/documents/:type with a
// multipart file under the "document" field.
func (h *ApplicationHandler) UploadDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	docType := c.Params("type")

	file, err := c.FormFile("document")
	if err != nil {
		return utils.BadRequest(c, "No file uploaded")
	}

	doc, err := h.svc.UploadDocument(id, docType, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrApplicationNotFound):
			return utils.BadRequest(c, "Application not found")
		case errors.Is(err, services.ErrUploadRejected):
			return utils.BadRequest(c, err.Error())
		}
		return utils.ServerError(c)
	}

	return utils.OK(c, "Document uploaded successfully", fiber.Map{
		"id":           doc.ID,
		"documentType": doc.DocumentType,
		"fileName":     doc.FileName,
		"originalName": doc.OriginalName,
		"fileSize":     doc.FileSize,
		"uploadedAt":   doc.UploadedAt,
	})
}

// GetApplication handles GET /applications/:id
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	id := c.Params("id")

	app, docs, err := h.svc.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrApplicationNotFound) {
			return utils.NotFound(c, "Application not found")
		}
		return utils.ServerError(c)
	}

	return utils.OK(c, "", fiber.Map{
		"application": app,
		"documents":   docs,
	})
}

// ListApplications handles GET /applications?status=&email=. When no
// email filter is given and the bearer token carried one, the caller's
// own email is used.
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	filter := &models.ApplicationFilter{
		Status: c.Query("status"),
		Email:  c.Query("email"),
	}
	if filter.Email == "" {
		if email, ok := c.Locals("email").(string); ok {
			filter.Email = email
		}
	}

	apps, err := h.svc.List(filter)
	if err != nil {
		return utils.ServerError(c)
	}

	return utils.OK(c, "", apps)
}
