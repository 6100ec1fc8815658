package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kubera-fin/kubera-loan-backend/internal/routes"
	"github.com/kubera-fin/kubera-loan-backend/internal/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("UPLOAD_DIR", t.TempDir())

	app := fiber.New()
	routes.SetupRoutes(app, storage.NewMemoryStore(), zaptest.NewLogger(t))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func createApplication(t *testing.T, app *fiber.App, payload map[string]any) map[string]any {
	t.Helper()

	status, env := doJSON(t, app, "POST", "/api/loans/applications", payload)
	require.Equal(t, fiber.StatusCreated, status)
	require.True(t, env.Success)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestCreateApplicationRoute(t *testing.T) {
	app := newTestApp(t)

	data := createApplication(t, app, map[string]any{
		"applicant": map[string]any{"firstName": "Asha", "lastName": "Rao"},
		"type":      map[string]any{"loanType": "abroad"},
	})

	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "draft", data["status"])
	number, _ := data["applicationNumber"].(string)
	assert.True(t, strings.HasPrefix(number, "KUB"))
}

func TestCreateApplicationBadBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/loans/applications", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateApplicationRoute(t *testing.T) {
	app := newTestApp(t)
	data := createApplication(t, app, map[string]any{})
	id := data["id"].(string)

	status, env := doJSON(t, app, "PUT", "/api/loans/applications/"+id, map[string]any{
		"address": map[string]any{"city": "Pune"},
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, "Application updated successfully", env.Message)

	t.Run("unknown id yields 400", func(t *testing.T) {
		status, env := doJSON(t, app, "PUT", "/api/loans/applications/nope", map[string]any{})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.False(t, env.Success)
		assert.Equal(t, "Application not found", env.Message)
	})
}

func TestSaveDraftRoute(t *testing.T) {
	app := newTestApp(t)
	data := createApplication(t, app, map[string]any{})
	id := data["id"].(string)

	status, env := doJSON(t, app, "POST", "/api/loans/applications/"+id+"/save-draft", map[string]any{
		"applicant": map[string]any{"firstName": "Asha"},
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Draft saved successfully", env.Message)

	var saved map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "draft", saved["status"])
}

func TestSubmitApplicationRoute(t *testing.T) {
	app := newTestApp(t)
	data := createApplication(t, app, map[string]any{})
	id := data["id"].(string)

	status, env := doJSON(t, app, "POST", "/api/loans/applications/"+id+"/submit", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)

	var submitted map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, "submitted", submitted["status"])
	assert.NotEmpty(t, submitted["submittedAt"])

	t.Run("unknown id yields 400", func(t *testing.T) {
		status, _ := doJSON(t, app, "POST", "/api/loans/applications/nope/submit", nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestGetApplicationRoute(t *testing.T) {
	app := newTestApp(t)
	data := createApplication(t, app, map[string]any{
		"applicant": map[string]any{"firstName": "Asha"},
	})
	id := data["id"].(string)

	status, env := doJSON(t, app, "GET", "/api/loans/applications/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)

	var detail struct {
		Application map[string]any   `json:"application"`
		Documents   []map[string]any `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Asha", detail.Application["firstName"])
	assert.Empty(t, detail.Documents)

	t.Run("unknown id yields 404", func(t *testing.T) {
		status, env := doJSON(t, app, "GET", "/api/loans/applications/nope", nil)
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.False(t, env.Success)
	})
}

func TestListApplicationsRoute(t *testing.T) {
	app := newTestApp(t)
	createApplication(t, app, map[string]any{
		"applicant": map[string]any{"email": "a@x.in"},
	})
	createApplication(t, app, map[string]any{
		"applicant": map[string]any{"email": "b@x.in"},
	})

	status, env := doJSON(t, app, "GET", "/api/loans/applications?email=a@x.in", nil)
	require.Equal(t, fiber.StatusOK, status)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "a@x.in", list[0]["email"])
}

func TestUploadDocumentRoute(t *testing.T) {
	app := newTestApp(t)
	data := createApplication(t, app, map[string]any{})
	id := data["id"].(string)

	upload := func(t *testing.T, docType, filename, contentType string) (int, envelope) {
		t.Helper()

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="document"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("file-bytes"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest("POST", "/api/loans/applications/"+id+"/documents/"+docType, &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		var env envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		return resp.StatusCode, env
	}

	t.Run("accepts a pdf", func(t *testing.T) {
		status, env := upload(t, "identity", "aadhaar.pdf", "application/pdf")
		require.Equal(t, fiber.StatusOK, status)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &doc))
		assert.Equal(t, "identity", doc["documentType"])
		assert.Equal(t, "aadhaar.pdf", doc["originalName"])
	})

	t.Run("rejects a disallowed mime type", func(t *testing.T) {
		status, env := upload(t, "identity", "scan.tiff", "image/tiff")
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.False(t, env.Success)
	})

	t.Run("rejects a missing file part", func(t *testing.T) {
		status, env := doJSON(t, app, "POST", "/api/loans/applications/"+id+"/documents/identity", map[string]any{})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "No file uploaded", env.Message)
	})
}

func TestHealthRoute(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
