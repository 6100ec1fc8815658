package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/kubera-fin/kubera-loan-backend/internal/models"
)

// Client talks to the loan backend's JSON API. Zero-value fields get
// sensible defaults; Token, when set, is sent as a bearer credential.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

var _ Remote = (*Client)(nil)

// NewClient creates an API client rooted at baseURL, e.g.
// "http://localhost:8080/api/loans".
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: http.DefaultClient,
	}
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) ListApplications(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationSummary, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Email != "" {
		q.Set("email", filter.Email)
	}
	path := "/applications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []models.ApplicationSummary
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetApplication(ctx context.Context, id string) (*ApplicationDetail, error) {
	var out ApplicationDetail
	if err := c.doJSON(ctx, http.MethodGet, "/applications/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateApplication(ctx context.Context, form map[string]any) (*WriteResult, error) {
	var out WriteResult
	if err := c.doJSON(ctx, http.MethodPost, "/applications", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveDraft(ctx context.Context, id string, form map[string]any) (*WriteResult, error) {
	var out WriteResult
	if err := c.doJSON(ctx, http.MethodPost, "/applications/"+id+"/save-draft", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitApplication(ctx context.Context, id string) (*WriteResult, error) {
	var out WriteResult
	if err := c.doJSON(ctx, http.MethodPost, "/applications/"+id+"/submit", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UploadDocument(ctx context.Context, id, documentType, fileName, contentType string, file io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="document"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/applications/"+id+"/documents/"+documentType, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	var out UploadResult
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	return c.send(req, out)
}

func (c *Client) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func (c *Client) send(req *http.Request, out any) error {
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("request failed: %s", msg)
	}
	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
