package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jb04032000/offline-notes/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI defines the remote note operations the sync engine consumes.
// All three write operations are idempotent by identifier.
type ClientAPI interface {
	// CreateNote persists a new note server-side and returns its insertedId
	CreateNote(ctx context.Context, req api.SaveNoteRequest) (*api.SaveNoteResponse, error)

	// UpdateNote replaces title/content/tags of an existing server note.
	// The server increments its own version counter on apply.
	UpdateNote(ctx context.Context, serverID int64, req api.EditNoteRequest) error

	// DeleteNote removes a server note. "Already gone" is mapped to success.
	DeleteNote(ctx context.Context, serverID int64) error

	// ListNotes fetches the server's authoritative note list
	ListNotes(ctx context.Context) ([]api.Note, error)

	// Ping probes server reachability
	Ping(ctx context.Context) error
}

// ServerError is a non-2xx response from the server
type ServerError struct {
	Message    string
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Temporary reports whether the failure is worth retrying. Server-side
// failures are; client-side rejections are not.
func (e *ServerError) Temporary() bool {
	return e.StatusCode >= 500
}

// IsTemporary classifies an error as transient. Transport errors and 5xx
// responses are transient; 4xx responses are not.
func IsTemporary(err error) bool {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Temporary()
	}
	// Anything that never produced an HTTP status is a network failure
	return err != nil
}

// Client is the HTTP client for the notes server
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// CreateNote persists a new note server-side and returns its insertedId
func (c *Client) CreateNote(ctx context.Context, req api.SaveNoteRequest) (*api.SaveNoteResponse, error) {
	var resp api.SaveNoteResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/notes", req, &resp); err != nil {
		return nil, fmt.Errorf("create note request failed: %w", err)
	}
	return &resp, nil
}

// UpdateNote replaces title/content/tags of an existing server note
func (c *Client) UpdateNote(ctx context.Context, serverID int64, req api.EditNoteRequest) error {
	url := fmt.Sprintf("/api/v1/notes/%d", serverID)
	if err := c.doRequest(ctx, http.MethodPut, url, req, nil); err != nil {
		return fmt.Errorf("update note request failed: %w", err)
	}
	return nil
}

// DeleteNote removes a server note, treating "already gone" as success
func (c *Client) DeleteNote(ctx context.Context, serverID int64) error {
	url := fmt.Sprintf("/api/v1/notes/%d", serverID)
	err := c.doRequest(ctx, http.MethodDelete, url, nil, nil)
	if err == nil {
		return nil
	}

	// The note being absent means the deletion is already effective
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusNotFound {
		return nil
	}

	return fmt.Errorf("delete note request failed: %w", err)
}

// ListNotes fetches the server's authoritative note list
func (c *Client) ListNotes(ctx context.Context) ([]api.Note, error) {
	var notes []api.Note
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/notes", nil, &notes); err != nil {
		return nil, fmt.Errorf("list notes request failed: %w", err)
	}
	return notes, nil
}

// Ping probes server reachability via the health endpoint
func (c *Client) Ping(ctx context.Context) error {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request against the server
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serverErr := &ServerError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			serverErr.Message = errResp.Error
		}
		return serverErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
