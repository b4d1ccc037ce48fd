// Package client reads entity details from the directory HTTP API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sahilchouksey/edu-directory/model"
)

var ErrNotFound = errors.New("entity not found")

// APIError is a non-404 failure reported by the API
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("directory api: %d %s: %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Institution fetches an institution detail
func (c *Client) Institution(ctx context.Context, id string) (*model.InstitutionDetail, error) {
	var detail model.InstitutionDetail
	if err := c.get(ctx, "/api/v1/institutions/"+url.PathEscape(id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Course fetches a course detail
func (c *Client) Course(ctx context.Context, id string) (*model.CourseDetail, error) {
	var detail model.CourseDetail
	if err := c.get(ctx, "/api/v1/courses/"+url.PathEscape(id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Entity fetches the detail of an institution or course
func (c *Client) Entity(ctx context.Context, kind model.EntityKind, id string) (model.Entity, error) {
	switch kind {
	case model.KindInstitution:
		return c.Institution(ctx, id)
	case model.KindCourse:
		return c.Course(ctx, id)
	}
	return nil, fmt.Errorf("cannot fetch a %q", kind)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("directory api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("directory api: decode %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code, apiErr.Message = env.Error.Code, env.Error.Message
		}
		return apiErr
	}

	return json.Unmarshal(env.Data, out)
}
