package resdeck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/resdeck/resdeck/forms"
	"github.com/resdeck/resdeck/internal/gateway"
	"github.com/resdeck/resdeck/permission"
)

// ResourceService groups the CRUD operations on /resources/. Obtain one
// from [Client.Resources]; it is stateless and safe to share.
type ResourceService struct {
	c *Client
}

// Resources returns the resource CRUD surface.
func (c *Client) Resources() *ResourceService {
	return &ResourceService{c: c}
}

// List fetches all resources, optionally filtered by a case-insensitive
// name search.
func (s *ResourceService) List(ctx context.Context, search string) ([]Resource, error) {
	if err := s.c.gate(ctx, permission.ActionRead); err != nil {
		return nil, err
	}
	req := &gateway.Request{Method: http.MethodGet, Path: "/resources/"}
	if search != "" {
		req.Query = url.Values{"search": []string{search}}
	}
	var out []Resource
	if err := s.do(ctx, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single resource by ID.
func (s *ResourceService) Get(ctx context.Context, id int64) (*Resource, error) {
	if err := s.c.gate(ctx, permission.ActionRead); err != nil {
		return nil, err
	}
	var out Resource
	req := &gateway.Request{Method: http.MethodGet, Path: fmt.Sprintf("/resources/%d/", id)}
	if err := s.do(ctx, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create validates in locally, then posts it. Field errors — local or from
// the backend — surface as *ValidationError.
func (s *ResourceService) Create(ctx context.Context, in ResourceInput) (*Resource, error) {
	if err := s.c.gate(ctx, permission.ActionCreate); err != nil {
		return nil, err
	}
	if verr := forms.Validate(in); verr != nil {
		return nil, verr
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode resource: %w", err)
	}
	var out Resource
	req := &gateway.Request{Method: http.MethodPost, Path: "/resources/", Body: payload}
	if err := s.do(ctx, req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the resource's writable fields.
func (s *ResourceService) Update(ctx context.Context, id int64, in ResourceInput) (*Resource, error) {
	if err := s.c.gate(ctx, permission.ActionUpdate); err != nil {
		return nil, err
	}
	if verr := forms.Validate(in); verr != nil {
		return nil, verr
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode resource: %w", err)
	}
	var out Resource
	req := &gateway.Request{Method: http.MethodPut, Path: fmt.Sprintf("/resources/%d/", id), Body: payload}
	if err := s.do(ctx, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a resource.
func (s *ResourceService) Delete(ctx context.Context, id int64) error {
	if err := s.c.gate(ctx, permission.ActionDelete); err != nil {
		return err
	}
	req := &gateway.Request{Method: http.MethodDelete, Path: fmt.Sprintf("/resources/%d/", id)}
	return s.do(ctx, req, http.StatusNoContent, nil)
}

// do runs one gateway call and decodes the body into out when the status
// matches want. Other 2xx statuses are tolerated as long as decoding works;
// non-success statuses map through the error taxonomy.
func (s *ResourceService) do(ctx context.Context, req *gateway.Request, want int, out any) error {
	resp, err := s.c.gw.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, body)
	}
	if out == nil || want == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
