package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opflow/opflow-cli/pkg/models"
)

// Client talks to the data-platform registry over its REST JSON API.
type Client struct {
	base *url.URL
	http *http.Client
}

// New builds a client for a registry base URL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid registry URL %q: scheme and host are required", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// listEnvelope is the registry's paged-collection wrapper.
type listEnvelope[T any] struct {
	Content []T `json:"content"`
}

func (c *Client) Operators(ctx context.Context, page, size int) ([]models.OperatorDefinition, error) {
	body := map[string]int{"page": page, "size": size}
	var env listEnvelope[models.OperatorDefinition]
	if err := c.do(ctx, http.MethodPost, "/api/operators/list", body, &env); err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	return env.Content, nil
}

func (c *Client) CategoryTree(ctx context.Context) ([]models.CategoryGroup, error) {
	var env listEnvelope[models.CategoryGroup]
	if err := c.do(ctx, http.MethodGet, "/api/operators/categories/tree", nil, &env); err != nil {
		return nil, fmt.Errorf("failed to fetch category tree: %w", err)
	}
	return env.Content, nil
}

func (c *Client) StarOperator(ctx context.Context, id string, starred bool) error {
	body := map[string]interface{}{"id": id, "isStar": starred}
	if err := c.do(ctx, http.MethodPut, "/api/operators/"+url.PathEscape(id), body, nil); err != nil {
		return fmt.Errorf("failed to update operator %s: %w", id, err)
	}
	return nil
}

func (c *Client) Templates(ctx context.Context) ([]models.Template, error) {
	var env listEnvelope[models.Template]
	if err := c.do(ctx, http.MethodGet, "/api/cleaning/templates", nil, &env); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return env.Content, nil
}

func (c *Client) Template(ctx context.Context, id string) (models.Template, error) {
	var tpl models.Template
	if err := c.do(ctx, http.MethodGet, "/api/cleaning/templates/"+url.PathEscape(id), nil, &tpl); err != nil {
		return models.Template{}, fmt.Errorf("failed to fetch template %s: %w", id, err)
	}
	return tpl, nil
}

func (c *Client) CreateTemplate(ctx context.Context, payload models.TemplatePayload) error {
	if err := c.do(ctx, http.MethodPost, "/api/cleaning/templates", payload, nil); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (c *Client) UpdateTemplate(ctx context.Context, id string, payload models.TemplatePayload) error {
	if err := c.do(ctx, http.MethodPut, "/api/cleaning/templates/"+url.PathEscape(id), payload, nil); err != nil {
		return fmt.Errorf("failed to update template %s: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/cleaning/templates/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}
	return nil
}

func (c *Client) CreateTask(ctx context.Context, payload models.TaskPayload) error {
	if err := c.do(ctx, http.MethodPost, "/api/cleaning/tasks", payload, nil); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
