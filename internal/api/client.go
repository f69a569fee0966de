package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akarpov/flashka/internal/deck"
	"github.com/akarpov/flashka/internal/results"
)

// Client talks to the interactive-learning REST service. It covers the two
// collaborators the study engine consumes — module loading and result
// submission — plus the read-only calls the UI needs.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// ModuleInfo is a module reference without cards, as listed on the user
// profile and inside categories.
type ModuleInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoryInfo is a category reference without its module list.
type CategoryInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is the profile returned by the service, with the module and
// category rosters the home screen offers for study.
type User struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Modules    []ModuleInfo   `json:"modules"`
	Categories []CategoryInfo `json:"categories"`
}

// Category is a full category: its name plus the modules it spans.
type Category struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Modules []ModuleInfo `json:"modules"`
}

// New creates a client for the service at baseURL authenticating with the
// given bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Me fetches the current user with module and category rosters.
func (c *Client) Me(ctx context.Context) (*User, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/user/me?is_full=t", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		User User `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &resp.User, nil
}

// ModulesByIDs loads the given modules with their cards, in request order.
// An unknown id yields ErrNotFound; an existing module with no cards comes
// back as an empty module, which is not an error here.
func (c *Client) ModulesByIDs(ctx context.Context, ids []int) ([]deck.Module, error) {
	payload := struct {
		ModulesIDs []int `json:"modules_ids"`
	}{ModulesIDs: ids}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/module/by_ids?with_cards=t", payload)
	if err != nil {
		return nil, err
	}

	if err := validateModulesResponse(body); err != nil {
		return nil, err
	}

	var resp struct {
		Modules []deck.Module `json:"modules"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode modules: %w", err)
	}
	return resp.Modules, nil
}

// Category fetches a category with its module roster.
func (c *Client) Category(ctx context.Context, id int) (*Category, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/category/%d?is_full=t", id), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Category Category `json:"category"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode category: %w", err)
	}
	return &resp.Category, nil
}

// SubmitModuleResult posts the results of a single-module session. The
// caller keeps the payload on failure; a retry re-sends the same value.
func (c *Client) SubmitModuleResult(ctx context.Context, sub results.ModuleSubmission) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/results/module_result/insert", sub)
	return err
}

// SubmitCategoryResult posts the results of a category session.
func (c *Client) SubmitCategoryResult(ctx context.Context, sub results.CategorySubmission) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/results/category_result/insert", sub)
	return err
}

// do performs one request and maps non-2xx statuses to the package's
// error values.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &msg)
		return nil, &StatusError{Code: resp.StatusCode, Message: msg.Message}
	}
}
