package api

// API CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"woodcost/internal/estimate"
)

// Client calls the calculation service the way the CAD plugin does.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type calculateDirectRequest struct {
	Project estimate.ProjectMetadata `json:"project"`
	Parts   []estimate.DirectPart    `json:"parts"`
}

type calculateRequest struct {
	Project    estimate.ProjectMetadata `json:"project"`
	Components []estimate.Component     `json:"components"`
}

// CalculateDirect submits exact plugin geometry and returns the priced
// estimate.
func (c *Client) CalculateDirect(ctx context.Context, project estimate.ProjectMetadata, parts []estimate.DirectPart) (*estimate.Estimate, error) {
	return c.post(ctx, "/api/v1/calculate/direct", calculateDirectRequest{
		Project: project,
		Parts:   parts,
	})
}

// Calculate submits a structured component list.
func (c *Client) Calculate(ctx context.Context, project estimate.ProjectMetadata, components []estimate.Component) (*estimate.Estimate, error) {
	return c.post(ctx, "/api/v1/calculate", calculateRequest{
		Project:    project,
		Components: components,
	})
}

// PricingConfig fetches the active pricing configuration.
func (c *Client) PricingConfig(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET",
		fmt.Sprintf("%s/api/v1/pricing-config", c.baseURL),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var cfg map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return cfg, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*estimate.Estimate, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		"POST",
		c.baseURL+path,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var est estimate.Estimate
	if err := json.NewDecoder(resp.Body).Decode(&est); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &est, nil
}
