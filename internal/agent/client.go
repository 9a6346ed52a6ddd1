// Package agent is the HTTP client for the companion process that handles
// scraping, job classification, and proposal-text generation. This backend
// only speaks the agent's wire contract; everything behind it is the
// agent's business.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the companion agent.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// StatusError reports a non-2xx answer from the agent.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("agent returned status %d: %s", e.StatusCode, e.Body)
}

type classifyResponse struct {
	Classification int `json:"classification"`
}

type proposalResponse struct {
	Proposal string `json:"proposal"`
}

// ClassifyJob asks the agent whether a job fits a user. Zero means
// unclassified, non-zero means the agent has a verdict (-1 reject,
// 1 acceptable).
func (c *Client) ClassifyJob(ctx context.Context, jobID, userID uint) (int, error) {
	var out classifyResponse
	err := c.do(ctx, http.MethodGet, "/classify_job", url.Values{
		"job_id":  {strconv.FormatUint(uint64(jobID), 10)},
		"user_id": {strconv.FormatUint(uint64(userID), 10)},
	}, &out)
	if err != nil {
		return 0, err
	}
	return out.Classification, nil
}

// GenerateProposal asks the agent to draft proposal text for a job.
func (c *Client) GenerateProposal(ctx context.Context, jobID, userID uint) (string, error) {
	var out proposalResponse
	err := c.do(ctx, http.MethodGet, "/generate_proposal", url.Values{
		"job_id":  {strconv.FormatUint(uint64(jobID), 10)},
		"user_id": {strconv.FormatUint(uint64(userID), 10)},
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Proposal, nil
}

// ScrapeForUser kicks off a scrape pass for the user's search contexts.
func (c *Client) ScrapeForUser(ctx context.Context, userID uint) error {
	return c.do(ctx, http.MethodPost, "/scrape_for_user", url.Values{
		"user_id": {strconv.FormatUint(uint64(userID), 10)},
	}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, result any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build agent request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("agent request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read agent response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("parse agent response: %w", err)
		}
	}
	return nil
}
