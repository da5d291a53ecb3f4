package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	errs "campaignscraper/pkg/errors"
	"campaignscraper/pkg/logger"
)

// Client talks to the campaign ingestion API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     logger.Logger
}

// NewClient creates an ingestion API client. token may be empty for
// unauthenticated deployments.
func NewClient(baseURL string, token string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		token:   token,
		logger:  log,
	}
}

// doRequest performs an HTTP request with standard headers set.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "campaignscraper/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Newf(errs.ErrorTypeTransport, "network error: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// checkResponseStatus maps non-200 responses to typed errors.
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := fmt.Sprintf("API returned status %d", resp.StatusCode)
	if len(body) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, string(body))
	}

	return errs.FromStatusCode(resp.StatusCode, msg)
}

// getJSON performs a GET and decodes the JSON response into target.
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.Newf(errs.ErrorTypeUnknown, "failed to create request: %v", err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errs.Newf(errs.ErrorTypeParsing, "failed to parse JSON response: %v", err)
	}

	return nil
}

// Health checks the API health endpoint. A run does not start until this
// returns nil.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errs.Newf(errs.ErrorTypeUnknown, "failed to create request: %v", err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return fmt.Errorf("API health check failed: %w", err)
	}

	c.logger.Debug("API connection verified")
	return nil
}

// GetParty fetches a party by ID. The caller checks Active before
// submitting anything on its behalf.
func (c *Client) GetParty(ctx context.Context, id int) (*Party, error) {
	var party Party
	url := fmt.Sprintf("%s/api/v1/parties/%d", c.baseURL, id)
	if err := c.getJSON(ctx, url, &party); err != nil {
		return nil, fmt.Errorf("party lookup failed: %w", err)
	}
	return &party, nil
}

// SubmitBulk posts one batch of messages for the given party.
func (c *Client) SubmitBulk(ctx context.Context, partyID int, msgs []WireMessage) (*BulkResponse, error) {
	payload, err := json.Marshal(bulkRequest{Messages: msgs})
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeUnknown, "failed to marshal batch: %v", err)
	}

	url := c.baseURL + "/api/v1/messages/bulk?party_id=" + strconv.Itoa(partyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeUnknown, "failed to create request: %v", err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	var result BulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errs.Newf(errs.ErrorTypeParsing, "failed to parse bulk response: %v", err)
	}

	c.logger.InfoWithFields("batch submitted", map[string]interface{}{
		"imported": result.ImportedCount,
		"skipped":  result.SkippedCount,
		"errors":   len(result.Errors),
	})

	return &result, nil
}
