// Package client talks to a running contact requests service over its REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"gitlab.com/dirk.krummacker/contact-requests-service/internal/report"
	apimodel "gitlab.com/dirk.krummacker/contact-requests-service/pkg/model"
)

// APIError is returned for every answer with a status code outside of 2xx.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Client is a typed client of the contact requests endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL. A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// ListQuery holds the optional filters and paging parameters of List. Zero values are omitted.
type ListQuery struct {
	Status      apimodel.Status
	CompanySize apimodel.CompanySize
	Country     apimodel.Country
	Source      string
	Search      string
	Limit       int
	Offset      int
}

func (q ListQuery) values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("status", string(q.Status))
	set("companySize", string(q.CompanySize))
	set("country", string(q.Country))
	set("source", q.Source)
	set("search", q.Search)
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}
	return values
}

// Submit creates a contact request and returns it as stored by the service.
func (c *Client) Submit(ctx context.Context, s apimodel.Submission) (apimodel.ContactRequest, error) {
	var response apimodel.Response[apimodel.ContactRequest]
	if err := c.do(ctx, http.MethodPost, report.ContactRequestsPath, s, &response); err != nil {
		return apimodel.ContactRequest{}, err
	}
	return response.Data, nil
}

// List returns the contact requests matching the query, newest first.
func (c *Client) List(ctx context.Context, q ListQuery) ([]apimodel.ContactRequest, error) {
	path := report.ContactRequestsPath
	if encoded := q.values().Encode(); encoded != "" {
		path += "?" + encoded
	}
	var response apimodel.ListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Stats returns the number of contact requests per status, company size and country.
func (c *Client) Stats(ctx context.Context) (apimodel.Stats, error) {
	var response apimodel.Response[apimodel.Stats]
	if err := c.do(ctx, http.MethodGet, report.StatsPath, nil, &response); err != nil {
		return apimodel.Stats{}, err
	}
	return response.Data, nil
}

// Health returns nil if the service and its database are available.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// WaitUntilAvailable calls Health every delay until it succeeds or ctx is done. onRetry is called
// after every failed attempt with the total time waited so far and may be nil.
func (c *Client) WaitUntilAvailable(ctx context.Context, delay time.Duration, onRetry func(waited time.Duration, err error)) error {
	return retry.Do(
		func() error { return c.Health(ctx) },
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if onRetry != nil {
				onRetry(time.Duration(n+1)*delay, err)
			}
		}),
	)
}

// do sends the request and decodes a 2xx answer into out, which may be nil.
func (c *Client) do(ctx context.Context, method string, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("could not marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var failure apimodel.ErrorResponse
		_ = json.Unmarshal(resBody, &failure)
		return &APIError{StatusCode: res.StatusCode, Message: failure.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	return nil
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}
