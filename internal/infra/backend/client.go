// Package backend is the client for the knowledge service that performs
// research and proposes follow-up subjects.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vietddude/inquest/internal/core/domain"
)

const (
	researchPath    = "/v1/research"
	nextSubjectPath = "/v1/next-subject"
)

// Client calls the knowledge backend over JSON/HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a backend client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchResearch requests a research artifact for a subject.
func (c *Client) FetchResearch(ctx context.Context, subject string) (domain.Artifact, error) {
	const op = "fetch research"

	var payload struct {
		Summary string `json:"summary"`
		Sources []struct {
			URI   string `json:"uri"`
			Title string `json:"title"`
		} `json:"sources"`
	}
	err := c.post(ctx, op, researchPath, map[string]string{"subject": subject}, &payload)
	if err != nil {
		return domain.Artifact{}, err
	}

	if strings.TrimSpace(payload.Summary) == "" {
		return domain.Artifact{}, &Error{Op: op, Kind: KindEmptyResult, Err: errors.New("response has no summary")}
	}

	artifact := domain.Artifact{Summary: payload.Summary}
	for _, s := range payload.Sources {
		artifact.Sources = append(artifact.Sources, domain.Source{URI: s.URI, Title: s.Title})
	}
	return artifact, nil
}

// FetchNextSubject asks the backend to propose a follow-up subject from a
// summary. An empty subject is a valid result meaning "no continuation".
func (c *Client) FetchNextSubject(ctx context.Context, summary string) (string, error) {
	const op = "fetch next subject"

	var payload struct {
		Subject string `json:"subject"`
	}
	err := c.post(ctx, op, nextSubjectPath, map[string]string{"summary": summary}, &payload)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(payload.Subject), nil
}

func (c *Client) post(ctx context.Context, op, path string, reqBody, out any) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return &Error{Op: op, Kind: KindBadRequest, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return &Error{Op: op, Kind: KindBadRequest, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &Error{Op: op, Kind: KindRateLimited, Status: resp.StatusCode, Err: errors.New(trimBody(body))}
	case resp.StatusCode >= 500:
		return &Error{Op: op, Kind: KindServer, Status: resp.StatusCode, Err: errors.New(trimBody(body))}
	case resp.StatusCode != http.StatusOK:
		return &Error{Op: op, Kind: KindBadRequest, Status: resp.StatusCode, Err: errors.New(trimBody(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: op, Kind: KindBadRequest, Status: resp.StatusCode, Err: fmt.Errorf("parse response: %w", err)}
	}
	return nil
}

// trimBody keeps error messages readable when the backend returns a page of
// HTML or a long trace.
func trimBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		s = "empty response body"
	}
	return s
}
