// Package llamaparse parses documents with the LlamaParse cloud API.
//
// A document is uploaded as a parsing job, the job is polled until it
// finishes and the per-page markdown of the JSON result becomes the pages.
package llamaparse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/wilson-cli/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/wilson-cli/internal/core/domain"
	"github.com/custodia-labs/wilson-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wilson-cli/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "https://api.cloud.llamaindex.ai"
	DefaultTimeout           = 60 * time.Second
	DefaultPollInterval      = 2 * time.Second
	DefaultRequestsPerSecond = 2
)

// Job states reported by the API.
const (
	statusPending = "PENDING"
	statusSuccess = "SUCCESS"
	statusError   = "ERROR"
	statusCancel  = "CANCELED"
)

// Config holds configuration for the LlamaParse client.
type Config struct {
	// APIKey is the LlamaCloud API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.cloud.llamaindex.ai).
	BaseURL string

	// Timeout bounds each HTTP request (default: 60s).
	Timeout time.Duration

	// PollInterval is the delay between job status checks (default: 2s).
	PollInterval time.Duration

	// RequestsPerSecond throttles all API calls (default: 2).
	RequestsPerSecond float64
}

// Parser is a DocumentParser backed by LlamaParse.
type Parser struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	limiter      *ratelimit.Limiter
}

type jobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error_message,omitempty"`
}

type resultResponse struct {
	Pages []struct {
		Page int    `json:"page"`
		MD   string `json:"md"`
		Text string `json:"text"`
	} `json:"pages"`
}

// New creates a LlamaParse parser.
func New(cfg Config) (*Parser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: llamaparse API key is required", domain.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Parser{
		client:       &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		pollInterval: cfg.PollInterval,
		limiter:      ratelimit.New(ratelimit.Config{RequestsPerSecond: cfg.RequestsPerSecond, BurstSize: 1}),
	}, nil
}

// Name returns the parser name.
func (p *Parser) Name() string {
	return "llamaparse"
}

// Parse uploads the document, waits for the job and returns its pages.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Page, error) {
	jobID, err := p.upload(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("LlamaParse job %s created for %s", jobID, filepath.Base(path))

	if err := p.wait(ctx, jobID); err != nil {
		return nil, err
	}

	return p.result(ctx, jobID)
}

func (p *Parser) upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("llamaparse: build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("llamaparse: read %s: %w", filepath.Base(path), err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("llamaparse: build upload: %w", err)
	}

	var job jobResponse
	err = p.do(ctx, http.MethodPost, "/api/parsing/upload", &body, writer.FormDataContentType(), &job)
	if err != nil {
		return "", err
	}
	if job.ID == "" {
		return "", fmt.Errorf("llamaparse: upload returned no job id")
	}
	return job.ID, nil
}

func (p *Parser) wait(ctx context.Context, jobID string) error {
	for {
		var job jobResponse
		if err := p.do(ctx, http.MethodGet, "/api/parsing/job/"+jobID, nil, "", &job); err != nil {
			return err
		}

		switch strings.ToUpper(job.Status) {
		case statusSuccess:
			return nil
		case statusError, statusCancel:
			msg := job.Error
			if msg == "" {
				msg = strings.ToLower(job.Status)
			}
			return fmt.Errorf("llamaparse: job %s failed: %s", jobID, msg)
		case statusPending, "":
			logger.Debug("LlamaParse job %s pending", jobID)
		default:
			logger.Debug("LlamaParse job %s status %s", jobID, job.Status)
		}

		timer := time.NewTimer(p.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *Parser) result(ctx context.Context, jobID string) ([]domain.Page, error) {
	var res resultResponse
	if err := p.do(ctx, http.MethodGet, "/api/parsing/job/"+jobID+"/result/json", nil, "", &res); err != nil {
		return nil, err
	}

	pages := make([]domain.Page, 0, len(res.Pages))
	for i, pg := range res.Pages {
		number := pg.Page
		if number <= 0 {
			number = i + 1
		}
		text := pg.MD
		if text == "" {
			text = pg.Text
		}
		pages = append(pages, domain.Page{Number: number, StructuredText: text})
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Number < pages[j].Number
	})
	return pages, nil
}

// do sends one throttled request and decodes a JSON response into out.
func (p *Parser) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("llamaparse: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("llamaparse: request failed: %w", err)
	}
	defer resp.Body.Close()

	if p.limiter.Observe(resp) {
		return fmt.Errorf("llamaparse: %w", domain.ErrRateLimited)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("llamaparse: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llamaparse: API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("llamaparse: decode response: %w", err)
	}
	return nil
}
