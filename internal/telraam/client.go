// Package telraam implements the rate-limited client for the Telraam
// counting API.
package telraam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/olane/telraam-analyser/internal/series"
)

const (
	defaultBaseURL = "https://telraam-api.net/v1"

	// The API rejects a single report request spanning more than 90 days.
	maxChunkDays = 90

	// Minimum interval between outbound calls.
	defaultMinInterval = time.Second

	apiTimeLayout = "2006-01-02 15:04:05"
)

// Client issues rate-limited requests to the Telraam API, splitting ranges
// longer than the per-request maximum into sequential chunks. The HTTP
// session and the rate limiter live on the instance, so independent clients
// never interfere.
type Client struct {
	rest     *resty.Client
	limiter  *rate.Limiter
	validate *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.rest.SetBaseURL(u) }
}

// WithMinInterval overrides the minimum interval between outbound calls.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(d), 1) }
}

// NewClient creates a client that authenticates with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		rest: resty.New().
			SetBaseURL(defaultBaseURL).
			SetHeader("X-Api-Key", apiKey).
			SetTimeout(2 * time.Minute),
		limiter:  rate.NewLimiter(rate.Every(defaultMinInterval), 1),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the traffic report for req, chunking ranges longer than
// 90 days into sequential sub-requests issued in ascending order. progress,
// when non-nil, is called after each completed chunk. A failure in any chunk
// aborts the whole call; partial results are discarded. An empty remote
// report yields an empty series, not an error.
func (c *Client) Fetch(ctx context.Context, req Request, progress ProgressFunc) (series.Series, error) {
	if req.Level == "" {
		req.Level = "segments"
	}
	if req.Format == "" {
		req.Format = "per-hour"
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid fetch request: %w", err)
	}

	chunks := splitIntoChunks(req, maxChunkDays)
	total := len(chunks)

	var records []series.Record
	for i, chunk := range chunks {
		rows, err := c.postTraffic(ctx, chunk)
		if err != nil {
			return nil, err
		}
		records = append(records, rows...)
		if progress != nil {
			progress(i+1, total)
		}
	}

	if len(records) == 0 {
		return nil, nil
	}
	return series.FromRecords(records), nil
}

// postTraffic issues one POST /reports/traffic call, waiting on the rate
// limiter first. Every outbound call goes through here, so consecutive
// chunks of one logical fetch are spaced like independent requests.
func (c *Client) postTraffic(ctx context.Context, req Request) ([]series.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body := map[string]string{
		"id":         req.SegmentID,
		"time_start": req.TimeStart.UTC().Format(apiTimeLayout) + "Z",
		"time_end":   req.TimeEnd.UTC().Format(apiTimeLayout) + "Z",
		"level":      req.Level,
		"format":     req.Format,
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(body).
		Post("/reports/traffic")
	if err != nil {
		return nil, fmt.Errorf("POST /reports/traffic: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: truncate(resp.Body())}
	}

	var envelope struct {
		Report json.RawMessage `json:"report"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: truncate(resp.Body())}
	}

	report := bytes.TrimSpace(envelope.Report)
	if len(report) == 0 || bytes.Equal(report, []byte("null")) {
		return nil, nil
	}
	if report[0] != '[' {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: truncate(envelope.Report)}
	}

	var raw []rawRecord
	if err := json.Unmarshal(report, &raw); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: truncate(envelope.Report)}
	}

	records := make([]series.Record, 0, len(raw))
	for _, rr := range raw {
		rec, err := rr.toRecord()
		if err != nil {
			return nil, &APIError{StatusCode: resp.StatusCode(), Body: truncate(envelope.Report)}
		}
		records = append(records, rec)
	}
	return records, nil
}

// splitIntoChunks splits [TimeStart, TimeEnd) into contiguous half-open
// sub-ranges of at most maxDays days. Concatenating the chunk boundaries
// reconstructs the original span exactly.
func splitIntoChunks(req Request, maxDays int) []Request {
	var chunks []Request
	for cur := req.TimeStart; cur.Before(req.TimeEnd); {
		chunkEnd := cur.AddDate(0, 0, maxDays)
		if chunkEnd.After(req.TimeEnd) {
			chunkEnd = req.TimeEnd
		}
		chunk := req
		chunk.TimeStart = cur
		chunk.TimeEnd = chunkEnd
		chunks = append(chunks, chunk)
		cur = chunkEnd
	}
	return chunks
}
